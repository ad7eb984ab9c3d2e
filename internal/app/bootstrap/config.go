// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/certificate"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/tutor"
	"github.com/dalemusser/leaguehub/internal/app/system/validate"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LeagueHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LEAGUEHUB_MONGO_URI, LEAGUEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "leaguehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "leaguehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h; 0 for a browser session)"},

	{Name: "admin_email", Default: roles.DefaultAdminEmail, Desc: "Email that resolves to the administrator role"},

	// League identity
	{Name: "league_name", Default: "Liga Acadêmica de Pesquisa e Inovação em Biomedicina", Desc: "League display name"},
	{Name: "league_acronym", Default: "LAPIB", Desc: "League acronym"},
	{Name: "league_university", Default: "Faculdade Estácio de Goiás", Desc: "Host institution"},
	{Name: "certificate_signatories", Default: "Victor Vilardell Papalardo|Presidente da LAPIB;Abel Vieira de Melo Bisneto|Coordenador de Biomedicina", Desc: "Declaration signatures as 'Name|Title' separated by ';'"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3 configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "S3-compatible endpoint (blank for AWS)"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public URL for stored objects (CDN or bucket website)"},

	// AI tutor
	{Name: "gemini_api_key", Default: "", Desc: "Gemini API key (blank disables the tutor)"},
	{Name: "gemini_model", Default: tutor.DefaultModel, Desc: "Gemini model name"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL"},

	// Live channel
	{Name: "livesync_poll_interval", Default: "5s", Desc: "Reload interval when change streams are unavailable"},
	{Name: "live_allowed_origin", Default: "", Desc: "Origin accepted on the live websocket (blank accepts any)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env and config files, the
// WAFFLE_* and LEAGUEHUB_* environment, and command-line flags, merged
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEAGUEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		AdminEmail: appValues.String("admin_email"),

		LeagueName:       appValues.String("league_name"),
		LeagueAcronym:    appValues.String("league_acronym"),
		LeagueUniversity: appValues.String("league_university"),
		Signatories:      parseSignatories(appValues.String("certificate_signatories")),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),

		// Tutor
		GeminiAPIKey: appValues.String("gemini_api_key"),
		GeminiModel:  appValues.String("gemini_model"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		BaseURL: appValues.String("base_url"),

		// Live channel
		LivesyncPollInterval: appValues.Duration("livesync_poll_interval", 5*time.Second),
		LiveAllowedOrigin:    appValues.String("live_allowed_origin"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection is attempted, the admin
// email must be a real address, and S3 storage needs its bucket.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if !validate.Var(appCfg.AdminEmail, "required,email") {
		return fmt.Errorf("admin_email %q is not a valid email", appCfg.AdminEmail)
	}

	switch appCfg.StorageType {
	case "local":
		if appCfg.StorageLocalPath == "" {
			return errors.New("storage_type=local requires storage_local_path")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return errors.New("storage_type=s3 requires storage_s3_bucket and storage_s3_region")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want 'local' or 's3')", appCfg.StorageType)
	}

	if appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret == "" {
		return errors.New("google_client_id is set but google_client_secret is empty")
	}
	if appCfg.GeminiAPIKey == "" {
		logger.Warn("gemini_api_key is empty; the assistant will answer with its fallback message")
	}
	return nil
}

// parseSignatories reads "Name|Title;Name|Title". Entries without a name
// are skipped.
func parseSignatories(raw string) []certificate.Signatory {
	var out []certificate.Signatory
	for _, entry := range strings.Split(raw, ";") {
		name, title, _ := strings.Cut(entry, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, certificate.Signatory{Name: name, Title: strings.TrimSpace(title)})
	}
	return out
}
