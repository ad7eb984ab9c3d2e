// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/certificate"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging, CORS, body limits); everything the
// league app itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: leaguehub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime; zero means a browser session

	// AdminEmail is the one address that resolves to the admin role.
	AdminEmail string

	// League identity shown on the landing, in the tutor prompt and on declarations.
	LeagueName       string
	LeagueAcronym    string
	LeagueUniversity string
	Signatories      []certificate.Signatory

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3Endpoint  string // S3-compatible endpoint; blank for AWS
	StorageS3PublicURL string // CDN or public bucket URL

	// AI tutor; a blank key leaves the assistant answering with its apology.
	GeminiAPIKey string
	GeminiModel  string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks
	BaseURL string

	// Live channel
	LivesyncPollInterval time.Duration // fallback reload interval without change streams
	LiveAllowedOrigin    string        // Origin accepted on /live; blank accepts any

	// Audit logging
	AuditLogAuth  string
	AuditLogAdmin string
}
