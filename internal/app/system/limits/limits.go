// internal/app/system/limits/limits.go
package limits

// Request body size limits per kind of upload. ParseMultipartForm keeps up to
// MaxMemory in RAM and spills the rest to temp files.
const (
	MaxMemory = 8 << 20 // 8 MB

	// MaxImageUpload bounds event banners, project images, avatars and the logo.
	MaxImageUpload = 10 << 20 // 10 MB

	// MaxDocumentUpload bounds the edital PDF, member documents and chat files.
	MaxDocumentUpload = 25 << 20 // 25 MB

	// MaxPostUpload bounds one feed post with all its media (videos included).
	MaxPostUpload = 200 << 20 // 200 MB
)
