// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration, which covers ports, TLS,
// logging and request limits.
type AppConfig struct {
	// Members REST backend the directory talks to.
	MembersAPIURL string // e.g. http://localhost:8080 (the API lives under /api/members)

	// Reference backend served from this process.
	ServeAPI         bool   // serve /api/members from MongoDB
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Visitor cookie configuration
	SessionKey    string // Secret key for signing the visitor cookie (blank: random, dev only)
	SessionName   string // Cookie name (default: peopledir-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Photo uploads
	UploadProvider         string // "cloudinary", "s3", "local" or "fake" (dev only)
	CloudinaryUploadURL    string // blank derives https://api.cloudinary.com/v1_1/<cloud>/image/upload
	CloudinaryCloudName    string
	CloudinaryUploadPreset string // unsigned upload preset
	PhotoS3Region          string
	PhotoS3Bucket          string
	PhotoS3Prefix          string
	PhotoPublicBaseURL     string // public URL the S3 keys are served under
	PhotoLocalDir          string // directory the local provider writes to
	PhotoLocalURL          string // URL prefix that directory is served under
	UploadMaxBytes         int64
	UploadRateLimit        int // uploads per visitor per minute

	// Per-visitor directory state
	StateIdleTTL       time.Duration // state untouched this long is dropped
	StateSweepInterval time.Duration // how often idle state is swept
}

// cloudinaryUploadURL is the upload endpoint for the configured cloud.
func (c AppConfig) cloudinaryUploadURL() string {
	if c.CloudinaryUploadURL != "" {
		return c.CloudinaryUploadURL
	}
	return "https://api.cloudinary.com/v1_1/" + c.CloudinaryCloudName + "/image/upload"
}
