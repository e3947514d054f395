// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/peopledir/internal/app/system/assets"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the people directory.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: members_api_url, session_name, etc.
//   - Environment variables: PEOPLEDIR_MEMBERS_API_URL, PEOPLEDIR_SESSION_NAME, etc.
//   - Command-line flags: --members_api_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "members_api_url", Default: "http://localhost:8080", Desc: "Base URL of the members REST backend"},

	// Reference backend
	{Name: "serve_api", Default: true, Desc: "Serve /api/members from MongoDB in this process"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "peopledir", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Visitor cookie
	{Name: "session_key", Default: "", Desc: "Visitor cookie signing key (blank: random per start, dev only)"},
	{Name: "session_name", Default: "peopledir-session", Desc: "Visitor cookie name"},
	{Name: "session_domain", Default: "", Desc: "Visitor cookie domain (blank means current host)"},

	// Photo uploads
	{Name: "upload_provider", Default: "cloudinary", Desc: "Photo storage: 'cloudinary', 's3', 'local' or 'fake' (dev only)"},
	{Name: "cloudinary_upload_url", Default: "", Desc: "Cloudinary upload endpoint (blank derives it from the cloud name)"},
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name"},
	{Name: "cloudinary_upload_preset", Default: "", Desc: "Cloudinary unsigned upload preset"},
	{Name: "photo_s3_region", Default: "", Desc: "AWS region for the photo bucket"},
	{Name: "photo_s3_bucket", Default: "", Desc: "S3 bucket for photos"},
	{Name: "photo_s3_prefix", Default: "photos", Desc: "S3 key prefix for photos"},
	{Name: "photo_public_base_url", Default: "", Desc: "Public base URL photos are served from"},
	{Name: "photo_local_dir", Default: "public/photos", Desc: "Directory for locally stored photos"},
	{Name: "photo_local_url", Default: "/static/photos", Desc: "URL prefix for serving locally stored photos"},
	{Name: "upload_max_bytes", Default: int(assets.DefaultMaxBytes), Desc: "Largest accepted photo in bytes"},
	{Name: "upload_rate_limit", Default: 10, Desc: "Photo uploads allowed per visitor per minute"},

	// View state
	{Name: "state_idle_ttl", Default: "2h", Desc: "Drop a visitor's directory state after this much inactivity"},
	{Name: "state_sweep_interval", Default: "10m", Desc: "How often idle directory state is swept"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, with precedence
// flags > env (PEOPLEDIR_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PEOPLEDIR", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MembersAPIURL: strings.TrimRight(appValues.String("members_api_url"), "/"),

		ServeAPI:         appValues.Bool("serve_api"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		UploadProvider:         strings.ToLower(strings.TrimSpace(appValues.String("upload_provider"))),
		CloudinaryUploadURL:    appValues.String("cloudinary_upload_url"),
		CloudinaryCloudName:    appValues.String("cloudinary_cloud_name"),
		CloudinaryUploadPreset: appValues.String("cloudinary_upload_preset"),
		PhotoS3Region:          appValues.String("photo_s3_region"),
		PhotoS3Bucket:          appValues.String("photo_s3_bucket"),
		PhotoS3Prefix:          appValues.String("photo_s3_prefix"),
		PhotoPublicBaseURL:     appValues.String("photo_public_base_url"),
		PhotoLocalDir:          appValues.String("photo_local_dir"),
		PhotoLocalURL:          appValues.String("photo_local_url"),
		UploadMaxBytes:         int64(appValues.Int("upload_max_bytes")),
		UploadRateLimit:        appValues.Int("upload_rate_limit"),

		StateIdleTTL:       appValues.Duration("state_idle_ttl", 2*time.Hour),
		StateSweepInterval: appValues.Duration("state_sweep_interval", 10*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateBaseURL(appCfg.MembersAPIURL); err != nil {
		logger.Error("invalid members API URL", zap.String("members_api_url", appCfg.MembersAPIURL), zap.Error(err))
		return fmt.Errorf("invalid members_api_url: %w", err)
	}

	if appCfg.ServeAPI {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return errors.New("mongo_database is required when serve_api is on")
		}
	}

	if appCfg.SessionName == "" {
		return errors.New("session_name must not be empty")
	}
	if coreCfg.Env == "prod" && appCfg.SessionKey == "" {
		return errors.New("session_key is required in prod")
	}

	if appCfg.UploadMaxBytes <= 0 {
		return errors.New("upload_max_bytes must be positive")
	}
	if appCfg.StateIdleTTL <= 0 || appCfg.StateSweepInterval <= 0 {
		return errors.New("state_idle_ttl and state_sweep_interval must be positive")
	}

	return validateUploader(coreCfg.Env, appCfg)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is missing")
	}
	return nil
}

func validateUploader(env string, appCfg AppConfig) error {
	switch appCfg.UploadProvider {
	case "cloudinary":
		// Dev without Cloudinary settings falls back to local storage.
		if env != "prod" && appCfg.CloudinaryCloudName == "" {
			return nil
		}
		if appCfg.CloudinaryCloudName == "" || appCfg.CloudinaryUploadPreset == "" {
			return errors.New("cloudinary uploads need cloudinary_cloud_name and cloudinary_upload_preset")
		}
		if appCfg.CloudinaryUploadURL != "" {
			if err := validateBaseURL(appCfg.CloudinaryUploadURL); err != nil {
				return fmt.Errorf("invalid cloudinary_upload_url: %w", err)
			}
		}
	case "s3":
		if appCfg.PhotoS3Bucket == "" || appCfg.PhotoPublicBaseURL == "" {
			return errors.New("s3 uploads need photo_s3_bucket and photo_public_base_url")
		}
		if err := validateBaseURL(appCfg.PhotoPublicBaseURL); err != nil {
			return fmt.Errorf("invalid photo_public_base_url: %w", err)
		}
	case "local":
		if appCfg.PhotoLocalDir == "" || appCfg.PhotoLocalURL == "" {
			return errors.New("local uploads need photo_local_dir and photo_local_url")
		}
	case "fake":
		if env == "prod" {
			return errors.New("upload_provider 'fake' is not allowed in prod")
		}
	default:
		return fmt.Errorf("unknown upload_provider %q (want cloudinary, s3, local or fake)", appCfg.UploadProvider)
	}
	return nil
}
