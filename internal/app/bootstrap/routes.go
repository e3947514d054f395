// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	dashboardfeature "github.com/dalemusser/peopledir/internal/app/features/dashboard"
	directoryfeature "github.com/dalemusser/peopledir/internal/app/features/directory"
	errorsfeature "github.com/dalemusser/peopledir/internal/app/features/errors"
	healthfeature "github.com/dalemusser/peopledir/internal/app/features/health"
	membersapifeature "github.com/dalemusser/peopledir/internal/app/features/membersapi"
	"github.com/dalemusser/peopledir/internal/app/system/assets"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/app/system/ratelimit"
	"github.com/dalemusser/peopledir/internal/app/system/viewstate"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// uploadLimiter throttles photo uploads per visitor. Stopped in Shutdown.
var uploadLimiter *ratelimit.Limiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The directory UI and dashboard sit behind the visitor cookie middleware.
// The members API (when served here) and the health check do not.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessions, err := viewstate.NewSessions(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("visitor sessions init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	uploader, err := buildUploader(coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("photo uploader init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	members := membersclient.New(appCfg.MembersAPIURL, &http.Client{}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(members, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Reference members backend
	if deps.MongoDatabase != nil {
		apiHandler := membersapifeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/api/members", membersapifeature.Routes(apiHandler))
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	uploadLimiter = ratelimit.New(appCfg.UploadRateLimit, time.Minute)
	limitByVisitor := uploadLimiter.Middleware(func(req *http.Request) string {
		id, _ := viewstate.Visitor(req.Context())
		return id
	})

	r.Group(func(ui chi.Router) {
		ui.Use(sessions.Middleware)
		ui.Use(viewstate.CSRF(appCfg.SessionKey, secure, logger))

		ui.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/directory", http.StatusSeeOther)
		})

		dashboardHandler := dashboardfeature.NewHandler(members, errLog, logger)
		ui.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		directoryHandler := directoryfeature.NewHandler(members, uploader, states, errLog, logger)
		directoryHandler.MaxUpload = appCfg.UploadMaxBytes
		ui.Mount("/directory", directoryfeature.Routes(directoryHandler, limitByVisitor))
	})

	return r, nil
}

// buildUploader picks the photo store. In dev, Cloudinary without a cloud
// name falls back to local storage so the form stays usable.
func buildUploader(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (assets.Uploader, error) {
	switch appCfg.UploadProvider {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return assets.NewS3(ctx, assets.S3Config{
			Region:        appCfg.PhotoS3Region,
			Bucket:        appCfg.PhotoS3Bucket,
			Prefix:        appCfg.PhotoS3Prefix,
			PublicBaseURL: appCfg.PhotoPublicBaseURL,
			MaxBytes:      appCfg.UploadMaxBytes,
		}, logger)
	case "cloudinary":
		if appCfg.CloudinaryCloudName != "" {
			return &assets.Cloudinary{
				UploadURL: appCfg.cloudinaryUploadURL(),
				CloudName: appCfg.CloudinaryCloudName,
				Preset:    appCfg.CloudinaryUploadPreset,
				MaxBytes:  appCfg.UploadMaxBytes,
				HTTP:      &http.Client{},
				Log:       logger,
			}, nil
		}
		if coreCfg.Env == "prod" {
			return nil, fmt.Errorf("cloudinary_cloud_name is required in prod")
		}
		logger.Warn("cloudinary not configured; photos are stored locally",
			zap.String("dir", appCfg.PhotoLocalDir))
		return assets.NewLocal(appCfg.PhotoLocalDir, appCfg.PhotoLocalURL, appCfg.UploadMaxBytes, logger)
	case "local":
		return assets.NewLocal(appCfg.PhotoLocalDir, appCfg.PhotoLocalURL, appCfg.UploadMaxBytes, logger)
	case "fake":
		return &assets.Fake{BaseURL: "/static/photos"}, nil
	}
	return nil, fmt.Errorf("unknown upload_provider %q", appCfg.UploadProvider)
}
