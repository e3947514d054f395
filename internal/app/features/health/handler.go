// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pinger checks that the members backend answers.
// *membersclient.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Backend Pinger
	Client  *mongo.Client // nil when the API is not served from this process
	Log     *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil.
func NewHandler(backend Pinger, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Backend: backend,
		Client:  client,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string            `json:"status"`
	Backend  string            `json:"backend"`
	Database string            `json:"database"`
	Message  string            `json:"message,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// Serve handles GET /health. The backend and the database are probed
// concurrently with the ping timeout.
//
// On success: 200 and
//
//	{ "status":"ok", "backend":"up", "database":"connected" }
//
// On failure: 503 and
//
//	{ "status":"error", "backend":"down", ..., "errors":{"backend":"…"} }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Backend:  "up",
		Database: "disabled",
	}
	var backendErr, dbErr error

	// Plain group: one failed probe must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		backendErr = h.Backend.Ping(ctx)
		return backendErr
	})
	if h.Client != nil {
		resp.Database = "connected"
		g.Go(func() error {
			dbErr = h.Client.Ping(ctx, readpref.Primary())
			return dbErr
		})
	}

	status := http.StatusOK
	if err := g.Wait(); err != nil {
		status = http.StatusServiceUnavailable
		resp.Status = "error"
		resp.Message = "Dependency unavailable"
		resp.Errors = map[string]string{}
		if backendErr != nil {
			h.Log.Error("health-check: members backend ping failed", zap.Error(backendErr))
			resp.Backend = "down"
			resp.Errors["backend"] = backendErr.Error()
		}
		if dbErr != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(dbErr))
			resp.Database = "disconnected"
			resp.Errors["database"] = dbErr.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
