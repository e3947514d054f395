// internal/app/features/membersapi/handler.go
//
// Package membersapi serves the members REST API from MongoDB so the
// directory can run without an external backend.
package membersapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/roster"
	memberstore "github.com/dalemusser/peopledir/internal/app/store/members"
	"github.com/dalemusser/peopledir/internal/app/system/limits"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Store *memberstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: memberstore.New(db),
		Log:   logger,
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// HandleList answers GET /api/members.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "api list members")
	defer cancel()

	docs, err := h.Store.List(ctx)
	if err != nil {
		h.Log.Error("api: list members", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list members")
		return
	}
	out := make([]models.Member, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Member())
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet answers GET /api/members/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "api get member")
	defer cancel()

	doc, err := h.Store.GetByID(ctx, id)
	if h.storeFailed(w, "get", err) {
		return
	}
	writeJSON(w, http.StatusOK, doc.Member())
}

// HandleCreate answers POST /api/members. Any id in the payload is ignored.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	m, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api create member")
	defer cancel()

	doc, err := h.Store.Create(ctx, m)
	if h.storeFailed(w, "create", err) {
		return
	}
	writeJSON(w, http.StatusCreated, doc.Member())
}

// HandleUpdate answers PUT /api/members/{id}. The path id wins over any id
// in the payload.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	m, ok := h.decode(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api update member")
	defer cancel()

	doc, err := h.Store.Replace(ctx, id, m)
	if h.storeFailed(w, "update", err) {
		return
	}
	writeJSON(w, http.StatusOK, doc.Member())
}

// HandleDelete answers DELETE /api/members/{id} with 204.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api delete member")
	defer cancel()

	if h.storeFailed(w, "delete", h.Store.Delete(ctx, id)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func objectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decode reads and validates a member payload with the same rules as the
// directory form.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	var in models.Member
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxMemberJSON))
	if err := dec.Decode(&in); err != nil {
		h.Log.Debug("api: bad member payload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed member JSON")
		return models.Member{}, false
	}

	m, verrs := roster.Validate(roster.InputFrom(in))
	if verrs != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verrs.Error(), Fields: verrs})
		return models.Member{}, false
	}
	m.ProfilePhoto = in.ProfilePhoto
	return m, true
}

// storeFailed writes the response for a store error and reports whether
// there was one.
func (h *Handler) storeFailed(w http.ResponseWriter, op string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, memberstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "member not found")
	default:
		h.Log.Error("api: member store", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "member store failed")
	}
	return true
}
