package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// SessionProvider is the interface that wraps per-request persistence sessions.
type SessionProvider interface {
	// Method Do acquires a session, runs "fn" with it and releases it, even if "fn" panics.
	//
	// An error wrapping database.ErrSessionUnavailable is returned if no session could be acquired.
	Do(ctx context.Context, fn func(database.Session) error) error
}

type BaseHandler struct {
	logger   *zap.Logger
	validate *validator.Validate
	sessions SessionProvider
}

func newBaseHandler(sessions SessionProvider, logger *zap.Logger) BaseHandler {
	return BaseHandler{
		logger:   logger,
		validate: validator.New(),
		sessions: sessions,
	}
}

// errEmptyBody is returned by decodeBody when the request has no body
var errEmptyBody = errors.New("request body is empty")

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondInvalid sends a 400 response with validation details
func (h *BaseHandler) respondInvalid(w http.ResponseWriter, err error) {
	h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input", "details": err.Error()})
}

// respondResult sends an operation result, error results are mapped to a status by kind
func (h *BaseHandler) respondResult(w http.ResponseWriter, successStatus int, result *models.OperationResult) {
	if result.OK() {
		h.respondJSON(w, successStatus, result)
		return
	}
	h.respondJSON(w, statusForKind(result.Kind), result)
}

// statusForKind maps an error kind to an HTTP status code
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConstraintViolation:
		return http.StatusConflict
	case models.KindEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// withSession runs op with a fresh session and writes its result.
// If no session can be acquired, a 503 engine_unavailable result is written instead.
func (h *BaseHandler) withSession(w http.ResponseWriter, r *http.Request, successStatus int, op func(sess database.Session) *models.OperationResult) {
	var result *models.OperationResult
	err := h.sessions.Do(r.Context(), func(sess database.Session) error {
		result = op(sess)
		return nil
	})
	if err != nil {
		h.logger.Error("failed to acquire database session", zap.Error(err))
		result = models.Failure(models.KindEngineUnavailable, "Database unavailable: "+err.Error())
	}
	h.respondResult(w, successStatus, result)
}

// decodeBody decodes a JSON request body into dst.
// errEmptyBody is returned when there is nothing to decode.
func (h *BaseHandler) decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// idParam parses the {id} URL parameter.
// Any integer is accepted, ids that match no row take the not-found path.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}
