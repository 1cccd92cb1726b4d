package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for users business logic.
type UserService interface {
	// Method CreateUser creates an active user with created_at and updated_at set to the current time.
	//
	// Duplicate usernames or emails produce an error result of kind constraint_violation.
	// On success the result data holds the new user ID.
	CreateUser(ctx context.Context, sess database.Session, req *models.CreateUserRequest) *models.OperationResult
	// Method GetUser retrieve a user by ID using the given session.
	//
	// If the user does not exist, "nil" is returned together with a "nil" error.
	GetUser(ctx context.Context, sess database.Session, id int) (*models.User, error)
	// Method UpdateUser overwrites the active flag if present and refreshes updated_at.
	//
	// A missing user produces a "User not found" result and nothing is written.
	UpdateUser(ctx context.Context, sess database.Session, id int, req *models.UpdateUserRequest) *models.OperationResult
	// Method DeleteUser deletes a user together with its site roles and organization memberships.
	DeleteUser(ctx context.Context, sess database.Session, id int) *models.OperationResult
}

// ReportService is the interface that wraps methods for the active users report.
type ReportService interface {
	// Method GetActiveUsersReport returns one entry per (user, site role, organization) combination of active users.
	//
	// If there are no active users, a "No active users found" result of kind not_found is returned.
	GetActiveUsersReport(ctx context.Context, sess database.Session) *models.OperationResult
	// Method GetActiveUsersReportGrouped returns one entry per active user with site roles and organizations as lists.
	//
	// Please reference GetActiveUsersReport method for more information about error results.
	GetActiveUsersReportGrouped(ctx context.Context, sess database.Session) *models.OperationResult
}

// UserHandler handles HTTP requests for users and the active users report
type UserHandler struct {
	BaseHandler
	service UserService
	reports ReportService
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc UserService, reports ReportService, sessions SessionProvider, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: newBaseHandler(sessions, logger),
		service:     svc,
		reports:     reports,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/report", h.GetActiveUsersReport)
		r.Get("/report/grouped", h.GetActiveUsersReportGrouped)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// CreateUser handles POST /users/
// @Summary Create user
// @Description Create a new active user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.CreateUserRequest true "User data"
// @Success 201 {object} models.OperationResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} models.OperationResult
// @Failure 503 {object} models.OperationResult
// @Router /users/ [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondInvalid(w, err)
		return
	}

	h.withSession(w, r, http.StatusCreated, func(sess database.Session) *models.OperationResult {
		return h.service.CreateUser(r.Context(), sess, &req)
	})
}

// GetUser handles GET /users/{id}
// @Summary Get user by ID
// @Description Get a user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user *models.User
	err = h.sessions.Do(r.Context(), func(sess database.Session) error {
		user, err = h.service.GetUser(r.Context(), sess, id)
		return err
	})
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err), zap.Int("id", id))
		if database.Classify(err) == models.KindEngineUnavailable {
			h.respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		h.respondError(w, http.StatusNotFound, "User not found")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id}
// @Summary Update user
// @Description Update the active flag of a user and refresh its update time
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Failure 503 {object} models.OperationResult
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateUserRequest
	if err := h.decodeBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.service.UpdateUser(r.Context(), sess, id, &req)
	})
}

// DeleteUser handles DELETE /users/{id}
// @Summary Delete user
// @Description Delete a user together with its site roles and organization memberships
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Failure 503 {object} models.OperationResult
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.service.DeleteUser(r.Context(), sess, id)
	})
}

// GetActiveUsersReport handles GET /users/report
// @Summary Active users report
// @Description One entry per combination of an active user's site roles and organizations
// @Tags reports
// @Produce json
// @Success 200 {object} models.OperationResult{data=[]models.UserReportEntry}
// @Failure 404 {object} models.OperationResult
// @Failure 500 {object} models.OperationResult
// @Router /users/report [get]
func (h *UserHandler) GetActiveUsersReport(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.reports.GetActiveUsersReport(r.Context(), sess)
	})
}

// GetActiveUsersReportGrouped handles GET /users/report/grouped
// @Summary Grouped active users report
// @Description One entry per active user with site roles and organizations as lists
// @Tags reports
// @Produce json
// @Success 200 {object} models.OperationResult{data=[]models.UserReportItem}
// @Failure 404 {object} models.OperationResult
// @Failure 500 {object} models.OperationResult
// @Router /users/report/grouped [get]
func (h *UserHandler) GetActiveUsersReportGrouped(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.reports.GetActiveUsersReportGrouped(r.Context(), sess)
	})
}
