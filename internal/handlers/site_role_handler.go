package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// SiteRoleService is the interface that wraps methods for site roles business logic.
type SiteRoleService interface {
	// Method CreateSiteRole assigns a site role to an existing user.
	//
	// If the user does not exist, an error result of kind not_found is returned and nothing is inserted.
	CreateSiteRole(ctx context.Context, sess database.Session, req *models.CreateSiteRoleRequest) *models.OperationResult
	// Method DeleteSiteRole deletes a site role by ID.
	DeleteSiteRole(ctx context.Context, sess database.Session, id int) *models.OperationResult
}

// SiteRoleHandler handles HTTP requests for user site roles
type SiteRoleHandler struct {
	BaseHandler
	service SiteRoleService
}

// NewSiteRoleHandler creates a new site role handler
func NewSiteRoleHandler(svc SiteRoleService, sessions SessionProvider, logger *zap.Logger) *SiteRoleHandler {
	return &SiteRoleHandler{
		BaseHandler: newBaseHandler(sessions, logger),
		service:     svc,
	}
}

// RegisterRoutes registers all site role handler routes
func (h *SiteRoleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/user_site_roles", func(r chi.Router) {
		r.Post("/", h.CreateSiteRole)
		r.Delete("/{id}", h.DeleteSiteRole)
	})
}

// CreateSiteRole handles POST /user_site_roles/
// @Summary Add site role
// @Description Assign a site role to a user. Fields are read from the JSON body or, if it is empty, from query parameters.
// @Tags site roles
// @Accept json
// @Produce json
// @Param role body models.CreateSiteRoleRequest false "Site role data"
// @Param user_id query int false "User ID"
// @Param site_role query string false "Site role"
// @Success 201 {object} models.OperationResult{data=models.SiteRole}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Failure 409 {object} models.OperationResult
// @Router /user_site_roles/ [post]
func (h *SiteRoleHandler) CreateSiteRole(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSiteRoleRequest
	err := h.decodeBody(r, &req)
	if errors.Is(err, errEmptyBody) {
		query := r.URL.Query()
		req.SiteRole = query.Get("site_role")
		req.UserID, err = strconv.Atoi(query.Get("user_id"))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid user_id parameter")
			return
		}
	} else if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondInvalid(w, err)
		return
	}

	h.withSession(w, r, http.StatusCreated, func(sess database.Session) *models.OperationResult {
		return h.service.CreateSiteRole(r.Context(), sess, &req)
	})
}

// DeleteSiteRole handles DELETE /user_site_roles/{id}
// @Summary Delete site role
// @Description Delete a site role by ID
// @Tags site roles
// @Produce json
// @Param id path int true "Site role ID"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Router /user_site_roles/{id} [delete]
func (h *SiteRoleHandler) DeleteSiteRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.service.DeleteSiteRole(r.Context(), sess, id)
	})
}
