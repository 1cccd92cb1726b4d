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

// OrgMembershipService is the interface that wraps methods for organization memberships business logic.
type OrgMembershipService interface {
	// Method CreateOrgMembership adds an organization membership to an existing user.
	//
	// Please reference SiteRoleService.CreateSiteRole method for more information about error results.
	CreateOrgMembership(ctx context.Context, sess database.Session, req *models.CreateOrgMembershipRequest) *models.OperationResult
	// Method DeleteOrgMembership deletes an organization membership by ID.
	DeleteOrgMembership(ctx context.Context, sess database.Session, id int) *models.OperationResult
}

// OrgMembershipHandler handles HTTP requests for user organizations
type OrgMembershipHandler struct {
	BaseHandler
	service OrgMembershipService
}

// NewOrgMembershipHandler creates a new organization membership handler
func NewOrgMembershipHandler(svc OrgMembershipService, sessions SessionProvider, logger *zap.Logger) *OrgMembershipHandler {
	return &OrgMembershipHandler{
		BaseHandler: newBaseHandler(sessions, logger),
		service:     svc,
	}
}

// RegisterRoutes registers all organization membership handler routes
func (h *OrgMembershipHandler) RegisterRoutes(r chi.Router) {
	r.Route("/user_orgs", func(r chi.Router) {
		r.Post("/", h.CreateOrgMembership)
		r.Delete("/{id}", h.DeleteOrgMembership)
	})
}

// CreateOrgMembership handles POST /user_orgs/
// @Summary Add user organization
// @Description Add an organization membership to a user. Fields are read from the JSON body or, if it is empty, from query parameters.
// @Tags organizations
// @Accept json
// @Produce json
// @Param membership body models.CreateOrgMembershipRequest false "Membership data"
// @Param user_id query int false "User ID"
// @Param org_name query string false "Organization name"
// @Param org_role query string false "Role in the organization"
// @Success 201 {object} models.OperationResult{data=models.OrgMembership}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Failure 409 {object} models.OperationResult
// @Router /user_orgs/ [post]
func (h *OrgMembershipHandler) CreateOrgMembership(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrgMembershipRequest
	err := h.decodeBody(r, &req)
	if errors.Is(err, errEmptyBody) {
		query := r.URL.Query()
		req.OrgName = query.Get("org_name")
		if query.Has("org_role") {
			role := query.Get("org_role")
			req.OrgRole = &role
		}
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
		return h.service.CreateOrgMembership(r.Context(), sess, &req)
	})
}

// DeleteOrgMembership handles DELETE /user_orgs/{id}
// @Summary Delete user organization
// @Description Delete an organization membership by ID
// @Tags organizations
// @Produce json
// @Param id path int true "Membership ID"
// @Success 200 {object} models.OperationResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} models.OperationResult
// @Router /user_orgs/{id} [delete]
func (h *OrgMembershipHandler) DeleteOrgMembership(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.withSession(w, r, http.StatusOK, func(sess database.Session) *models.OperationResult {
		return h.service.DeleteOrgMembership(r.Context(), sess, id)
	})
}
