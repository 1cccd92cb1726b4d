package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// SiteRoleRepository is the interface that wraps methods for user_site_roles table data access
type SiteRoleRepository interface {
	// Method Create inserts a site role and sets its ID.
	Create(ctx context.Context, sess database.Session, role *models.SiteRole) error
	// Method Delete deletes a site role by ID.
	//
	// If the site role does not exist, models.ErrNotFound is returned.
	Delete(ctx context.Context, sess database.Session, id int) error
}

// UserChecker reports whether a user exists
type UserChecker interface {
	Exists(ctx context.Context, sess database.Session, id int) (bool, error)
}

type siteRoleService struct {
	repo   SiteRoleRepository
	users  UserChecker
	logger *zap.Logger
}

// NewSiteRoleService creates a new site role service
func NewSiteRoleService(repo SiteRoleRepository, users UserChecker, logger *zap.Logger) *siteRoleService {
	return &siteRoleService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// CreateSiteRole assigns a site role to an existing user
func (s *siteRoleService) CreateSiteRole(ctx context.Context, sess database.Session, req *models.CreateSiteRoleRequest) *models.OperationResult {
	const errPrefix = "Error adding site role"

	exists, err := s.users.Exists(ctx, sess, req.UserID)
	if err != nil {
		s.logger.Warn("user existence check failed", zap.Error(err), zap.Int("userID", req.UserID))
		return failure(errPrefix, err)
	}
	if !exists {
		return models.Failure(models.KindNotFound, fmt.Sprintf("%s: user %d not found", errPrefix, req.UserID))
	}

	role := &models.SiteRole{
		UserID:   req.UserID,
		SiteRole: req.SiteRole,
	}
	if err := s.repo.Create(ctx, sess, role); err != nil {
		s.logger.Warn("site role was not created", zap.Error(err), zap.Int("userID", req.UserID))
		return failure(errPrefix, err)
	}

	return models.Success("Site role added successfully", role)
}

// DeleteSiteRole deletes a site role by ID
func (s *siteRoleService) DeleteSiteRole(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	err := s.repo.Delete(ctx, sess, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.Failure(models.KindNotFound, "Site role not found")
	}
	if err != nil {
		s.logger.Warn("site role was not deleted", zap.Error(err), zap.Int("id", id))
		return failure("Error deleting site role", err)
	}

	return models.Success("Site role deleted successfully", nil)
}
