package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// OrgMembershipRepository is the interface that wraps methods for user_orgs table data access
type OrgMembershipRepository interface {
	// Method Create inserts an organization membership and sets its ID.
	Create(ctx context.Context, sess database.Session, membership *models.OrgMembership) error
	// Method Delete deletes an organization membership by ID.
	//
	// If the membership does not exist, models.ErrNotFound is returned.
	Delete(ctx context.Context, sess database.Session, id int) error
}

type orgMembershipService struct {
	repo   OrgMembershipRepository
	users  UserChecker
	logger *zap.Logger
}

// NewOrgMembershipService creates a new organization membership service
func NewOrgMembershipService(repo OrgMembershipRepository, users UserChecker, logger *zap.Logger) *orgMembershipService {
	return &orgMembershipService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// CreateOrgMembership adds an organization membership to an existing user.
// The created record is echoed in the result data.
func (s *orgMembershipService) CreateOrgMembership(ctx context.Context, sess database.Session, req *models.CreateOrgMembershipRequest) *models.OperationResult {
	const errPrefix = "Error adding user organization"

	exists, err := s.users.Exists(ctx, sess, req.UserID)
	if err != nil {
		s.logger.Warn("user existence check failed", zap.Error(err), zap.Int("userID", req.UserID))
		return failure(errPrefix, err)
	}
	if !exists {
		return models.Failure(models.KindNotFound, fmt.Sprintf("%s: user %d not found", errPrefix, req.UserID))
	}

	membership := &models.OrgMembership{
		UserID:  req.UserID,
		OrgName: req.OrgName,
		OrgRole: req.OrgRole,
	}
	if err := s.repo.Create(ctx, sess, membership); err != nil {
		s.logger.Warn("organization membership was not created", zap.Error(err), zap.Int("userID", req.UserID))
		return failure(errPrefix, err)
	}

	return models.Success("User organization added successfully", membership)
}

// DeleteOrgMembership deletes an organization membership by ID
func (s *orgMembershipService) DeleteOrgMembership(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	err := s.repo.Delete(ctx, sess, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.Failure(models.KindNotFound, "User organization not found")
	}
	if err != nil {
		s.logger.Warn("organization membership was not deleted", zap.Error(err), zap.Int("id", id))
		return failure("Error deleting user organization", err)
	}

	return models.Success("User organization deleted successfully", nil)
}
