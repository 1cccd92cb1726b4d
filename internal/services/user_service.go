package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user and sets its ID.
	//
	// The insert runs in its own transaction which is rolled back on any error.
	Create(ctx context.Context, sess database.Session, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If the user does not exist, models.ErrNotFound is returned (possibly wrapped).
	GetByID(ctx context.Context, sess database.Session, id int) (*models.User, error)
	// Method Exists checks if a user with the given ID exists.
	Exists(ctx context.Context, sess database.Session, id int) (bool, error)
	// Method Update overwrites the active flag when "isActive" is not nil and sets updated_at.
	//
	// If the user does not exist, models.ErrNotFound is returned and nothing is written.
	Update(ctx context.Context, sess database.Session, id int, isActive *bool, updatedAt time.Time) error
	// Method Delete deletes a user together with its site roles and organization memberships.
	//
	// If the user does not exist, models.ErrNotFound is returned.
	Delete(ctx context.Context, sess database.Session, id int) error
}

type userService struct {
	repo   UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository, logger *zap.Logger) *userService {
	return &userService{
		repo:   repo,
		logger: logger,
		now:    currentTime,
	}
}

// currentTime returns the current UTC time at DATETIME precision
func currentTime() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// CreateUser creates an active user with fresh timestamps
func (s *userService) CreateUser(ctx context.Context, sess database.Session, req *models.CreateUserRequest) *models.OperationResult {
	now := s.now()
	user := &models.User{
		Username:    *req.Username,
		FirstName:   *req.FirstName,
		LastName:    *req.LastName,
		Email:       *req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Role:        *req.Role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, sess, user); err != nil {
		s.logger.Warn("user was not created", zap.Error(err), zap.String("username", user.Username))
		return failure("Error creating user", err)
	}

	return models.Success("User created successfully", models.CreatedUser{ID: user.ID})
}

// GetUser retrieves a user by ID.
// A missing user is returned as nil without an error.
func (s *userService) GetUser(ctx context.Context, sess database.Session, id int) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, sess, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the active flag, if given, and refreshes the update timestamp
func (s *userService) UpdateUser(ctx context.Context, sess database.Session, id int, req *models.UpdateUserRequest) *models.OperationResult {
	err := s.repo.Update(ctx, sess, id, req.IsActive, s.now())
	if errors.Is(err, models.ErrNotFound) {
		return models.Failure(models.KindNotFound, "User not found")
	}
	if err != nil {
		s.logger.Warn("user was not updated", zap.Error(err), zap.Int("id", id))
		return failure("Error updating user", err)
	}

	return models.Success("User updated successfully", nil)
}

// DeleteUser deletes a user and everything it owns
func (s *userService) DeleteUser(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	exists, err := s.repo.Exists(ctx, sess, id)
	if err != nil {
		s.logger.Warn("user existence check failed", zap.Error(err), zap.Int("id", id))
		return failure("Error deleting user", err)
	}
	if !exists {
		return models.Failure(models.KindNotFound, "User not found")
	}

	err = s.repo.Delete(ctx, sess, id)
	if errors.Is(err, models.ErrNotFound) {
		// Deleted concurrently
		return models.Failure(models.KindNotFound, "User not found")
	}
	if err != nil {
		s.logger.Warn("user was not deleted", zap.Error(err), zap.Int("id", id))
		return failure("Error deleting user", err)
	}

	return models.Success("User deleted successfully", nil)
}
