package repositories

import (
	"context"
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

type siteRoleRepository struct {
	logger *zap.Logger
}

// NewSiteRoleRepository creates a new site role repository
func NewSiteRoleRepository(logger *zap.Logger) *siteRoleRepository {
	return &siteRoleRepository{
		logger: logger,
	}
}

// Create inserts a site role inside a transaction and sets its ID
func (r *siteRoleRepository) Create(ctx context.Context, sess database.Session, role *models.SiteRole) error {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO user_site_roles (user_id, site_role) VALUES (?, ?)`, role.UserID, role.SiteRole)
	if err != nil {
		r.logger.Error("failed to create site role", zap.Error(err), zap.Int("userID", role.UserID))
		return fmt.Errorf("failed to create site role: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit site role creation", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	role.ID = int(id)
	return nil
}

// Delete removes a site role by ID
func (r *siteRoleRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	result, err := sess.ExecContext(ctx, `DELETE FROM user_site_roles WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete site role", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete site role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("site role %d: %w", id, models.ErrNotFound)
	}

	return nil
}
