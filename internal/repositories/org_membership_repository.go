package repositories

import (
	"context"
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

type orgMembershipRepository struct {
	logger *zap.Logger
}

// NewOrgMembershipRepository creates a new organization membership repository
func NewOrgMembershipRepository(logger *zap.Logger) *orgMembershipRepository {
	return &orgMembershipRepository{
		logger: logger,
	}
}

// Create inserts an organization membership inside a transaction and sets its ID
func (r *orgMembershipRepository) Create(ctx context.Context, sess database.Session, membership *models.OrgMembership) error {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO user_orgs (user_id, org_name, org_role) VALUES (?, ?, ?)`,
		membership.UserID,
		membership.OrgName,
		nullString(membership.OrgRole),
	)
	if err != nil {
		r.logger.Error("failed to create organization membership", zap.Error(err), zap.Int("userID", membership.UserID))
		return fmt.Errorf("failed to create organization membership: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit organization membership creation", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	membership.ID = int(id)
	return nil
}

// Delete removes an organization membership by ID
func (r *orgMembershipRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	result, err := sess.ExecContext(ctx, `DELETE FROM user_orgs WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete organization membership", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete organization membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("organization membership %d: %w", id, models.ErrNotFound)
	}

	return nil
}
