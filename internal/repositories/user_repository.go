package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

type userRepository struct {
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(logger *zap.Logger) *userRepository {
	return &userRepository{
		logger: logger,
	}
}

// Create inserts a new user inside a transaction and sets its ID
func (r *userRepository) Create(ctx context.Context, sess database.Session, user *models.User) error {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (username, first_name, last_name, email, password, phone_number, address, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		nullString(user.Password),
		nullString(user.PhoneNumber),
		nullString(user.Address),
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err), zap.String("username", user.Username))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit user creation", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID.
// A missing user is reported as models.ErrNotFound.
func (r *userRepository) GetByID(ctx context.Context, sess database.Session, id int) (*models.User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, password, phone_number, address, role, is_active, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	var (
		user        models.User
		password    sql.NullString
		phoneNumber sql.NullString
		address     sql.NullString
	)
	err := sess.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&password,
		&phoneNumber,
		&address,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Password = stringPtr(password)
	user.PhoneNumber = stringPtr(phoneNumber)
	user.Address = stringPtr(address)

	return &user, nil
}

// Exists checks if a user with the given ID exists
func (r *userRepository) Exists(ctx context.Context, sess database.Session, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`

	var exists bool
	if err := sess.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check user existence", zap.Error(err), zap.Int("id", id))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// Update locks the user row, overwrites the active flag when isActive is set
// and always refreshes updated_at.
// A missing user is reported as models.ErrNotFound and nothing is written.
func (r *userRepository) Update(ctx context.Context, sess database.Session, id int, isActive *bool, updatedAt time.Time) error {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ? FOR UPDATE`, id).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to lock user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to lock user: %w", err)
	}

	if isActive != nil {
		_, err = tx.ExecContext(ctx, `UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`, *isActive, updatedAt, id)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE users SET updated_at = ? WHERE id = ?`, updatedAt, id)
	}
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit user update", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a user together with its site roles and organization memberships.
// Dependents are deleted explicitly in the same transaction, ahead of the ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_site_roles WHERE user_id = ?`, id); err != nil {
		r.logger.Error("failed to delete user site roles", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete user site roles: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_orgs WHERE user_id = ?`, id); err != nil {
		r.logger.Error("failed to delete user organizations", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete user organizations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit user deletion", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
