package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

type reportRepository struct {
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(logger *zap.Logger) *reportRepository {
	return &reportRepository{
		logger: logger,
	}
}

// GetActiveUsers returns every active user joined with its site roles and organizations.
// Users without dependents still appear once with empty role and organization.
func (r *reportRepository) GetActiveUsers(ctx context.Context, sess database.Session) ([]models.ActiveUserRow, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.email,
			sr.site_role, o.org_name, u.created_at, u.updated_at, u.is_active
		FROM users u
		LEFT JOIN user_site_roles sr ON sr.user_id = u.id
		LEFT JOIN user_orgs o ON o.user_id = u.id
		WHERE u.is_active = TRUE
		ORDER BY u.id, sr.id, o.id
	`

	rows, err := sess.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query active users", zap.Error(err))
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	var result []models.ActiveUserRow
	for rows.Next() {
		var (
			row          models.ActiveUserRow
			siteRole     sql.NullString
			organization sql.NullString
			createdAt    sql.NullTime
			updatedAt    sql.NullTime
		)
		if err := rows.Scan(
			&row.ID,
			&row.Username,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&siteRole,
			&organization,
			&createdAt,
			&updatedAt,
			&row.IsActive,
		); err != nil {
			r.logger.Error("failed to scan active user row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan active user row: %w", err)
		}
		row.SiteRole = stringPtr(siteRole)
		row.Organization = stringPtr(organization)
		row.CreatedAt = timePtr(createdAt)
		row.UpdatedAt = timePtr(updatedAt)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
