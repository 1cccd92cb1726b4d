package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

// ReportRepository is the interface that wraps the active users report query
type ReportRepository interface {
	// Method GetActiveUsers returns active users outer-joined with their site roles and organizations,
	// one row per (user, site role, organization) combination.
	GetActiveUsers(ctx context.Context, sess database.Session) ([]models.ActiveUserRow, error)
}

const (
	reportSuccessMessage = "Report fetched successfully"
	reportEmptyMessage   = "No active users found"
)

type reportService struct {
	repo   ReportRepository
	logger *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(repo ReportRepository, logger *zap.Logger) *reportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// GetActiveUsersReport returns one flattened entry per joined row.
// A user with two roles and three organizations yields six entries.
func (s *reportService) GetActiveUsersReport(ctx context.Context, sess database.Session) (result *models.OperationResult) {
	defer s.recoverReport(&result)

	rows, failed := s.fetchRows(ctx, sess)
	if failed != nil {
		return failed
	}

	entries := make([]models.UserReportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.UserReportEntry{
			ID:           row.ID,
			Username:     row.Username,
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Email:        row.Email,
			SiteRole:     row.SiteRole,
			Organization: row.Organization,
			CreatedAt:    models.FormatReportTime(row.CreatedAt),
			UpdatedAt:    models.FormatReportTime(row.UpdatedAt),
			IsActive:     row.IsActive,
		})
	}

	return models.Success(reportSuccessMessage, entries)
}

// GetActiveUsersReportGrouped returns one item per active user with distinct
// site roles and organizations in first-seen order.
func (s *reportService) GetActiveUsersReportGrouped(ctx context.Context, sess database.Session) (result *models.OperationResult) {
	defer s.recoverReport(&result)

	rows, failed := s.fetchRows(ctx, sess)
	if failed != nil {
		return failed
	}

	items := make([]models.UserReportItem, 0)
	index := make(map[int]int)
	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			items = append(items, models.UserReportItem{
				ID:            row.ID,
				Username:      row.Username,
				FirstName:     row.FirstName,
				LastName:      row.LastName,
				Email:         row.Email,
				SiteRoles:     []string{},
				Organizations: []string{},
				CreatedAt:     models.FormatReportTime(row.CreatedAt),
				UpdatedAt:     models.FormatReportTime(row.UpdatedAt),
				IsActive:      row.IsActive,
			})
			i = len(items) - 1
			index[row.ID] = i
		}

		item := &items[i]
		if row.SiteRole != nil && !slices.Contains(item.SiteRoles, *row.SiteRole) {
			item.SiteRoles = append(item.SiteRoles, *row.SiteRole)
		}
		if row.Organization != nil && !slices.Contains(item.Organizations, *row.Organization) {
			item.Organizations = append(item.Organizations, *row.Organization)
		}
	}

	return models.Success(reportSuccessMessage, items)
}

// fetchRows loads the joined rows; the second value is non-nil when the report cannot be built
func (s *reportService) fetchRows(ctx context.Context, sess database.Session) ([]models.ActiveUserRow, *models.OperationResult) {
	rows, err := s.repo.GetActiveUsers(ctx, sess)
	if err != nil {
		s.logger.Error("failed to fetch active users report", zap.Error(err))
		return nil, failure("Error fetching report", err)
	}
	if len(rows) == 0 {
		return nil, models.Failure(models.KindNotFound, reportEmptyMessage)
	}
	return rows, nil
}

// recoverReport turns a panic during report assembly into an error result
func (s *reportService) recoverReport(result **models.OperationResult) {
	if rec := recover(); rec != nil {
		s.logger.Error("unexpected error while building report", zap.Any("panic", rec))
		*result = models.Failure(models.KindUnexpected, fmt.Sprintf("Unexpected error: %v", rec))
	}
}
