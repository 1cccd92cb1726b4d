package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usermatrix/backend/internal/models"
	"go.uber.org/zap"
)

func reportRow(id int, username string, role, org *string) models.ActiveUserRow {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	return models.ActiveUserRow{
		ID:           id,
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		Email:        username + "@example.com",
		SiteRole:     role,
		Organization: org,
		CreatedAt:    &created,
		UpdatedAt:    &updated,
		IsActive:     true,
	}
}

func TestReportService_GetActiveUsersReport(t *testing.T) {
	t.Run("one entry per joined row", func(t *testing.T) {
		repo := &mockReportRepository{rows: []models.ActiveUserRow{
			reportRow(1, "alice", strPtr("admin"), nil),
			reportRow(1, "alice", strPtr("editor"), nil),
			reportRow(2, "bob", nil, strPtr("Acme")),
		}}
		svc := NewReportService(repo, zap.NewNop())

		result := svc.GetActiveUsersReport(context.Background(), nil)

		require.NotNil(t, result)
		assert.Equal(t, models.StatusSuccess, result.Status)
		assert.Equal(t, "Report fetched successfully", result.Message)

		entries, ok := result.Data.([]models.UserReportEntry)
		require.True(t, ok)
		require.Len(t, entries, 3)
		assert.Equal(t, "admin", *entries[0].SiteRole)
		assert.Nil(t, entries[0].Organization)
		assert.Equal(t, "editor", *entries[1].SiteRole)
		assert.Nil(t, entries[1].Organization)
		assert.Nil(t, entries[2].SiteRole)
		assert.Equal(t, "Acme", *entries[2].Organization)
		assert.Equal(t, "2024-01-02 03:04:05", *entries[0].CreatedAt)
		assert.Equal(t, "2024-02-03 04:05:06", *entries[0].UpdatedAt)
		assert.True(t, entries[2].IsActive)
	})

	t.Run("cartesian product is preserved", func(t *testing.T) {
		var rows []models.ActiveUserRow
		for _, role := range []string{"admin", "editor"} {
			for _, org := range []string{"Acme", "Globex", "Initech"} {
				rows = append(rows, reportRow(1, "alice", strPtr(role), strPtr(org)))
			}
		}
		svc := NewReportService(&mockReportRepository{rows: rows}, zap.NewNop())

		result := svc.GetActiveUsersReport(context.Background(), nil)

		entries, ok := result.Data.([]models.UserReportEntry)
		require.True(t, ok)
		assert.Len(t, entries, 6)
	})

	t.Run("missing timestamps stay null", func(t *testing.T) {
		row := reportRow(1, "alice", nil, nil)
		row.CreatedAt = nil
		row.UpdatedAt = nil
		svc := NewReportService(&mockReportRepository{rows: []models.ActiveUserRow{row}}, zap.NewNop())

		result := svc.GetActiveUsersReport(context.Background(), nil)

		entries, ok := result.Data.([]models.UserReportEntry)
		require.True(t, ok)
		assert.Nil(t, entries[0].CreatedAt)
		assert.Nil(t, entries[0].UpdatedAt)
	})

	tests := []struct {
		name            string
		repo            *mockReportRepository
		expectedKind    models.ErrorKind
		expectedMessage string
	}{
		{
			name:            "no active users",
			repo:            &mockReportRepository{rows: []models.ActiveUserRow{}},
			expectedKind:    models.KindNotFound,
			expectedMessage: "No active users found",
		},
		{
			name:            "query fails",
			repo:            &mockReportRepository{err: errors.New("table missing")},
			expectedKind:    models.KindUnexpected,
			expectedMessage: "Error fetching report: table missing",
		},
		{
			name:            "engine unavailable",
			repo:            &mockReportRepository{err: context.DeadlineExceeded},
			expectedKind:    models.KindEngineUnavailable,
			expectedMessage: "Error fetching report: context deadline exceeded",
		},
		{
			name:            "panic is recovered",
			repo:            &mockReportRepository{panic: "nil map"},
			expectedKind:    models.KindUnexpected,
			expectedMessage: "Unexpected error: nil map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReportService(tt.repo, zap.NewNop())

			result := svc.GetActiveUsersReport(context.Background(), nil)

			require.NotNil(t, result)
			assert.Equal(t, models.StatusError, result.Status)
			assert.Equal(t, tt.expectedKind, result.Kind)
			assert.Equal(t, tt.expectedMessage, result.Message)
			assert.Nil(t, result.Data)
		})
	}
}

func TestReportService_GetActiveUsersReportGrouped(t *testing.T) {
	t.Run("aggregates roles and organizations per user", func(t *testing.T) {
		repo := &mockReportRepository{rows: []models.ActiveUserRow{
			reportRow(1, "alice", strPtr("admin"), strPtr("Acme")),
			reportRow(1, "alice", strPtr("admin"), strPtr("Globex")),
			reportRow(1, "alice", strPtr("editor"), strPtr("Acme")),
			reportRow(1, "alice", strPtr("editor"), strPtr("Globex")),
			reportRow(2, "bob", nil, nil),
		}}
		svc := NewReportService(repo, zap.NewNop())

		result := svc.GetActiveUsersReportGrouped(context.Background(), nil)

		require.NotNil(t, result)
		assert.Equal(t, models.StatusSuccess, result.Status)
		assert.Equal(t, "Report fetched successfully", result.Message)

		items, ok := result.Data.([]models.UserReportItem)
		require.True(t, ok)
		require.Len(t, items, 2)
		assert.Equal(t, "alice", items[0].Username)
		assert.Equal(t, []string{"admin", "editor"}, items[0].SiteRoles)
		assert.Equal(t, []string{"Acme", "Globex"}, items[0].Organizations)
		assert.Equal(t, "2024-01-02 03:04:05", *items[0].CreatedAt)
		assert.Equal(t, "bob", items[1].Username)
		assert.Empty(t, items[1].SiteRoles)
		assert.NotNil(t, items[1].SiteRoles)
		assert.Empty(t, items[1].Organizations)
	})

	t.Run("no active users", func(t *testing.T) {
		svc := NewReportService(&mockReportRepository{}, zap.NewNop())

		result := svc.GetActiveUsersReportGrouped(context.Background(), nil)

		assert.Equal(t, models.StatusError, result.Status)
		assert.Equal(t, models.KindNotFound, result.Kind)
		assert.Equal(t, "No active users found", result.Message)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		svc := NewReportService(&mockReportRepository{panic: errors.New("corrupt row")}, zap.NewNop())

		result := svc.GetActiveUsersReportGrouped(context.Background(), nil)

		assert.Equal(t, models.KindUnexpected, result.Kind)
		assert.Equal(t, "Unexpected error: corrupt row", result.Message)
	})
}
