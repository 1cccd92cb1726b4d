package services

import (
	"context"
	"time"

	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user      *models.User
	exists    bool
	createID  int
	createErr error
	getErr    error
	existsErr error
	updateErr error
	deleteErr error

	created       *models.User
	updateCalled  bool
	updatedActive *bool
	updatedAt     time.Time
	deleteCalled  bool
}

func (m *mockUserRepository) Create(ctx context.Context, sess database.Session, user *models.User) error {
	m.created = user
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.createID
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, sess database.Session, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) Exists(ctx context.Context, sess database.Session, id int) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockUserRepository) Update(ctx context.Context, sess database.Session, id int, isActive *bool, updatedAt time.Time) error {
	m.updateCalled = true
	m.updatedActive = isActive
	m.updatedAt = updatedAt
	return m.updateErr
}

func (m *mockUserRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	m.deleteCalled = true
	return m.deleteErr
}

// mockSiteRoleRepository is a mock implementation of SiteRoleRepository
type mockSiteRoleRepository struct {
	createID     int
	createErr    error
	deleteErr    error
	createCalled bool
}

func (m *mockSiteRoleRepository) Create(ctx context.Context, sess database.Session, role *models.SiteRole) error {
	m.createCalled = true
	if m.createErr != nil {
		return m.createErr
	}
	role.ID = m.createID
	return nil
}

func (m *mockSiteRoleRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	return m.deleteErr
}

// mockOrgMembershipRepository is a mock implementation of OrgMembershipRepository
type mockOrgMembershipRepository struct {
	createID     int
	createErr    error
	deleteErr    error
	createCalled bool
}

func (m *mockOrgMembershipRepository) Create(ctx context.Context, sess database.Session, membership *models.OrgMembership) error {
	m.createCalled = true
	if m.createErr != nil {
		return m.createErr
	}
	membership.ID = m.createID
	return nil
}

func (m *mockOrgMembershipRepository) Delete(ctx context.Context, sess database.Session, id int) error {
	return m.deleteErr
}

// mockReportRepository is a mock implementation of ReportRepository
type mockReportRepository struct {
	rows  []models.ActiveUserRow
	err   error
	panic any
}

func (m *mockReportRepository) GetActiveUsers(ctx context.Context, sess database.Session) ([]models.ActiveUserRow, error) {
	if m.panic != nil {
		panic(m.panic)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
