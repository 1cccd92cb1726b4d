package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/usermatrix/backend/internal/database"
	"github.com/usermatrix/backend/internal/models"
)

// fakeSessions is a SessionProvider that hands a nil session to the operation
type fakeSessions struct {
	err   error
	calls int
}

func (f *fakeSessions) Do(ctx context.Context, fn func(database.Session) error) error {
	if f.err != nil {
		return f.err
	}
	f.calls++
	return fn(nil)
}

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	result  *models.OperationResult
	user    *models.User
	err     error
	lastID  int
	created *models.CreateUserRequest
	updated *models.UpdateUserRequest
}

func (m *mockUserService) CreateUser(ctx context.Context, sess database.Session, req *models.CreateUserRequest) *models.OperationResult {
	m.created = req
	return m.result
}

func (m *mockUserService) GetUser(ctx context.Context, sess database.Session, id int) (*models.User, error) {
	m.lastID = id
	return m.user, m.err
}

func (m *mockUserService) UpdateUser(ctx context.Context, sess database.Session, id int, req *models.UpdateUserRequest) *models.OperationResult {
	m.lastID = id
	m.updated = req
	return m.result
}

func (m *mockUserService) DeleteUser(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	m.lastID = id
	return m.result
}

// mockReportService is a mock implementation of ReportService
type mockReportService struct {
	result        *models.OperationResult
	groupedCalled bool
}

func (m *mockReportService) GetActiveUsersReport(ctx context.Context, sess database.Session) *models.OperationResult {
	return m.result
}

func (m *mockReportService) GetActiveUsersReportGrouped(ctx context.Context, sess database.Session) *models.OperationResult {
	m.groupedCalled = true
	return m.result
}

// mockSiteRoleService is a mock implementation of SiteRoleService
type mockSiteRoleService struct {
	result *models.OperationResult
	req    *models.CreateSiteRoleRequest
	lastID int
}

func (m *mockSiteRoleService) CreateSiteRole(ctx context.Context, sess database.Session, req *models.CreateSiteRoleRequest) *models.OperationResult {
	m.req = req
	return m.result
}

func (m *mockSiteRoleService) DeleteSiteRole(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	m.lastID = id
	return m.result
}

// mockOrgMembershipService is a mock implementation of OrgMembershipService
type mockOrgMembershipService struct {
	result *models.OperationResult
	req    *models.CreateOrgMembershipRequest
	lastID int
}

func (m *mockOrgMembershipService) CreateOrgMembership(ctx context.Context, sess database.Session, req *models.CreateOrgMembershipRequest) *models.OperationResult {
	m.req = req
	return m.result
}

func (m *mockOrgMembershipService) DeleteOrgMembership(ctx context.Context, sess database.Session, id int) *models.OperationResult {
	m.lastID = id
	return m.result
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// serve routes a single request through a router with h registered
func serve(t *testing.T, h routeRegistrar, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
