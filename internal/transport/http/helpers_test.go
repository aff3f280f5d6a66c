package http

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

type stubUsers struct {
	byID map[uuid.UUID]*domain.User
}

func (s *stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	u.ID = uuid.New()
	s.byID[u.ID] = u
	return u, nil
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubUsers) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUsers) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubUsers) SetActive(context.Context, uuid.UUID, bool) error     { return nil }
func (s *stubUsers) Delete(context.Context, uuid.UUID) error              { return nil }

type stubAccounts struct {
	hotels map[uuid.UUID]int64
}

func (s *stubAccounts) FindByUserID(_ context.Context, userID uuid.UUID) (*domain.HotelAccount, error) {
	if id, ok := s.hotels[userID]; ok {
		return &domain.HotelAccount{UserID: userID, HotelID: id}, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAccounts) FindOwnerEmail(context.Context, int64) (string, error) {
	return "", sql.ErrNoRows
}

// testServer is a router with auth and approvals wired over in-memory user
// stubs. Routes that need hotel storage are not exercised here.
type testServer struct {
	e        *echo.Echo
	auth     *service.AuthService
	users    *stubUsers
	accounts *stubAccounts
	tokens   *util.JWTManager
	signer   *util.ApprovalSigner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	srv := &testServer{
		users:    &stubUsers{byID: map[uuid.UUID]*domain.User{}},
		accounts: &stubAccounts{hotels: map[uuid.UUID]int64{}},
		tokens:   util.NewJWTManager("test-secret", time.Hour, 24*time.Hour),
		signer:   util.NewApprovalSigner("approval-secret", time.Hour),
	}
	srv.auth = service.NewAuthService(srv.users, nil, srv.accounts, nil, nil, nil, srv.tokens, nil, service.AuthConfig{})
	approvals := service.NewApprovalService(nil, nil, nil, nil, srv.signer, nil, nil, nil, service.ApprovalConfig{})

	srv.e = NewRouter([]string{"*"}, nil)
	RegisterAuth(srv.e, srv.auth)
	RegisterApprovals(srv.e, srv.auth, approvals)
	return srv
}

// login stores a user and returns a Bearer header value for it.
func (s *testServer) login(t *testing.T, staff bool, hotelID *int64) string {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", IsActive: true, IsStaff: staff}
	s.users.byID[u.ID] = u
	if hotelID != nil {
		s.accounts.hotels[u.ID] = *hotelID
	}
	tok, err := s.tokens.Generate(u.ID, u.Email, util.AccessToken)
	require.NoError(t, err)
	return "Bearer " + tok.Value
}

func (s *testServer) do(method, target, body, authHeader string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = newRequestValidator()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
