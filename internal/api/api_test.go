package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/slotify-dev/booking-platform/internal/appointment"
	"github.com/slotify-dev/booking-platform/internal/catalog"
	"github.com/slotify-dev/booking-platform/internal/identity"
)

const testSecret = "api-test-secret"

type memoryUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (m *memoryUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUserRepo) GetUserByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (m *memoryUserRepo) CreateUser(_ context.Context, u identity.User) (*identity.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	u.CreatedAt = time.Now()
	m.users[u.ID] = &u
	cp := u
	return &cp, nil
}

var _ identity.Repository = (*memoryUserRepo)(nil)

func newTestRouter() http.Handler {
	idSvc := identity.NewService(newMemoryUserRepo(), testSecret, time.Hour, bcrypt.MinCost)
	return NewRouter(RouterConfig{
		Identity:  idSvc,
		JWTSecret: testSecret,
		Env:       "test",
		Version:   "test",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "hunter22",
		Role:     "CUSTOMER",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ada@example.com", created.Email)
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(t, router, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, created.ID, me.ID)
	assert.Equal(t, "CUSTOMER", me.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter()

	req := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw", Role: "CUSTOMER"}
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "right", Role: "CUSTOMER",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", LoginRequest{
		Email: "ada@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/auth/me", "/appointments/my", "/businesses/my"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(t, router, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed with a different secret is rejected too.
	other, err := identity.SignToken("other-secret", &identity.User{
		ID:   uuid.New(),
		Role: identity.RoleCustomer,
	}, time.Hour)
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodGet, "/auth/me", other, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", LoginRequest{})
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{}"))
	req.Header.Set("X-Request-ID", "fixed-id")
	echo := httptest.NewRecorder()
	router.ServeHTTP(echo, req)
	assert.Equal(t, "fixed-id", echo.Header().Get("X-Request-ID"))
}

func TestAppointmentErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{catalog.ErrBusinessNotFound, http.StatusNotFound},
		{catalog.ErrServiceNotFound, http.StatusNotFound},
		{appointment.ErrCustomerRoleRequired, http.StatusForbidden},
		{appointment.ErrPermissionDenied, http.StatusForbidden},
		{appointment.ErrCustomerCancelOnly, http.StatusForbidden},
		{appointment.ErrAdminOnly, http.StatusForbidden},
		{appointment.ErrServiceMismatch, http.StatusBadRequest},
		{appointment.ErrDateTimeNotFuture, http.StatusBadRequest},
		{appointment.ErrSlotTaken, http.StatusBadRequest},
		{appointment.ErrTerminalStatus, http.StatusBadRequest},
		{appointment.ErrInvalidStatusTarget, http.StatusBadRequest},
		{appointment.ErrSlotContended, http.StatusConflict},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handleAppointmentError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}
