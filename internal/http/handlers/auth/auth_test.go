package auth

import (
	"context"
	"encoding/json"
	"errors"
	"filevault/internal/dto"
	"filevault/internal/models"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, name string, email string, password string) (*models.User, *models.AuthTokens, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(*models.User), args.Get(1).(*models.AuthTokens), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email string, password string) (*models.User, *models.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(*models.User), args.Get(1).(*models.AuthTokens), args.Error(2)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(*models.AuthTokens), args.Error(1)
}

var (
	testCookie = CookieConfig{MaxAge: 7 * 24 * time.Hour}
	testUser   = &models.User{ID: "u1", Name: "A", Email: "a@x.com", PassHash: []byte("hash"), CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	testPair   = &models.AuthTokens{AccessToken: "access", RefreshToken: "refresh"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&parsed))
	assert.Equal(t, false, parsed["success"])
	return parsed
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, "A", "a@x.com", "secret1").Return(testUser, testPair, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"A","email":"a@x.com","password":"secret1"}`))
	w := httptest.NewRecorder()

	Register(req.Context(), discardLogger(), w, req, svc, testCookie)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "hash")

	var parsed dto.SessionResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, parsed.Success)
	assert.Equal(t, "a@x.com", parsed.Data.User.Email)
	assert.Equal(t, "access", parsed.Data.AccessToken)

	c := refreshCookie(t, resp)
	require.NotNil(t, c)
	assert.Equal(t, "refresh", c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "missing fields", err: models.ErrFieldsRequired, wantStatus: http.StatusBadRequest, wantMsg: "All fields are required"},
		{name: "short password", err: models.ErrPasswordTooShort, wantStatus: http.StatusBadRequest, wantMsg: "Password must be at least 6 characters"},
		{name: "duplicate", err: models.ErrUserExists, wantStatus: http.StatusConflict, wantMsg: "User already exists"},
		{name: "internal", err: models.ErrInternal, wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(mockAuthService)
			svc.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return((*models.User)(nil), (*models.AuthTokens)(nil), tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"A","email":"a@x.com","password":"x"}`))
			w := httptest.NewRecorder()

			Register(req.Context(), discardLogger(), w, req, svc, testCookie)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w.Body)["error"])
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{invalid json}`))
	w := httptest.NewRecorder()

	Register(req.Context(), discardLogger(), w, req, new(mockAuthService), testCookie)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	decodeError(t, w.Body)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "secret1").Return(testUser, testPair, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
	w := httptest.NewRecorder()

	Login(req.Context(), discardLogger(), w, req, svc, CookieConfig{Secure: true, MaxAge: time.Hour})

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "u1", parsed.Data.User.ID)
	assert.Equal(t, "access", parsed.Data.AccessToken)

	c := refreshCookie(t, resp)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.Equal(t, 3600, c.MaxAge)
}

func TestLogin_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "missing fields", err: models.ErrCredentialsRequired, wantStatus: http.StatusBadRequest, wantMsg: "Email and password are required"},
		{name: "bad credentials", err: models.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid credentials"},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(mockAuthService)
			svc.On("Login", mock.Anything, mock.Anything, mock.Anything).
				Return((*models.User)(nil), (*models.AuthTokens)(nil), tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.com","password":"wrong"}`))
			w := httptest.NewRecorder()

			Login(req.Context(), discardLogger(), w, req, svc, testCookie)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w.Body)["error"])
		})
	}
}

func TestRefresh_Success(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)
	svc.On("Refresh", mock.Anything, "old-refresh").Return(&models.AuthTokens{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "old-refresh"})
	w := httptest.NewRecorder()

	Refresh(req.Context(), discardLogger(), w, req, svc, testCookie)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "new-refresh")

	var parsed dto.RefreshResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "new-access", parsed.Data.AccessToken)

	c := refreshCookie(t, resp)
	require.NotNil(t, c)
	assert.Equal(t, "new-refresh", c.Value)
}

func TestRefresh_NoCookie(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	w := httptest.NewRecorder()

	Refresh(req.Context(), discardLogger(), w, req, svc, testCookie)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No refresh token provided", decodeError(t, w.Body)["error"])
	svc.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestRefresh_Rejected_KeepsCookie(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)
	svc.On("Refresh", mock.Anything, "expired").Return((*models.AuthTokens)(nil), models.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "expired"})
	w := httptest.NewRecorder()

	Refresh(req.Context(), discardLogger(), w, req, svc, testCookie)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
	decodeError(t, w.Body)
}

func TestRefresh_InternalError(t *testing.T) {
	t.Parallel()

	svc := new(mockAuthService)
	svc.On("Refresh", mock.Anything, "tok").Return((*models.AuthTokens)(nil), models.ErrInternal)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "tok"})
	w := httptest.NewRecorder()

	Refresh(req.Context(), discardLogger(), w, req, svc, testCookie)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()

		Logout(discardLogger(), w, testCookie)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		c := refreshCookie(t, resp)
		require.NotNil(t, c)
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
		assert.Contains(t, resp.Header.Get("Set-Cookie"), "Max-Age=0")

		var parsed dto.StatusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.True(t, parsed.Success)
		resp.Body.Close()
	}
}
