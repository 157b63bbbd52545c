package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheTaz25/simple-auth/internal/service"
	"github.com/TheTaz25/simple-auth/internal/sessions"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{service.ErrUserBlocked, http.StatusForbidden, "user_blocked"},
		{service.ErrNotAllowed, http.StatusForbidden, "permission_denied"},
		{service.ErrUsernameTaken, http.StatusConflict, "username_taken"},
		{service.ErrInvalidUsername, http.StatusBadRequest, "invalid_username"},
		{service.ErrEmptyPassword, http.StatusBadRequest, "empty_password"},
		{service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
		{sessions.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("anything else"), http.StatusInternalServerError, "internal"},
		{nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		status, resp := ToHTTP(tc.err)
		require.Equal(t, tc.status, status, "err %v", tc.err)
		require.Equal(t, tc.code, resp.Error.Code, "err %v", tc.err)
		require.NotEmpty(t, resp.Error.Message)
	}
}

func TestToHTTP_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service.auth.LoginUser: %w", service.ErrInvalidCredentials)
	status, resp := ToHTTP(wrapped)

	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_credentials", resp.Error.Code)
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, service.ErrInvalidToken)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), `"request_id":"rid-1"`)
}

func TestWriteErrorStatus_OverridesStatusOnly(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()

	// Контракт логина: заблокированный пользователь получает 401,
	// но код ошибки в теле остаётся доменным.
	WriteErrorStatus(rr, req, http.StatusUnauthorized, service.ErrUserBlocked)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), `"user_blocked"`)
}
