package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/TheTaz25/simple-auth/internal/config"
	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/service"
	"github.com/TheTaz25/simple-auth/internal/sessions/memory"
	"github.com/TheTaz25/simple-auth/mocks"
)

// guardFixture — сервис на моках БД и in-memory хранилище сессий
// с одной заранее выпущенной парой токенов для user.
func guardFixture(t *testing.T, user *models.User) (*service.Service, *models.TokenPair, *mocks.MockUserStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockUserStorage(ctrl)
	tokens := memory.New()
	svc := service.New(st, tokens, config.AuthConfig{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
	})

	pair := models.NewTokenPair(user.ID, time.Hour, 2*time.Hour)
	require.NoError(t, tokens.Save(context.Background(), pair))

	return svc, pair, st
}

func TestRequireUser_OK_InjectsUserAndToken(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "alice"}
	svc, pair, st := guardFixture(t, user)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	var (
		gotUser  *models.User
		gotToken uuid.UUID
	)
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotToken, _ = AccessTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/self", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken.ID.String())

	Chain(final, RequireUser(svc)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotUser)
	require.Equal(t, user.ID, gotUser.ID)
	require.Equal(t, pair.AccessToken.ID, gotToken)
}

func TestRequireUser_MissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "alice"}
	svc, pair, _ := guardFixture(t, user)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := Chain(final, RequireUser(svc))

	headers := []string{
		"",                            // нет заголовка
		pair.AccessToken.ID.String(),  // «голый» токен без схемы
		"Basic " + pair.AccessToken.ID.String(), // чужая схема
		"Bearer ",           // пустой токен
		"Bearer not-a-uuid", // не парсится
	}

	for _, header := range headers {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/self", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		guard.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}

func TestRequireUser_UnknownToken(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "alice"}
	svc, _, _ := guardFixture(t, user)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/self", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.New().String())

	Chain(final, RequireUser(svc)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireUser_BlockedUser(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "alice", Blocked: true}
	svc, pair, st := guardFixture(t, user)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/self", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken.ID.String())

	Chain(final, RequireUser(svc)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdmin_ForbidsNonAdmin(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "alice"}
	svc, pair, st := guardFixture(t, user)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken.ID.String())

	Chain(final, RequireUser(svc), RequireAdmin()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "root", Admin: true}
	svc, pair, st := guardFixture(t, user)
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken.ID.String())

	Chain(final, RequireUser(svc), RequireAdmin()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdmin_WithoutUserInContext(t *testing.T) {
	t.Parallel()

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)

	Chain(final, RequireAdmin()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
