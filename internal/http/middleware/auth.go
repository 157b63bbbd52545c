package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/TheTaz25/simple-auth/internal/http/errors"
	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/service"
)

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyAccessToken
)

// RequireUser — guard аутентифицированных маршрутов. Извлекает Bearer-токен
// из Authorization, резолвит его через сервис в пользователя (свежая запись
// из БД на каждый запрос) и кладёт пользователя вместе с идентификатором
// access-токена в контекст.
//
// Ответы guard'а: 401 — токен отсутствует/не парсится/не найден;
// 403 — пользователь заблокирован.
func RequireUser(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessID, ok := bearerToken(r)
			if !ok {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			user, err := svc.Identity(r.Context(), accessID)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			ctx = context.WithValue(ctx, ctxKeyAccessToken, accessID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin — guard административных маршрутов поверх RequireUser:
// пользователь уже в контексте, недостаточная роль — 403.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			if !user.Admin {
				apierrors.WriteError(w, r, service.ErrNotAllowed)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext возвращает пользователя, положенного guard'ом RequireUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(*models.User)
	return user, ok
}

// AccessTokenFromContext возвращает идентификатор access-токена запроса.
func AccessTokenFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyAccessToken).(uuid.UUID)
	return id, ok
}

// bearerToken разбирает заголовок Authorization формата "Bearer {uuid}".
func bearerToken(r *http.Request) (uuid.UUID, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return uuid.Nil, false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return uuid.Nil, false
	}

	raw := strings.TrimSpace(auth[len(prefix):])
	if raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
