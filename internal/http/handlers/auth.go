package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/TheTaz25/simple-auth/internal/http/errors"
	"github.com/TheTaz25/simple-auth/internal/http/middleware"
	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/service"
)

// credentialsRequest — тело register/login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse — одна половина пары; expires_at в Unix-секундах.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// tokenPairResponse — полная пара, как её ждёт клиент.
type tokenPairResponse struct {
	User         string        `json:"user"`
	AccessToken  tokenResponse `json:"access_token"`
	RefreshToken tokenResponse `json:"refresh_token"`
}

type tokensEnvelope struct {
	Tokens tokenPairResponse `json:"tokens"`
}

type userEnvelope struct {
	User models.UserInfo `json:"user"`
}

func tokensFromPair(pair *models.TokenPair) tokensEnvelope {
	return tokensEnvelope{
		Tokens: tokenPairResponse{
			User: pair.UserID.String(),
			AccessToken: tokenResponse{
				Token:     pair.AccessToken.ID.String(),
				ExpiresAt: pair.AccessToken.ExpiresAt.Unix(),
			},
			RefreshToken: tokenResponse{
				Token:     pair.RefreshToken.ID.String(),
				ExpiresAt: pair.RefreshToken.ExpiresAt.Unix(),
			},
		},
	}
}

// RegisterUser — POST /auth/register.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteInvalidArgument(w, r)
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userEnvelope{User: user.Info()})
}

// LoginUser — POST /auth/login.
// Заблокированный пользователь получает 401, а не 403: логин не раскрывает,
// что учётная запись существует и заблокирована.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteInvalidArgument(w, r)
		return
	}

	pair, err := h.Service.LoginUser(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserBlocked) {
			apierrors.WriteErrorStatus(w, r, http.StatusUnauthorized, err)
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensFromPair(pair))
}

// RefreshSession — GET /auth/refresh/{refresh_token}.
// Нечитаемый идентификатор токена неотличим от неизвестного: 401.
func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	refreshID, err := uuid.Parse(chi.URLParam(r, "refresh_token"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	pair, err := h.Service.RefreshSession(r.Context(), refreshID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensFromPair(pair))
}

// Logout — GET /auth/logout (за guard'ом): сносит обе половины текущей пары.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	accessID, ok := middleware.AccessTokenFromContext(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	if err := h.Service.Logout(r.Context(), accessID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Self — GET /auth/self (за guard'ом): публичное представление пользователя.
func (h *Handlers) Self(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	writeJSON(w, http.StatusOK, userEnvelope{User: user.Info()})
}

// AuthTest — GET /auth/test: smoke-проверка guard'а аутентификации.
func (h *Handlers) AuthTest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AdminTest — GET /admin/test: smoke-проверка административного guard'а.
func (h *Handlers) AdminTest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
