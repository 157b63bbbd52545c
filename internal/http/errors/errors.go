// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: комментарии к sentinel-ошибкам
// в пакетах service и sessions.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TheTaz25/simple-auth/internal/service"
	"github.com/TheTaz25/simple-auth/internal/sessions"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный
// ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - ErrInvalidCredentials / ErrInvalidToken -> 401;
//   - ErrUserBlocked / ErrNotAllowed -> 403;
//   - ErrUsernameTaken -> 409;
//   - ErrInvalidUsername / ErrEmptyPassword / ErrWeakPassword -> 400;
//   - sessions.ErrUnavailable -> 503;
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, response("internal", "internal error")
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response("invalid_credentials", "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, response("invalid_token", "invalid token")
	case errors.Is(err, service.ErrUserBlocked):
		return http.StatusForbidden, response("user_blocked", "user is blocked")
	case errors.Is(err, service.ErrNotAllowed):
		return http.StatusForbidden, response("permission_denied", "permission denied")
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, response("username_taken", "username already taken")
	case errors.Is(err, service.ErrInvalidUsername):
		return http.StatusBadRequest, response("invalid_username", "invalid username")
	case errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, response("empty_password", "password is empty")
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, response("weak_password", "password is too weak")
	case errors.Is(err, sessions.ErrUnavailable):
		return http.StatusServiceUnavailable, response("unavailable", "service unavailable")
	default:
		return http.StatusInternalServerError, response("internal", "internal error")
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	write(w, r, status, resp)
}

// WriteInvalidArgument — вспомогалка для хендлеров: локальная ошибка
// парсинга входного JSON -> 400/invalid_argument.
func WriteInvalidArgument(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusBadRequest, response("invalid_argument", "invalid argument"))
}

// WriteErrorStatus пишет унифицированное тело ошибки с явно заданным
// статусом (контракт логина: заблокированный пользователь получает 401).
func WriteErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	_, resp := ToHTTP(err)
	write(w, r, status, resp)
}

func write(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func response(code, message string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: message}}
}
