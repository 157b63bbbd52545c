// service содержит бизнес-логику сервиса сессий: регистрацию и
// аутентификацию пользователей, выпуск/ротацию пар токенов, logout и
// авторизацию запросов (ядро guard'ов) поверх интерфейсов storage и sessions.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования при потокобезопасных зависимостях.
//     Авторитетное состояние сессий целиком живёт в TokenStore, поэтому
//     инстанс сервиса stateless и масштабируется горизонтально.
//   - Ошибки возвращаются доменными sentinel-значениями и маппятся
//     HTTP-слоем на статусы (см. комментарии к переменным ниже).
package service

import (
	"errors"

	"github.com/TheTaz25/simple-auth/internal/config"
	"github.com/TheTaz25/simple-auth/internal/sessions"
	"github.com/TheTaz25/simple-auth/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь
	// не найден. Транспорт: 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) отсутствует в хранилище,
	// истёк, уже употреблён либо не разбирается как идентификатор.
	// Сюда же сворачивается «пользователь по сессии больше не найден»,
	// чтобы не раскрывать существование учётных записей.
	// Транспорт: 401 Unauthorized.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserBlocked — учётная запись заблокирована администратором.
	// Транспорт: 403 Forbidden на guard'ах; хендлер логина отдаёт 401
	// (контракт /auth/login).
	ErrUserBlocked = errors.New("user blocked")

	// ErrNotAllowed — аутентифицирован, но требуемой роли нет.
	// Транспорт: 403 Forbidden.
	ErrNotAllowed = errors.New("insufficient permissions")

	// ErrUsernameTaken — имя пользователя уже занято.
	// Транспорт: 409 Conflict.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername — имя пользователя пустое или некорректное.
	// Транспорт: 400 Bad Request.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrEmptyPassword — пароль пустой. Транспорт: 400 Bad Request.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrWeakPassword — пароль короче минимально допустимого.
	// Транспорт: 400 Bad Request.
	ErrWeakPassword = errors.New("password is too weak")
)

// Service описывает бизнес-логику сервиса сессий.
type Service struct {
	users  storage.UserStorage
	tokens sessions.TokenStore
	cfg    config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, tokens sessions.TokenStore, cfg config.AuthConfig) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
	}
}
