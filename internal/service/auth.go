package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/pkg/log"
	"github.com/TheTaz25/simple-auth/internal/sessions"
	"github.com/TheTaz25/simple-auth/internal/storage"
)

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 8

// RegisterUser регистрирует нового пользователя.
//
// Возвращает ErrInvalidUsername/ErrEmptyPassword/ErrWeakPassword при
// невалидном вводе и ErrUsernameTaken, если имя уже занято.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	const op = "service.auth.RegisterUser"

	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered", "user_id", user.ID)

	return user, nil
}

// LoginUser проверяет учётные данные и выпускает новую пару токенов.
//
// Возвращает ErrInvalidCredentials при неверной паре логин/пароль и
// ErrUserBlocked для заблокированной учётной записи; блокировка
// проверяется до пароля, чтобы заблокированный пользователь не мог
// отличить «пароль не подошёл» от «вход закрыт».
func (s *Service) LoginUser(ctx context.Context, username, password string) (*models.TokenPair, error) {
	const op = "service.auth.LoginUser"

	user, err := s.users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Blocked {
		return nil, fmt.Errorf("%s: %w", op, ErrUserBlocked)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair := models.NewTokenPair(user.ID, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
	if err := s.tokens.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_in", "user_id", user.ID)

	return pair, nil
}

// RefreshSession атомарно употребляет refresh-токен и выпускает новую
// пару для того же пользователя. Старый access-токен отзывается, каждый
// refresh-токен срабатывает не более одного раза.
//
// Пользователь при ротации из БД не загружается: блокировка
// обнаруживается guard'ом при первом же использовании нового
// access-токена.
func (s *Service) RefreshSession(ctx context.Context, refreshID uuid.UUID) (*models.TokenPair, error) {
	const op = "service.auth.RefreshSession"

	userID, accessID, err := s.tokens.ConsumeRefresh(ctx, refreshID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tokens.RevokeAccess(ctx, accessID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair := models.NewTokenPair(userID, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL)
	if err := s.tokens.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("session_rotated", "user_id", userID)

	return pair, nil
}

// Logout завершает сессию: отзывает access-токен и связанный с ним
// refresh-токен. Неизвестный токен означает недействительную сессию —
// ErrInvalidToken.
func (s *Service) Logout(ctx context.Context, accessID uuid.UUID) error {
	const op = "service.auth.Logout"

	if err := s.tokens.RevokeSession(ctx, accessID); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_out", "access_id", accessID)

	return nil
}

// Identity резолвит access-токен в пользователя — ядро guard'ов.
// Пользователь загружается из БД на каждый запрос: блокировка и смена
// прав действуют немедленно, не дожидаясь истечения токена.
//
// Возвращает ErrInvalidToken, если сессия не найдена или пользователь
// исчез, и ErrUserBlocked для заблокированной учётной записи.
func (s *Service) Identity(ctx context.Context, accessID uuid.UUID) (*models.User, error) {
	const op = "service.auth.Identity"

	userID, err := s.tokens.ResolveAccess(ctx, accessID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.Blocked {
		return nil, fmt.Errorf("%s: %w", op, ErrUserBlocked)
	}

	return user, nil
}

// EnsureAdmin создаёт административную учётную запись при старте
// сервиса. Повторный запуск с тем же именем — no-op.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	const op = "service.auth.EnsureAdmin"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	admin := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Admin:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("admin_user_created", "username", username)

	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return ErrInvalidUsername
	}

	return nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < minPasswordLen:
		return ErrWeakPassword
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
