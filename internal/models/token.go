package models

import (
	"time"

	"github.com/google/uuid"
)

// Token — непрозрачный сессионный токен: случайный 128-битный идентификатор
// с абсолютным сроком действия. Токен неизменяем после создания; равенство
// определяется только по ID.
//
// ExpiresAt и Lifetime используются для локальных проверок до похода
// в хранилище; авторитетный срок жизни обеспечивается TTL самого хранилища.
type Token struct {
	ID        uuid.UUID
	Lifetime  time.Duration
	ExpiresAt time.Time
}

// NewToken выпускает новый токен с заданным временем жизни.
// Побочных эффектов нет: запись в хранилище — отдельная операция.
func NewToken(lifetime time.Duration) Token {
	return Token{
		ID:        uuid.New(),
		Lifetime:  lifetime,
		ExpiresAt: time.Now().UTC().Add(lifetime),
	}
}

// Matches сравнивает токен с идентификатором-кандидатом.
func (t Token) Matches(id uuid.UUID) bool {
	return t.ID == id
}

// Expired сообщает, истёк ли срок действия токена.
func (t Token) Expired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}

// TokenPair — пара access+refresh токенов, привязанная к одному пользователю.
// Единица выдачи: пара создаётся целиком при логине или успешном refresh
// и никогда не изменяется — ротация всегда выпускает новую пару.
type TokenPair struct {
	UserID       uuid.UUID
	AccessToken  Token
	RefreshToken Token
}

// NewTokenPair выпускает новую пару токенов для пользователя.
// Чистая функция без I/O; сроки фиксируются в момент выпуска и
// в дальнейшем не продлеваются.
func NewTokenPair(userID uuid.UUID, accessTTL, refreshTTL time.Duration) *TokenPair {
	return &TokenPair{
		UserID:       userID,
		AccessToken:  NewToken(accessTTL),
		RefreshToken: NewToken(refreshTTL),
	}
}
