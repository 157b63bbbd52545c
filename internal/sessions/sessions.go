// sessions задаёт контракт хранилища сессионных токенов — авторитетного
// индекса активных сессий, переживающего рестарты процесса и общего для
// всех инстансов сервиса.
//
// Раскладка ключей (двe независимые семьи, TTL каждой записи равен времени
// жизни соответствующего токена):
//
//	ACCESS:{access_id}   -> "{user_id}:{refresh_id}"
//	REFRESH:{refresh_id} -> "{user_id}:{access_id}"
//
// В каждой записи хранится идентификатор парного токена: любая половина
// пары позволяет найти и снести вторую без вторичного индекса.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/TheTaz25/simple-auth/internal/models"
)

var (
	// ErrSessionNotFound — запись по токену отсутствует: токен не выдавался,
	// истёк по TTL либо уже был употреблён/отозван.
	// Транспорт: 401 Unauthorized.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnavailable — хранилище сессий недоступно (сетевая ошибка, таймаут).
	// Пара НЕ считается активной, если Save вернул эту ошибку.
	// Транспорт: 500 Internal Server Error; ретраи — забота пула соединений
	// клиента, а не сессионной логики.
	ErrUnavailable = errors.New("session store unavailable")
)

// TokenStore — контракт хранилища сессий. Реализации: redis (боевая)
// и memory (для тестов и одиночного инстанса); обе удовлетворяют одному
// и тому же контракту, singleton-состояния в процессе нет.
type TokenStore interface {
	// Save записывает обе половины пары одним конвейером с TTL каждой записи.
	// При любой ошибке пара не считается активной.
	Save(ctx context.Context, pair *models.TokenPair) error

	// ResolveAccess возвращает владельца access-токена.
	// Отсутствие записи (включая вытеснение по TTL) — ErrSessionNotFound.
	ResolveAccess(ctx context.Context, accessID uuid.UUID) (uuid.UUID, error)

	// ConsumeRefresh атомарно читает и удаляет запись refresh-токена
	// (одноразовость: повторное употребление того же refresh невозможно).
	// Возвращает владельца и идентификатор парного access-токена.
	ConsumeRefresh(ctx context.Context, refreshID uuid.UUID) (userID, accessID uuid.UUID, err error)

	// RevokeAccess удаляет только запись access-токена. Используется при
	// ротации — refresh-ключ к этому моменту уже употреблён.
	RevokeAccess(ctx context.Context, accessID uuid.UUID) error

	// RevokeSession читает-и-удаляет запись access-токена и по парному
	// идентификатору удаляет запись refresh-токена (logout: снос обеих
	// половин со стороны access).
	RevokeSession(ctx context.Context, accessID uuid.UUID) error
}

// Префиксы семей ключей.
const (
	accessPrefix  = "ACCESS:"
	refreshPrefix = "REFRESH:"
)

// AccessKey возвращает ключ записи access-токена.
func AccessKey(accessID uuid.UUID) string {
	return accessPrefix + accessID.String()
}

// RefreshKey возвращает ключ записи refresh-токена.
func RefreshKey(refreshID uuid.UUID) string {
	return refreshPrefix + refreshID.String()
}

// EncodeEntry собирает составное значение записи "{user_id}:{sibling_id}".
func EncodeEntry(userID, siblingID uuid.UUID) string {
	return userID.String() + ":" + siblingID.String()
}

// DecodeEntry разбирает составное значение записи.
// Повреждённое значение — признак несогласованности хранилища.
func DecodeEntry(value string) (userID, siblingID uuid.UUID, err error) {
	const op = "sessions.DecodeEntry"

	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: malformed entry", op)
	}

	userID, err = uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	siblingID, err = uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return userID, siblingID, nil
}
