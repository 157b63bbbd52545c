package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/sessions"
)

// entry — запись одной половины пары.
type entry struct {
	userID    uuid.UUID
	siblingID uuid.UUID
	expiresAt time.Time
}

// Store — процессная реализация sessions.TokenStore: те же семантики, что
// у Redis-реализации (TTL, одноразовый ConsumeRefresh), но состояние живёт
// в памяти процесса. Предназначена для тестов и локальной разработки;
// горизонтального масштабирования не переживает.
type Store struct {
	mu      sync.Mutex
	access  map[uuid.UUID]entry
	refresh map[uuid.UUID]entry

	// now подменяется в тестах для проверки истечения TTL.
	now func() time.Time
}

// New создаёт пустое in-memory хранилище сессий.
func New() *Store {
	return &Store{
		access:  make(map[uuid.UUID]entry),
		refresh: make(map[uuid.UUID]entry),
		now:     time.Now,
	}
}

// Проверка на соответствие контракту TokenStore.
var _ sessions.TokenStore = (*Store)(nil)

// Save записывает обе половины пары под одной блокировкой.
func (s *Store) Save(_ context.Context, pair *models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.access[pair.AccessToken.ID] = entry{
		userID:    pair.UserID,
		siblingID: pair.RefreshToken.ID,
		expiresAt: now.Add(pair.AccessToken.Lifetime),
	}
	s.refresh[pair.RefreshToken.ID] = entry{
		userID:    pair.UserID,
		siblingID: pair.AccessToken.ID,
		expiresAt: now.Add(pair.RefreshToken.Lifetime),
	}

	return nil
}

// ResolveAccess возвращает владельца access-токена; просроченная запись
// удаляется лениво и считается отсутствующей.
func (s *Store) ResolveAccess(_ context.Context, accessID uuid.UUID) (uuid.UUID, error) {
	const op = "sessions.memory.ResolveAccess"

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.access[accessID]
	if !ok || s.expired(e) {
		delete(s.access, accessID)
		return uuid.Nil, fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
	}

	return e.userID, nil
}

// ConsumeRefresh читает-и-удаляет запись под блокировкой: из конкурирующих
// вызовов с одним refresh-id ровно один получает результат.
func (s *Store) ConsumeRefresh(_ context.Context, refreshID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	const op = "sessions.memory.ConsumeRefresh"

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.refresh[refreshID]
	if !ok || s.expired(e) {
		delete(s.refresh, refreshID)
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
	}

	delete(s.refresh, refreshID)

	return e.userID, e.siblingID, nil
}

// RevokeAccess удаляет запись access-токена; отсутствие — не ошибка.
func (s *Store) RevokeAccess(_ context.Context, accessID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.access, accessID)

	return nil
}

// RevokeSession сносит обе половины пары со стороны access-токена.
func (s *Store) RevokeSession(_ context.Context, accessID uuid.UUID) error {
	const op = "sessions.memory.RevokeSession"

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.access[accessID]
	if !ok || s.expired(e) {
		delete(s.access, accessID)
		return fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
	}

	delete(s.access, accessID)
	delete(s.refresh, e.siblingID)

	return nil
}

func (s *Store) expired(e entry) bool {
	return s.now().After(e.expiresAt)
}
