package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/TheTaz25/simple-auth/internal/models"
	"github.com/TheTaz25/simple-auth/internal/sessions"
)

// Store — Redis-реализация sessions.TokenStore.
//
// Атомарность: Save шлёт обе записи одним TxPipeline (в нормальной работе
// частичная запись не видна; кросс-ключевой транзакционности Redis не даёт —
// упавший между под-записями сервер оставит «полупару», что трактуется как
// частично невалидная сессия и требует повторного логина). ConsumeRefresh
// опирается на нативный GETDEL: ровно один из конкурирующих вызовов с одним
// и тем же refresh-id получает значение.
type Store struct {
	rdb *goredis.Client
}

// New создаёт хранилище из URL (например, redis://:pass@host:6379/0)
// с fail-fast проверкой соединения на старте.
func New(ctx context.Context, redisURL string) (*Store, error) {
	const op = "sessions.redis.New"

	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := goredis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	return &Store{rdb: rdb}, nil
}

// Close закрывает клиент Redis.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Проверка на соответствие контракту TokenStore.
var _ sessions.TokenStore = (*Store)(nil)

// Save записывает обе половины пары одним конвейером; TTL каждой записи
// равен времени жизни её токена.
func (s *Store) Save(ctx context.Context, pair *models.TokenPair) error {
	const op = "sessions.redis.Save"

	accessKey := sessions.AccessKey(pair.AccessToken.ID)
	refreshKey := sessions.RefreshKey(pair.RefreshToken.ID)

	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, accessKey, sessions.EncodeEntry(pair.UserID, pair.RefreshToken.ID), pair.AccessToken.Lifetime)
		pipe.Set(ctx, refreshKey, sessions.EncodeEntry(pair.UserID, pair.AccessToken.ID), pair.RefreshToken.Lifetime)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	return nil
}

// ResolveAccess возвращает владельца access-токена.
func (s *Store) ResolveAccess(ctx context.Context, accessID uuid.UUID) (uuid.UUID, error) {
	const op = "sessions.redis.ResolveAccess"

	value, err := s.rdb.Get(ctx, sessions.AccessKey(accessID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
		}

		return uuid.Nil, fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	userID, _, err := sessions.DecodeEntry(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return userID, nil
}

// ConsumeRefresh атомарно употребляет запись refresh-токена (GETDEL).
func (s *Store) ConsumeRefresh(ctx context.Context, refreshID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	const op = "sessions.redis.ConsumeRefresh"

	value, err := s.rdb.GetDel(ctx, sessions.RefreshKey(refreshID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
		}

		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	userID, accessID, err := sessions.DecodeEntry(value)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return userID, accessID, nil
}

// RevokeAccess удаляет запись access-токена. Отсутствие записи не считается
// ошибкой: токен мог уже истечь по TTL.
func (s *Store) RevokeAccess(ctx context.Context, accessID uuid.UUID) error {
	const op = "sessions.redis.RevokeAccess"

	if err := s.rdb.Del(ctx, sessions.AccessKey(accessID)).Err(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	return nil
}

// RevokeSession сносит обе половины пары со стороны access-токена.
func (s *Store) RevokeSession(ctx context.Context, accessID uuid.UUID) error {
	const op = "sessions.redis.RevokeSession"

	value, err := s.rdb.GetDel(ctx, sessions.AccessKey(accessID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return fmt.Errorf("%s: %w", op, sessions.ErrSessionNotFound)
		}

		return fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	_, refreshID, err := sessions.DecodeEntry(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Del(ctx, sessions.RefreshKey(refreshID)).Err(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, sessions.ErrUnavailable, err)
	}

	return nil
}
