package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewToken_SetsLifetimeAndExpiry(t *testing.T) {
	t.Parallel()

	tok := NewToken(time.Hour)

	require.NotEqual(t, uuid.Nil, tok.ID)
	require.Equal(t, time.Hour, tok.Lifetime)
	require.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.ExpiresAt, 2*time.Second)
	require.False(t, tok.Expired())
}

func TestToken_Matches(t *testing.T) {
	t.Parallel()

	tok := NewToken(time.Hour)

	require.True(t, tok.Matches(tok.ID))
	require.False(t, tok.Matches(uuid.New()))
}

// Токен с прошедшим сроком обязан считаться истёкшим независимо от того,
// что лежит (или ещё лежит) в хранилище.
func TestToken_Expired_PastExpiry(t *testing.T) {
	t.Parallel()

	tok := Token{
		ID:        uuid.New(),
		Lifetime:  time.Hour,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}

	require.True(t, tok.Expired())
}

func TestNewTokenPair_DistinctTokensSameUser(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pair := NewTokenPair(userID, 14*24*time.Hour, 31*24*time.Hour)

	require.Equal(t, userID, pair.UserID)
	require.NotEqual(t, pair.AccessToken.ID, pair.RefreshToken.ID)
	require.Equal(t, 14*24*time.Hour, pair.AccessToken.Lifetime)
	require.Equal(t, 31*24*time.Hour, pair.RefreshToken.Lifetime)
	require.True(t, pair.RefreshToken.ExpiresAt.After(pair.AccessToken.ExpiresAt))
}
