package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	var got map[string]int
	found, err := GetCache(ctx, rdb, RecentKey("u1"), &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, RecentKey("u1"), map[string]int{"n": 3}, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, StatsKey("u1", "weekly"), map[string]int{"n": 4}, time.Minute))
	found, err = GetCache(ctx, rdb, RecentKey("u1"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got["n"])

	require.NoError(t, InvalidateUser(ctx, rdb, "u1"))
	assert.False(t, mr.Exists(RecentKey("u1")))
	assert.False(t, mr.Exists(StatsKey("u1", "weekly")))
}

func TestCacheDisabled(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetCache(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Minute))
	assert.NoError(t, InvalidateUser(ctx, nil, "u1"))
}
