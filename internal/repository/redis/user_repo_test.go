package redis_test

import (
	"context"
	"testing"
	"time"

	"yatube/internal/repository/redis"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenStore(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	repo := &redis.UserRepository{RDB: rdb}
	ctx := context.Background()

	_, err := repo.GetUserToken(ctx, 1)
	assert.ErrorIs(t, err, redis.ErrTokenNotFound)

	require.NoError(t, repo.AddUserToken(ctx, 1, "first"))
	require.NoError(t, repo.AddUserToken(ctx, 1, "second"))

	token, err := repo.GetUserToken(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	mr.FastForward(20 * time.Minute)
	require.NoError(t, repo.ExtendUserToken(ctx, 1))
	mr.FastForward(20 * time.Minute)
	_, err = repo.GetUserToken(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, repo.RevokeSessions(ctx, 1))
	_, err = repo.GetUserToken(ctx, 1)
	assert.ErrorIs(t, err, redis.ErrTokenNotFound)
}

func TestDistLock(t *testing.T) {
	_, rdb := testutil.NewTestRedis(t)
	lock := &redis.DistLock{RDB: rdb, TTL: time.Minute}
	ctx := context.Background()

	got, err := lock.Acquire(ctx, "job", "a")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = lock.Acquire(ctx, "job", "b")
	require.NoError(t, err)
	assert.False(t, got)

	// 非持有者释放无效
	require.NoError(t, lock.Release(ctx, "job", "b"))
	got, err = lock.Acquire(ctx, "job", "b")
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, lock.Release(ctx, "job", "a"))
	got, err = lock.Acquire(ctx, "job", "b")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEmailCodeTwoPhase(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	repo := &redis.EmailRepository{RDB: rdb}
	ctx := context.Background()

	require.NoError(t, repo.SavePending(ctx, "reset", "a@example.com", "123456"))
	_, err := repo.GetConfirmed(ctx, "reset", "a@example.com")
	assert.ErrorIs(t, err, redis.ErrEmailNotFound)

	require.NoError(t, repo.Confirm(ctx, "reset", "a@example.com"))
	code, err := repo.GetConfirmed(ctx, "reset", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	// pending 已被移走，再次确认失败
	assert.ErrorIs(t, repo.Confirm(ctx, "reset", "a@example.com"), redis.ErrCodeConfirmedFailed)

	mr.FastForward(redis.DefaultEmailCodeTTL + time.Second)
	_, err = repo.GetConfirmed(ctx, "reset", "a@example.com")
	assert.ErrorIs(t, err, redis.ErrEmailNotFound)
}

func TestSessionVersion(t *testing.T) {
	_, rdb := testutil.NewTestRedis(t)
	repo := &redis.UserRepository{RDB: rdb}
	ctx := context.Background()

	ver, err := repo.SessionVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ver)

	require.NoError(t, repo.AddUserToken(ctx, 1, "token"))
	require.NoError(t, repo.RevokeSessions(ctx, 1))

	ver, err = repo.SessionVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
	_, err = repo.GetUserToken(ctx, 1)
	assert.ErrorIs(t, err, redis.ErrTokenNotFound)

	// 其他用户不受影响
	ver, err = repo.SessionVersion(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ver)
}

func TestEmailCodeAttempts(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	repo := &redis.EmailRepository{RDB: rdb}
	ctx := context.Background()

	require.NoError(t, repo.SavePending(ctx, "reset", "a@example.com", "123456"))
	require.NoError(t, repo.Confirm(ctx, "reset", "a@example.com"))

	for want := int64(1); want <= 3; want++ {
		n, err := repo.IncrAttempts(ctx, "reset", "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.True(t, mr.Exists("email:code:reset:attempts:a@example.com"))

	// 重新发码后错误次数清零
	require.NoError(t, repo.SavePending(ctx, "reset", "a@example.com", "654321"))
	require.NoError(t, repo.Confirm(ctx, "reset", "a@example.com"))
	assert.False(t, mr.Exists("email:code:reset:attempts:a@example.com"))

	n, err := repo.IncrAttempts(ctx, "reset", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteConfirmed(ctx, "reset", "a@example.com"))
	assert.False(t, mr.Exists("email:code:reset:attempts:a@example.com"))
	assert.False(t, mr.Exists("email:code:reset:confirmed:a@example.com"))
}
