package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatube/internal/model"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"
	"yatube/internal/service"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFollowService(db)
	repo := &mysql.FollowRepository{DB: db}
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	changed, err := svc.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = svc.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.False(t, changed)

	n, err := repo.CountPair(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = svc.IsFollowing(ctx, 0, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowSelfIgnored(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")

	changed, err := svc.Follow(ctx, alice.ID, "alice")
	require.NoError(t, err)
	assert.False(t, changed)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUnfollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")

	// 本来没有关注也不报错
	changed, err := svc.Unfollow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = svc.Unfollow(ctx, alice.ID, "nobody")
	assert.True(t, model.IsNotFound(err))

	_, err = svc.Follow(ctx, 0, "bob")
	assert.True(t, model.IsUnauthorized(err))
}

func TestOutboxRelayerDrain(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "carol")
	_, err := svc.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Follow(ctx, alice.ID, "carol")
	require.NoError(t, err)

	var delivered []string
	calls := 0
	sender := func(ctx context.Context, ob *model.SocialOutbox) error {
		calls++
		if calls == 1 {
			return errors.New("broker down")
		}
		delivered = append(delivered, ob.Payload)
		return nil
	}

	relayer := service.NewOutboxRelayer(db, nil, sender, 10, time.Second)
	sent, failed := relayer.DrainOnce(ctx)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)

	// 失败的事件在下一轮重新投递
	sent, failed = relayer.DrainOnce(ctx)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, failed)
	assert.Len(t, delivered, 2)

	sent, failed = relayer.DrainOnce(ctx)
	assert.Zero(t, sent)
	assert.Zero(t, failed)

	var pending int64
	require.NoError(t, db.Model(&model.SocialOutbox{}).Where("status <> ?", model.OutboxSent).Count(&pending).Error)
	assert.Zero(t, pending)
}

func TestOutboxRelayerSkipsWhenLocked(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, rdb := testutil.NewTestRedis(t)
	svc := service.NewFollowService(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")
	_, err := svc.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)

	lock := &redis.DistLock{RDB: rdb, TTL: time.Minute}
	got, err := lock.Acquire(ctx, "outbox:relay", "other-instance")
	require.NoError(t, err)
	require.True(t, got)

	relayer := service.NewOutboxRelayer(db, lock, service.LogSender, 10, time.Second)
	sent, failed := relayer.DrainOnce(ctx)
	assert.Zero(t, sent)
	assert.Zero(t, failed)

	require.NoError(t, lock.Release(ctx, "outbox:relay", "other-instance"))
	sent, _ = relayer.DrainOnce(ctx)
	assert.Equal(t, 1, sent)
}
