package service

import (
	"context"
	"time"

	"yatube/internal/model"
	"yatube/internal/observability"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService struct {
	repo  *mysql.FollowRepository
	users *mysql.UserRepository
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		repo:  &mysql.FollowRepository{DB: db},
		users: &mysql.UserRepository{DB: db},
	}
}

func (s *FollowService) author(ctx context.Context, username string) (*model.User, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	return author, nil
}

// Follow 关注作者；重复关注不产生新记录，关注自己直接忽略
func (s *FollowService) Follow(ctx context.Context, userID uint64, username string) (bool, error) {
	if userID == 0 {
		return false, model.NewUnauthorizedError("login required")
	}
	author, err := s.author(ctx, username)
	if err != nil {
		return false, err
	}
	if author.ID == userID {
		return false, nil
	}
	return s.repo.Follow(ctx, userID, author.ID)
}

// Unfollow 取消关注；本来没有关注时同样返回成功
func (s *FollowService) Unfollow(ctx context.Context, userID uint64, username string) (bool, error) {
	if userID == 0 {
		return false, model.NewUnauthorizedError("login required")
	}
	author, err := s.author(ctx, username)
	if err != nil {
		return false, err
	}
	return s.repo.Unfollow(ctx, userID, author.ID)
}

// IsFollowing 匿名用户恒为 false
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint64) (bool, error) {
	if userID == 0 || authorID == 0 {
		return false, nil
	}
	return s.repo.IsFollowing(ctx, userID, authorID)
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

const outboxLockName = "outbox:relay"

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	lock      *redis.DistLock
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
}

// NewOutboxRelayer lock 为 nil 时不做多实例互斥
func NewOutboxRelayer(db *gorm.DB, lock *redis.DistLock, sender Sender, batchSize int, interval time.Duration) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		lock:      lock,
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  5,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 从数据库读取待发送事件逐条交给 sender，返回成功和失败的条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) (sent, failed int) {
	if r.lock != nil {
		token := uuid.NewString()
		got, err := r.lock.Acquire(ctx, outboxLockName, token)
		if err != nil || !got {
			return 0, 0
		}
		defer func() {
			if err := r.lock.Release(context.WithoutCancel(ctx), outboxLockName, token); err != nil {
				observability.Logger.WarnContext(ctx, "outbox lock release failed", "error", err)
			}
		}()
	}

	if _, err := r.repo.Requeue(ctx, r.maxRetry); err != nil {
		observability.Logger.ErrorContext(ctx, "outbox requeue failed", "error", err)
	}
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		observability.Logger.ErrorContext(ctx, "outbox query failed", "error", err)
		return 0, 0
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			observability.Logger.WarnContext(ctx, "outbox send failed", "id", ob.ID, "retry", ob.Retry, "error", err)
			observability.OutboxEvents.WithLabelValues("failed").Inc()
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				observability.Logger.ErrorContext(ctx, "outbox retry update failed", "id", ob.ID, "error", err)
			}
			failed++
			continue
		}
		observability.OutboxEvents.WithLabelValues("sent").Inc()
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			observability.Logger.ErrorContext(ctx, "outbox success update failed", "id", ob.ID, "error", err)
		}
		sent++
	}
	return sent, failed
}

// LogSender 没有配置 kafka 时使用：只打印事件
func LogSender(ctx context.Context, ob *model.SocialOutbox) error {
	observability.Logger.InfoContext(ctx, "outbox event",
		"type", ob.EventType, "follower", ob.Follower, "followee", ob.Followee, "payload", ob.Payload)
	return nil
}

// KafkaSender 按关注者 id 分区投递
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Publish(ctx, pkg.Event{PartitionID: ob.Follower, Type: ob.EventType, Payload: []byte(ob.Payload)})
	}
}
