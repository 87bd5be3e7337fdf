package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrVersionBump      = errors.New("session version bump failed")
)

const (
	UserTokenPrefix = "login:user:token"
	UserTokenExpire = 30 * time.Minute

	// 会话版本号：退出或改密时自增，旧版本签发的 refresh 一律失效
	UserVersionPrefix = "login:user:ver"
)

// UserRepository 登录态 token，每个用户只保留最近一次登录
type UserRepository struct {
	RDB *redis.Client
}

func (r *UserRepository) key(usrID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
}

func (r *UserRepository) AddUserToken(ctx context.Context, usrID uint64, token string) error {
	if err := r.RDB.Set(ctx, r.key(usrID), token, UserTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *UserRepository) GetUserToken(ctx context.Context, usrID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.key(usrID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *UserRepository) ExtendUserToken(ctx context.Context, usrID uint64) error {
	if err := r.RDB.Expire(ctx, r.key(usrID), UserTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}


// SessionVersion 当前会话版本，从未自增过为 0
func (r *UserRepository) SessionVersion(ctx context.Context, usrID uint64) (int64, error) {
	ver, err := r.RDB.Get(ctx, fmt.Sprintf("%s:%d", UserVersionPrefix, usrID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, ErrRedisUnavailable
	}
	return ver, nil
}

// RevokeSessions 删除 access 并让已签发的 refresh 全部作废
func (r *UserRepository) RevokeSessions(ctx context.Context, usrID uint64) error {
	_, err := r.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, fmt.Sprintf("%s:%d", UserVersionPrefix, usrID))
		pipe.Del(ctx, r.key(usrID))
		return nil
	})
	if err != nil {
		return ErrVersionBump
	}
	return nil
}
