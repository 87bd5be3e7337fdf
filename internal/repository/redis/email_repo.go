package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code"

	// 两阶段键
	PendingSuffix   = "pending"
	ConfirmedSuffix = "confirmed"
	AttemptsSuffix  = "attempts"
)

var (
	ErrEmailNotFound       = errors.New("email code not found")
	ErrEmailCodeDelFailed  = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
	ErrAttemptsFailed      = errors.New("code attempts update failed")
)

// 取值+写入目标+设置 TTL+删除源，原子执行
var confirmScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1], KEYS[3])
return 1
`)

// EmailRepository 邮件验证码，scope 区分用途（如 reset）
type EmailRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func (e *EmailRepository) ttl() time.Duration {
	if e.TTL > 0 {
		return e.TTL
	}
	return DefaultEmailCodeTTL
}

func (e *EmailRepository) key(scope, stage, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, stage, email)
}

// SavePending 发信前先写 pending 键
func (e *EmailRepository) SavePending(ctx context.Context, scope, email, code string) error {
	if err := e.RDB.Set(ctx, e.key(scope, PendingSuffix, email), code, e.ttl()).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// Confirm 邮件发出后将 pending 转为 confirmed（重置 TTL），新验证码的错误次数清零
func (e *EmailRepository) Confirm(ctx context.Context, scope, email string) error {
	src := e.key(scope, PendingSuffix, email)
	dst := e.key(scope, ConfirmedSuffix, email)
	attempts := e.key(scope, AttemptsSuffix, email)
	px := int64(e.ttl() / time.Millisecond)
	ok, err := confirmScript.Run(ctx, e.RDB, []string{src, dst, attempts}, px).Int()
	if err != nil || ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

// DeletePending 删除 pending 键（幂等）
func (e *EmailRepository) DeletePending(ctx context.Context, scope, email string) error {
	if err := e.RDB.Del(ctx, e.key(scope, PendingSuffix, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

// GetConfirmed verify时用
func (e *EmailRepository) GetConfirmed(ctx context.Context, scope, email string) (string, error) {
	val, err := e.RDB.Get(ctx, e.key(scope, ConfirmedSuffix, email)).Result()
	if err != nil {
		return "", ErrEmailNotFound
	}
	return val, nil
}

// DeleteConfirmed 验证码作废，同时清掉错误次数
func (e *EmailRepository) DeleteConfirmed(ctx context.Context, scope, email string) error {
	if err := e.RDB.Del(ctx, e.key(scope, ConfirmedSuffix, email), e.key(scope, AttemptsSuffix, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

// IncrAttempts 记录一次错误校验，返回当前验证码累计错误次数
func (e *EmailRepository) IncrAttempts(ctx context.Context, scope, email string) (int64, error) {
	key := e.key(scope, AttemptsSuffix, email)
	var incr *redis.IntCmd
	_, err := e.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, e.ttl())
		return nil
	})
	if err != nil {
		return 0, ErrAttemptsFailed
	}
	return incr.Val(), nil
}
