package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const LockKeyPrefix = "lock:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// DistLock 基于 SETNX 的分布式锁，多实例部署时保证后台任务只有一个执行者
type DistLock struct {
	RDB *redis.Client
	TTL time.Duration
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, name, token string) (bool, error) {
	return l.RDB.SetNX(ctx, LockKeyPrefix+name, token, l.TTL).Result()
}

// Release 用lua保证原子性，只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, name, token string) error {
	return releaseScript.Run(ctx, l.RDB, []string{LockKeyPrefix + name}, token).Err()
}
