package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const PageCachePrefix = "page:cache"

// PageCache 整页缓存，只靠 TTL 过期，写操作不做失效
type PageCache struct {
	RDB *redis.Client
}

func (p *PageCache) key(k string) string {
	return PageCachePrefix + ":" + k
}

// Get 返回缓存内容；未命中时 ok=false
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.RDB.Get(ctx, p.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *PageCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	return p.RDB.Set(ctx, p.key(key), body, ttl).Err()
}

// Clear 运维用：清空所有页面缓存
func (p *PageCache) Clear(ctx context.Context) error {
	iter := p.RDB.Scan(ctx, 0, PageCachePrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := p.RDB.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
