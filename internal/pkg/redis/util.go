package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript("if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end")

// TryLock SETNX 加锁，retryTimes 为 -1 时一直重试
func TryLock(ctx context.Context, rdb redis.Cmdable, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

// UnLock 释放锁，只删除自己持有的锁
func UnLock(ctx context.Context, rdb redis.Scripter, key string, value interface{}) error {
	return unlockScript.Run(ctx, rdb, []string{key}, value).Err()
}
