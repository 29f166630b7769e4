package lease

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/scan"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL 租約有效期；持有期間每 TTL/3 續約一次
const DefaultTTL = 30 * time.Second

// 只有持有者（token 相符）可以刪除或續約
var (
	releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0`)

	refreshScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0`)
)

// RedisLease 多個服務實例共用的攝影機租約
//
// Acquire 使用 SET NX PX；release 以 compare-and-delete 腳本執行，
// 不會刪掉其他實例在租約過期後取得的 key
type RedisLease struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewRedisLease ttl <= 0 時使用 DefaultTTL
func NewRedisLease(client redis.UniversalClient, ttl time.Duration) *RedisLease {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLease{
		client: client,
		ttl:    ttl,
		prefix: "greenevents:camera:",
		logger: slog.Default(),
	}
}

// Acquire 取得裝置租約；已被占用時返回包裝 scan.ErrCameraUnavailable 的錯誤
func (l *RedisLease) Acquire(ctx context.Context, device string) (func(), error) {
	key := l.prefix + device
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire lease for %q: %w", device, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: device %q is in use", scan.ErrCameraUnavailable, device)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepAlive(key, token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release camera lease", "device", device, "error", err)
			}
		})
	}, nil
}

func (l *RedisLease) keepAlive(key, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
			n, err := refreshScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				l.logger.Warn("failed to refresh camera lease", "key", key, "error", err)
				continue
			}
			if n == 0 {
				l.logger.Warn("camera lease lost", "key", key)
				return
			}
		}
	}
}

// NewRedisClient 建立並 ping Redis 客戶端
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s failed: %w", addr, err)
	}
	return client, nil
}
