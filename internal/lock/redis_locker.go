package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix    = "consultation:slot-lock:"
	redisPollInterval = 25 * time.Millisecond
)

// Удаляем ключ только если он всё ещё наш
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокировка между процессами на SET NX PX.
// TTL страхует от падения держателя, он должен быть больше времени записи бронирования.
// Внутри процесса ожидающие сначала встают в очередь KeyedMutex, поэтому порядок прихода
// сохраняется; между процессами порядок определяется опросом и не гарантируется.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	local  *KeyedMutex
	logger *zap.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, local: NewKeyedMutex(), logger: logger}
}

// Lock занимает ключ в очереди процесса, затем опрашивает Redis пока ключ не освободится
// или не истечёт контекст
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	unlockRemote, err := l.acquire(ctx, key)
	if err != nil {
		unlockLocal()
		return nil, err
	}

	return func() {
		unlockRemote()
		unlockLocal()
	}, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	backoff := retry.NewConstant(redisPollInterval)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire redis lock: %w", err)
		}
		if !ok {
			return retry.RetryableError(ErrNotAcquired)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		// Контекст запроса может быть уже отменён, освобождаем независимо от него
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("Failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
