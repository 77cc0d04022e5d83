package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when it is still held by the
// token that acquired it, so an expired holder cannot release a lock
// another instance has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LeaderLock is a best-effort distributed lock over redis SET NX PX.
// One sweeper instance wins each sweep; the TTL bounds how long a
// crashed holder blocks the others.
type LeaderLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewLeaderLock creates a lock on the given key.
func NewLeaderLock(client *redis.Client, key string, ttl time.Duration) *LeaderLock {
	return &LeaderLock{client: client, key: key, ttl: ttl}
}

// TryAcquire attempts to take the lock without blocking.
func (l *LeaderLock) TryAcquire(ctx context.Context) (bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release gives up the lock if this instance still holds it.
func (l *LeaderLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
	l.token = ""
	if err == redis.Nil {
		return nil
	}
	return err
}
