package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL          = 30 * time.Second
	defaultRetryBackoff = 50 * time.Millisecond
)

var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// Locker serializes work on a key across processes with a Redis SET NX token.
type Locker struct {
	client       redis.Cmdable
	ttl          time.Duration
	retryBackoff time.Duration
}

type Option func(*Locker)

func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryBackoff(backoff time.Duration) Option {
	return func(l *Locker) {
		if backoff > 0 {
			l.retryBackoff = backoff
		}
	}
}

func New(client redis.Cmdable, opts ...Option) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}

	l := &Locker{
		client:       client,
		ttl:          defaultTTL,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// CartKey is the lock key of the cart owned by owner.
func CartKey(owner domain.Owner) string {
	return fmt.Sprintf("cart-lock:%s:%s", owner.Kind, owner.ID)
}

// WithLock runs fn while holding the lock for key. It waits until the lock is free
// or ctx is done. The lock is released even when fn fails; a lock outliving its TTL
// is never released on behalf of another holder.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("callback is nil")
	}

	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("client.SetNX[%s]: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("acquire[%s]: %w", key, ctx.Err())
		case <-timer.C:
		}
	}

	fnErr := fn(ctx)

	if err := l.release(context.WithoutCancel(ctx), key, token); err != nil {
		return errors.Join(fnErr, err)
	}

	return fnErr
}

func (l *Locker) release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release[%s]: %w", key, err)
	}
	return nil
}
