package lock

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// redisLocker implements Locker on top of SET NX with a TTL.
type redisLocker struct {
	client *goredis.Client
	token  string
}

// New returns a redis-backed Locker. The token identifies this process so
// that only the holder's release deletes the key.
func New(client *goredis.Client, token string) Locker {
	return &redisLocker{client: client, token: token}
}

// releaseScript deletes the key only when it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	ok, err := l.client.SetNX(ctx, key, l.token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	release := func() {
		// Best effort: the TTL is the backstop if this fails.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, l.token).Err()
	}
	return release, nil
}
