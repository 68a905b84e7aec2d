package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps settings in redis under a namespace prefix, for
// deployments where the tool runs behind more than one instance.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisStore(namespace string, client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.namespace+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("settings: redis get: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.namespace+":"+key, value, 0).Err(); err != nil {
		return fmt.Errorf("settings: redis set: %w", err)
	}
	return nil
}

// DialRedis builds and pings a single-node client. Addrs are tried in order;
// the first reachable node wins.
type RedisOptions struct {
	Addrs        []string
	Password     string
	DatabaseID   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DialRedis(ctx context.Context, opts RedisOptions) (redis.UniversalClient, error) {
	stickyErr := errors.New("settings: no redis nodes defined")

	for _, addr := range opts.Addrs {
		cl := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     opts.Password,
			DB:           opts.DatabaseID,
			DialTimeout:  opts.DialTimeout,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := cl.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			stickyErr = fmt.Errorf("settings: ping redis %s: %w", addr, err)
			_ = cl.Close()
			continue
		}
		return cl, nil
	}

	return nil, stickyErr
}
