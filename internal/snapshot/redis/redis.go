package redis

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"lapakpos/backend/internal/snapshot"
	"lapakpos/backend/internal/state"
)

const defaultKey = "lapakpos:snapshot"

// Gate persists the snapshot blob under a single Redis key.
type Gate struct {
	client *redis.Client
	key    string
}

func New(addr string, password string, db int, key string) *Gate {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if key == "" {
		key = defaultKey
	}
	return &Gate{client: client, key: key}
}

func (g *Gate) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *Gate) Close() error {
	return g.client.Close()
}

func (g *Gate) Load(ctx context.Context) (*state.State, error) {
	val, err := g.client.Get(ctx, g.key).Bytes()
	if err == redis.Nil {
		return nil, snapshot.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(val)
}

func (g *Gate) Save(ctx context.Context, s *state.State) error {
	payload, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	// No TTL: the snapshot is the durable copy, not a cache.
	return g.client.Set(ctx, g.key, payload, 0).Err()
}
