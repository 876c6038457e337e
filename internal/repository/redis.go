package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"haggle-shop/internal/model"
)

const redisKeyPrefix = "haggle:save:"

// RedisRepository stores saves as plain string keys.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository connects to Redis at addr.
func NewRedisRepository(addr, password string, db int) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: client}
}

// Ping checks the connection.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func redisKey(slot string) string {
	return redisKeyPrefix + slot
}

// Save stores the save of slot without expiry.
func (r *RedisRepository) Save(ctx context.Context, slot string, state *model.PlayerState) error {
	blob, err := Encode(slot, state, time.Now())
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(slot), blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}

// Load reads and decodes the save of slot.
func (r *RedisRepository) Load(ctx context.Context, slot string) (*model.SaveData, error) {
	val, err := r.client.Get(ctx, redisKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return Decode(val)
}

// Exists reports whether slot holds a save.
func (r *RedisRepository) Exists(ctx context.Context, slot string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKey(slot)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check slot %q: %w", slot, err)
	}
	return n > 0, nil
}

// Close closes the client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
