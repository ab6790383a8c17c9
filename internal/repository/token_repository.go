package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisapp "rental_showcase/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	return r.Client.Set(ctx, refreshTokenKey(userID, token), "1", exp).Err()
}

func (r *RedisTokenRepo) GetRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	val, err := r.Client.Get(ctx, refreshTokenKey(userID, token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

func (r *RedisTokenRepo) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	return r.Client.Del(ctx, refreshTokenKey(userID, token)).Err()
}

// DeleteAllUserTokens отзывает все refresh-токены пользователя (logout со всех устройств)
func (r *RedisTokenRepo) DeleteAllUserTokens(ctx context.Context, userID string) error {
	const op = "repository.token_repository.DeleteAllUserTokens"

	var cursor uint64
	for {
		keys, next, err := r.Client.Scan(ctx, cursor, refreshTokenKey(userID, "*"), 100).Result()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if len(keys) > 0 {
			if err := r.Client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func refreshTokenKey(userID, token string) string {
	return "refresh:" + userID + ":" + token
}
