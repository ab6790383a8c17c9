package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental_showcase/internal/storage"
	redisapp "rental_showcase/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisUploadSlotRepo struct {
	Client *redisapp.Client
}

func NewRedisUploadSlotRepo(client *redisapp.Client) *RedisUploadSlotRepo {
	return &RedisUploadSlotRepo{Client: client}
}

// SaveSlot запоминает, кому выдан слот; слот живёт ttl
func (r *RedisUploadSlotRepo) SaveSlot(ctx context.Context, objectID, userID uuid.UUID, ttl time.Duration) error {
	const op = "repository.upload_slot_repository.SaveSlot"

	ok, err := r.Client.SetNX(ctx, uploadSlotKey(objectID), userID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%s: slot %s already issued", op, objectID)
	}

	return nil
}

// ConsumeSlot атомарно забирает слот и возвращает владельца.
// Повторное использование и истёкший слот дают storage.ErrSlotExpired.
func (r *RedisUploadSlotRepo) ConsumeSlot(ctx context.Context, objectID uuid.UUID) (uuid.UUID, error) {
	const op = "repository.upload_slot_repository.ConsumeSlot"

	val, err := r.Client.GetDel(ctx, uploadSlotKey(objectID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrSlotExpired)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}

	owner, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: corrupted slot owner %q: %w", op, val, err)
	}

	return owner, nil
}

func uploadSlotKey(objectID uuid.UUID) string {
	return "upload_slot:" + objectID.String()
}
