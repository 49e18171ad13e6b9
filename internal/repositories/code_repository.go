package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound — ключа нет: либо не выдавался, либо TTL уже снёс его.
// Redis сам следит за сроком жизни, вручную метки времени не сверяем.
var ErrCodeNotFound = errors.New("code not found or expired")

func ImageKey(uuid string) string { return "img:" + uuid }
func SmsKey(mobile string) string { return "sms:" + mobile }

// CodeStore — TTL-хранилище кодов подтверждения (картинка и SMS).
type CodeStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type codeRepository struct {
	rdb *redis.Client
}

func NewCodeRepository(rdb *redis.Client) CodeStore {
	return &codeRepository{rdb: rdb}
}

func (r *codeRepository) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *codeRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *codeRepository) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
