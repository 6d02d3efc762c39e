package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a login session hash lives in Redis.
const SessionTTL = 24 * time.Hour

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func SessionKey(userID string) string {
	return "user:session:" + userID
}

// SaveSession writes fields into the user's session hash and refreshes its TTL.
func SaveSession(ctx context.Context, rdb *redis.Client, userID string, fields map[string]any) error {
	key := SessionKey(userID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, SessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateSession changes fields of an existing session without touching its TTL.
func UpdateSession(ctx context.Context, rdb *redis.Client, userID string, fields map[string]any) error {
	key := SessionKey(userID)
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	return rdb.HSet(ctx, key, fields).Err()
}

func GetSession(ctx context.Context, rdb *redis.Client, userID string) (map[string]string, error) {
	return rdb.HGetAll(ctx, SessionKey(userID)).Result()
}

func DeleteSession(ctx context.Context, rdb *redis.Client, userID string) error {
	return rdb.Del(ctx, SessionKey(userID)).Err()
}
