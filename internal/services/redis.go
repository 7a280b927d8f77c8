package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetScootyAvailability caches a scooty's availability flag so booking
// creation can reject unavailable units without touching Postgres.
func SetScootyAvailability(ctx context.Context, scootyID uint, available bool) error {
	if RedisClient == nil {
		return nil // cache disabled
	}
	key := fmt.Sprintf("scooty:availability:%d", scootyID)
	value := "true"
	if !available {
		value = "false"
	}
	return RedisClient.Set(ctx, key, value, time.Hour).Err()
}

// GetScootyAvailability retrieves a cached availability flag. The second
// return value reports a cache hit; on a miss callers fall back to the DB.
func GetScootyAvailability(ctx context.Context, scootyID uint) (bool, bool, error) {
	if RedisClient == nil {
		return false, false, nil
	}
	key := fmt.Sprintf("scooty:availability:%d", scootyID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return result == "true", true, nil
}

// PublishBookingUpdate publishes a booking workflow event to Redis pub/sub
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", jsonData).Err()
}

// PublishChatMessage publishes a chat append to Redis pub/sub so other API
// instances can fan it out to their own websocket clients.
func PublishChatMessage(ctx context.Context, bookingID uint, messageID uint) error {
	if RedisClient == nil {
		return nil
	}
	payload := map[string]interface{}{
		"bookingId": bookingID,
		"messageId": messageID,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "chat:messages", jsonData).Err()
}
