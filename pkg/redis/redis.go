package redis

import (
	"EllaBooking/internal/entity"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const statePrefix = "assistant:state:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IRedis interface {
	SaveState(ctx context.Context, sessionID string, state entity.ConversationState, ttl time.Duration) error
	// GetState reports found=false, with no error, when the key is missing or expired.
	GetState(ctx context.Context, sessionID string) (entity.ConversationState, bool, error)
	DeleteState(ctx context.Context, sessionID string) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewFromClient(client)
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func stateKey(sessionID string) string {
	return statePrefix + sessionID
}

func (r *redisClient) SaveState(ctx context.Context, sessionID string, state entity.ConversationState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}

	if err := r.client.Set(ctx, stateKey(sessionID), data, ttl).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Error saving conversation state")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"step":       state.CurrentStep.String(),
	}).Debug("Saved conversation state")
	return nil
}

func (r *redisClient) GetState(ctx context.Context, sessionID string) (entity.ConversationState, bool, error) {
	data, err := r.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.ConversationState{}, false, nil
	} else if err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Error loading conversation state")
		return entity.ConversationState{}, false, err
	}

	var state entity.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return entity.ConversationState{}, false, fmt.Errorf("unmarshal conversation state: %w", err)
	}

	return state, true, nil
}

func (r *redisClient) DeleteState(ctx context.Context, sessionID string) error {
	result, err := r.client.Del(ctx, stateKey(sessionID)).Result()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Error deleting conversation state")
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("State key for session %s not found for deletion", sessionID))
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
