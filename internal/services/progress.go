package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studycoach-backend/internal/models"
)

// Publisher delivers progress events to a session's listeners.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// SessionChannel is the Redis pub/sub channel for a session.
func SessionChannel(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

type RedisPublisher struct {
	redis *redis.Client
}

func NewRedisPublisher(redisClient *redis.Client) *RedisPublisher {
	return &RedisPublisher{redis: redisClient}
}

// Publish sends a WebSocket update via Redis pub/sub
func (p *RedisPublisher) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[progress] failed to encode %s event: %v", msg.Type, err)
		return
	}
	if err := p.redis.Publish(ctx, SessionChannel(sessionID), string(data)).Err(); err != nil {
		log.Printf("[progress] failed to publish %s event for session %s: %v", msg.Type, sessionID, err)
	}
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, models.WSMessage) {}

// ProgressReporter adapts a Publisher to a ProgressFunc for one session.
func ProgressReporter(ctx context.Context, pub Publisher, sessionID uuid.UUID, jobID *uuid.UUID) ProgressFunc {
	return func(step int, stepName string) {
		pub.Publish(ctx, sessionID, models.WSMessage{
			Type: "status_update",
			Payload: models.StatusUpdate{
				JobID:    jobID,
				Step:     step,
				StepName: stepName,
			},
		})
	}
}
