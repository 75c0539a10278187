package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// RedisSink publishes each event to a per-run pub/sub channel so external
// observers can follow progress without holding a connection to this process.
type RedisSink struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisSink(client *redis.Client, logger *zap.Logger) *RedisSink {
	return &RedisSink{client: client, logger: logger}
}

// Channel returns the pub/sub channel name for a run.
func Channel(runID string) string {
	return "hireflow:events:" + runID
}

// Publish sends the event to the run's channel. Delivery is best effort:
// a redis failure is logged and must not disturb the pipeline.
func (s *RedisSink) Publish(runID string, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("marshal event for redis", zap.Error(err))
		return
	}

	if err := s.client.Publish(ctx, Channel(runID), payload).Err(); err != nil {
		s.logger.Warn("publish event to redis",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
}
