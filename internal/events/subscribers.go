package events

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/notify-admin-api/internal/models"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// RedisForwarder relays published announcements onto a Redis channel for
// the console's delivery workers.
type RedisForwarder struct {
	client  redisPublisher
	channel string
}

// NewRedisForwarder constructs a forwarder bound to channel.
func NewRedisForwarder(client redisPublisher, channel string) *RedisForwarder {
	return &RedisForwarder{client: client, channel: channel}
}

// Handle publishes the JSON encoded event.
func (f *RedisForwarder) Handle(ctx context.Context, event models.AnnouncementPublishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal announcement event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", f.channel, err)
	}
	return nil
}

// LogSubscriber records every published announcement.
func LogSubscriber(logger *zap.Logger) Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(_ context.Context, event models.AnnouncementPublishedEvent) error {
		logger.Info("announcement published",
			zap.String("event_id", event.EventID),
			zap.Int64("announcement_id", event.Announcement.ID),
			zap.String("title", event.Announcement.Title),
			zap.Int("recipient_filter_type", int(event.Announcement.RecipientFilterType)),
			zap.Time("published_at", event.PublishedAt),
		)
		return nil
	}
}
