package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/notify-admin-api/internal/models"
)

func sampleEvent(id int64) models.AnnouncementPublishedEvent {
	return models.AnnouncementPublishedEvent{
		EventID:      "evt-1",
		Announcement: models.Announcement{ID: id, Title: "Maintenance", Status: models.AnnouncementStatusPublished},
		PublishedAt:  time.Now().UTC(),
	}
}

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(Config{Workers: 2, RetryDelay: time.Millisecond})
	var mu sync.Mutex
	got := map[string]int64{}
	for _, name := range []string{"a", "b"} {
		name := name
		bus.Subscribe(name, func(_ context.Context, e models.AnnouncementPublishedEvent) error {
			mu.Lock()
			defer mu.Unlock()
			got[name] = e.Announcement.ID
			return nil
		})
	}
	bus.Start(context.Background())

	require.NoError(t, bus.Publish(context.Background(), sampleEvent(7)))
	require.NoError(t, bus.Stop(context.Background()))

	assert.Equal(t, map[string]int64{"a": 7, "b": 7}, got)
}

func TestBusRetriesFailedDelivery(t *testing.T) {
	bus := NewBus(Config{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond, Logger: zap.NewNop()})
	var calls int32
	bus.Subscribe("flaky", func(context.Context, models.AnnouncementPublishedEvent) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	bus.Start(context.Background())

	require.NoError(t, bus.Publish(context.Background(), sampleEvent(1)))
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestBusGivesUpAfterMaxRetries(t *testing.T) {
	bus := NewBus(Config{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond})
	var calls int32
	bus.Subscribe("broken", func(context.Context, models.AnnouncementPublishedEvent) error {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	})
	bus.Start(context.Background())

	require.NoError(t, bus.Publish(context.Background(), sampleEvent(1)))
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBusRejectsWhenNotRunning(t *testing.T) {
	bus := NewBus(Config{})
	assert.ErrorIs(t, bus.Publish(context.Background(), sampleEvent(1)), ErrBusClosed)

	bus.Start(context.Background())
	require.NoError(t, bus.Stop(context.Background()))
	assert.ErrorIs(t, bus.Publish(context.Background(), sampleEvent(1)), ErrBusClosed)
}

func TestBusStopHonoursDeadline(t *testing.T) {
	bus := NewBus(Config{Workers: 1})
	release := make(chan struct{})
	bus.Subscribe("slow", func(ctx context.Context, _ models.AnnouncementPublishedEvent) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})
	bus.Start(context.Background())
	require.NoError(t, bus.Publish(context.Background(), sampleEvent(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Stop(ctx)
	close(release)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakeRedis struct {
	channel string
	message interface{}
	err     error
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message interface{}) *goredis.IntCmd {
	f.channel = channel
	f.message = message
	return goredis.NewIntResult(1, f.err)
}

func TestRedisForwarderPublishesJSON(t *testing.T) {
	client := &fakeRedis{}
	forwarder := NewRedisForwarder(client, "notify:announcement:published")

	require.NoError(t, forwarder.Handle(context.Background(), sampleEvent(12)))
	assert.Equal(t, "notify:announcement:published", client.channel)

	payload, ok := client.message.([]byte)
	require.True(t, ok)
	var decoded models.AnnouncementPublishedEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, int64(12), decoded.Announcement.ID)
	assert.Equal(t, models.AnnouncementStatusPublished, decoded.Announcement.Status)
}

func TestRedisForwarderWrapsError(t *testing.T) {
	forwarder := NewRedisForwarder(&fakeRedis{err: errors.New("conn refused")}, "ch")
	err := forwarder.Handle(context.Background(), sampleEvent(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish ch")
}

func TestLogSubscriberNeverFails(t *testing.T) {
	assert.NoError(t, LogSubscriber(nil)(context.Background(), sampleEvent(1)))
}
