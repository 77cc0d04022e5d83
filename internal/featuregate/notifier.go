package featuregate

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// DefaultReloadChannel is the redis pub/sub channel used to fan out
// flag reload notifications across instances.
const DefaultReloadChannel = "hostelpg:features:reload"

// ReloadNotifier publishes reload notifications so every instance
// re-reads the flag source, not just the one that handled the admin
// request.
type ReloadNotifier struct {
	client  *redis.Client
	channel string
}

// NewReloadNotifier creates a notifier on the given channel. An empty
// channel name selects DefaultReloadChannel.
func NewReloadNotifier(client *redis.Client, channel string) *ReloadNotifier {
	if channel == "" {
		channel = DefaultReloadChannel
	}
	return &ReloadNotifier{client: client, channel: channel}
}

// Notify publishes a reload message.
func (n *ReloadNotifier) Notify(ctx context.Context) error {
	return n.client.Publish(ctx, n.channel, "reload").Err()
}

// ReloadSubscriber listens for reload notifications and triggers a
// gate reload for each one.
type ReloadSubscriber struct {
	client  *redis.Client
	channel string
	gate    *Gate
	log     *logger.Logger
}

// NewReloadSubscriber creates a subscriber bound to a gate.
func NewReloadSubscriber(client *redis.Client, channel string, gate *Gate, log *logger.Logger) *ReloadSubscriber {
	if channel == "" {
		channel = DefaultReloadChannel
	}
	return &ReloadSubscriber{client: client, channel: channel, gate: gate, log: log}
}

// Start subscribes and reloads the gate on each notification until the
// context is cancelled. It blocks; run it in its own goroutine.
func (s *ReloadSubscriber) Start(ctx context.Context) {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	s.log.InfoContext(ctx, "feature flag reload subscriber started", zap.String("channel", s.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "feature flag reload subscriber stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.WarnContext(ctx, "feature flag reload channel closed")
				return
			}
			s.log.DebugContext(ctx, "feature flag reload notification received",
				zap.String("channel", msg.Channel))
			if err := s.gate.Reload(ctx); err != nil {
				// Reload already logged the failure and kept the old snapshot.
				continue
			}
		}
	}
}
