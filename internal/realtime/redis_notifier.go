package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangeChannel is the Redis pub/sub channel carrying collection change signals.
const ChangeChannel = "registrations:changed"

const publishTimeout = 5 * time.Second

type changeEvent struct {
	Source string `json:"source"`
	At     int64  `json:"at"`
}

// RedisNotifier shares change signals across instances through Redis pub/sub.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	source  string
	logger  *zap.Logger
}

// NewRedisNotifier creates a notifier on ChangeChannel.
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, channel: ChangeChannel, source: uuid.NewString(), logger: logger}
}

// Publish announces a change to every subscribed instance, this one included.
func (r *RedisNotifier) Publish(ctx context.Context) error {
	body, err := json.Marshal(changeEvent{Source: r.source, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// Subscribe listens on the channel until ctx ends.
func (r *RedisNotifier) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	out := make(chan struct{}, 1)
	messages := pubsub.Channel()
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var evt changeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					r.logger.Debug("ignoring malformed change event", zap.Error(err))
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
