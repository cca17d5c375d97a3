// Package notifications provides real-time notification delivery.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"

	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event is the JSON envelope pushed to subscribers.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Event types.
const (
	EventNotification = "notification"
	EventChatMessage  = "chat_message"
)

// Notifier publishes notification events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an event to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		observability.NotificationsPublished.WithLabelValues("error").Inc()
		return err
	}
	observability.NotificationsPublished.WithLabelValues("ok").Inc()
	return nil
}

// SubscribeUser delivers every payload published to the user's channel to
// onMessage until ctx is cancelled or the returned stop func is called.
// stop blocks until onMessage can no longer be invoked.
func (n *Notifier) SubscribeUser(ctx context.Context, userID uint, onMessage func(payload string)) (stop func(), err error) {
	if n == nil || n.rdb == nil {
		return nil, fmt.Errorf("realtime notifications unavailable")
	}
	sub := n.rdb.Subscribe(ctx, UserChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-quit:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.Logger.Error("panic in notification subscriber",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() { close(quit) })
		<-done
	}
	return stop, nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
