// Package pubsub fans record changes out to change-stream subscribers,
// optionally across instances through Redis.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/sse"
	"github.com/redis/go-redis/v9"
)

// Collections
const (
	CollectionUsers      = "users"
	CollectionAttendance = "attendance"
	CollectionLeaves     = "leave_requests"
	CollectionTasks      = "tasks"
)

// Actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventChange is the SSE event name for a Change.
const EventChange = "change"

// Change describes a successful write. Clients recompute their views on receipt.
type Change struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"` // owner of the record
	At         time.Time `json:"at"`
}

func NewChange(collection, action, id, userID string) Change {
	return Change{
		Collection: collection,
		Action:     action,
		ID:         id,
		UserID:     userID,
		At:         time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// HubPublisher delivers changes straight to the in-process hub.
type HubPublisher struct {
	hub *sse.Hub
}

func NewHubPublisher(hub *sse.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, change Change) error {
	p.hub.Broadcast(sse.Event{Event: EventChange, Data: change})
	return nil
}

// RedisPublisher publishes changes to a Redis channel; every instance runs a
// Relay that forwards them to its own hub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// Relay forwards changes from the Redis channel into hub until ctx is done.
func Relay(ctx context.Context, client *redis.Client, channel string, hub *sse.Hub) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", channel, err)
	}
	slog.Info("Change relay subscribed", "channel", channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			change, err := decodeChange(msg.Payload)
			if err != nil {
				slog.Warn("Dropping unreadable change message", "channel", channel, "error", err)
				continue
			}
			hub.Broadcast(sse.Event{Event: EventChange, Data: change})
		}
	}
}

func decodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, fmt.Errorf("unmarshal change: %w", err)
	}
	if change.Collection == "" || change.Action == "" {
		return Change{}, fmt.Errorf("change is missing collection or action")
	}
	return change, nil
}

// NewRedisClient returns a client that answered a ping.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Notify publishes change and logs a failure instead of returning it; a
// write that already succeeded must not fail because of its notification.
func Notify(ctx context.Context, p Publisher, change Change) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, change); err != nil {
		slog.Error("Failed to publish change",
			"collection", change.Collection,
			"action", change.Action,
			"id", change.ID,
			"error", err,
		)
	}
}
