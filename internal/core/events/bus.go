// Package events is the in-process publish/subscribe fabric. Handlers run in
// the same process; nothing leaves the node.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Domain event names.
const (
	TaskCreated        = "task.created"
	TaskStatusChanged  = "task.status_changed"
	ProjectMemberAdded = "project.member_added"
)

// Event is the envelope every publication uses. RecipientID names the user
// the event is about (assignee, added member), which subscribers use to look
// up notification preferences; it may be empty.
type Event struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	ActorID     string         `json:"actor_id"`
	RecipientID string         `json:"recipient_id,omitempty"`
	Data        map[string]any `json:"data"`
}

func New(eventType, actorID, recipientID string, data map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ActorID:     actorID,
		RecipientID: recipientID,
		Data:        data,
	}
}

// Publisher is the narrow surface services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Handler func(ctx context.Context, event Event) error

type Bus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Info("event handler registered",
		"event_type", eventType,
		"total_handlers", len(b.handlers[eventType]))
}

// Publish dispatches asynchronously. Handler errors are logged, never
// propagated; a failing subscriber cannot fail the request that emitted the
// event.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event type", "event_type", event.Type)
		return
	}

	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				b.logger.Error("event handler failed",
					"event_type", event.Type,
					"event_id", event.ID,
					"error", err)
			}
		}(handler)
	}
}

// PublishSync runs handlers in order and stops at the first failure. Used by
// tests and by the seeder, where ordering matters.
func (b *Bus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"event_type", event.Type,
				"event_id", event.ID,
				"error", err)
			return fmt.Errorf("handler failed for event %s: %w", event.Type, err)
		}
	}
	return nil
}
