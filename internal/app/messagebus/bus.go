package messagebus

import (
	"log/slog"
	"sync"

	"github.com/burenotti/go_training_backend/internal/domain"
)

type EventHandler func(event domain.Event) error

// MessageBus dispatches committed domain events to handlers registered by
// event type. Handlers run concurrently and never affect the publisher.
type MessageBus struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	wg       sync.WaitGroup
}

func New(logger *slog.Logger) *MessageBus {
	return &MessageBus{
		logger:   logger,
		handlers: make(map[string][]EventHandler),
	}
}

func (b *MessageBus) Register(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// RegisterAll subscribes handler to every listed event type.
func (b *MessageBus) RegisterAll(handler EventHandler, eventTypes ...string) {
	for _, t := range eventTypes {
		b.Register(t, handler)
	}
}

func (b *MessageBus) PublishEvents(events ...domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		for _, handler := range b.handlers[event.Type()] {
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				if err := handler(event); err != nil {
					b.logger.Error("failed to handle event", "type", event.Type(), "err", err)
				}
			}()
		}
	}
	return nil
}

// Close waits for running handlers.
func (b *MessageBus) Close() {
	b.wg.Wait()
}
