package eventbus

import (
	"ContinuingEducation/internal/core/ports"
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// inMemoryEventBus implements the ports.EventBus interface
type inMemoryEventBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(baseLogger *zerolog.Logger) ports.EventBus {
	return &inMemoryEventBus{
		log:         baseLogger.With().Str("component", "in_memory_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish hands the event to every subscriber of topic, each in its own
// goroutine. Handlers get a fresh context so they outlive the publisher's request.
func (b *inMemoryEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}
	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h ports.EventHandler) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error().Interface("panic", r).Str("topic", topic).Msg("Event handler panicked")
				}
			}()
			if err := h(context.Background(), event); err != nil {
				b.log.Error().Err(err).Str("topic", topic).Msg("Event handler failed")
			}
		}(handler)
	}

	b.log.Info().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

// Subscribe registers a handler for a specific topic
func (b *inMemoryEventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("New handler subscribed to topic")
}

// Wait blocks until every handler started so far has returned.
func (b *inMemoryEventBus) Wait() {
	b.inflight.Wait()
}
