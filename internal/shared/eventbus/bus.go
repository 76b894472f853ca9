package eventbus

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cah-online/internal/shared/logger"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// Event represents something that happened to a session
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// Publisher is the side of the bus the use cases depend on
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Publisher
	Subscribe(eventType string, handler Handler)
	Unsubscribe(eventType string)
	SubscriberCount(eventType string) int
	EventTypes() []string
}

var _ EventBusInterface = (*EventBus)(nil)

// EventBus is an in-process, fan-out event bus
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   logger.Logger
	config   Config
}

// Config holds configuration for the event bus
type Config struct {
	// Parallel runs the handlers of one event concurrently.
	Parallel   bool
	MaxRetries uint64
	RetryDelay time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Parallel:   false,
		MaxRetries: 2,
		RetryDelay: 50 * time.Millisecond,
	}
}

// New creates an event bus. A nil logger discards bus diagnostics.
func New(log logger.Logger, cfg Config) *EventBus {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log.WithComponent("eventbus"),
		config:   cfg,
	}
}

// Subscribe adds a handler for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debugf("Subscribed handler for event type: %s", eventType)
}

// Publish delivers event to every handler subscribed to its type and returns
// the first handler error once all handlers have finished.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Type()]...)
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	if !eb.config.Parallel {
		var firstErr error
		for i, h := range handlers {
			if err := eb.executeHandler(ctx, event, h, i); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	var g errgroup.Group
	for i, h := range handlers {
		i, h := i, h
		g.Go(func() error {
			return eb.executeHandler(ctx, event, h, i)
		})
	}
	return g.Wait()
}

func (eb *EventBus) executeHandler(ctx context.Context, event Event, handler Handler, idx int) error {
	backoff := retry.WithMaxRetries(eb.config.MaxRetries, retry.NewConstant(eb.config.RetryDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := handler(ctx, event); err != nil {
			eb.logger.Warnf("Handler %d failed for event %s (attempt %d): %v", idx, event.Type(), attempt, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("handler %d for %s failed after %d attempts: %w", idx, event.Type(), attempt, err)
	}
	return nil
}

// Unsubscribe removes all handlers for a specific event type
func (eb *EventBus) Unsubscribe(eventType string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	delete(eb.handlers, eventType)
}

// SubscriberCount returns the number of handlers for an event type
func (eb *EventBus) SubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// EventTypes returns all event types with at least one handler, sorted
func (eb *EventBus) EventTypes() []string {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	types := make([]string, 0, len(eb.handlers))
	for eventType := range eb.handlers {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}
