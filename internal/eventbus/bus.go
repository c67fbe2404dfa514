package eventbus

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler receives published events.
type Handler[T any] func(T)

// Subscription identifies a registered handler so it can be removed later.
type Subscription string

type entry[T any] struct {
	id      Subscription
	handler Handler[T]
}

// Bus delivers events synchronously to every subscriber in registration order.
// A subscriber that panics is logged and skipped; the rest are still notified.
//
// Bus is not safe for concurrent use. It is meant to be driven from a single
// UI loop, like the buttons that publish on it.
type Bus[T any] struct {
	name     string
	handlers []entry[T]
}

// New creates a bus. The name only appears in logs.
func New[T any](name string) *Bus[T] {
	return &Bus[T]{name: name}
}

// Subscribe registers a handler and returns its subscription.
func (b *Bus[T]) Subscribe(handler Handler[T]) Subscription {
	id := Subscription(uuid.NewString())
	b.handlers = append(b.handlers, entry[T]{id: id, handler: handler})

	log.Debug().Str("bus", b.name).Str("subscription", string(id)).Msg("Handler subscribed")
	return id
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus[T]) Unsubscribe(id Subscription) bool {
	for i, e := range b.handlers {
		if e.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Publish calls every handler with the event.
func (b *Bus[T]) Publish(event T) {
	// Handlers may subscribe or unsubscribe while we iterate.
	handlers := make([]entry[T], len(b.handlers))
	copy(handlers, b.handlers)

	for _, e := range handlers {
		if e.handler == nil {
			continue
		}
		Call(b.name, func() { e.handler(event) })
	}
}

// Len returns the number of registered handlers.
func (b *Bus[T]) Len() int {
	return len(b.handlers)
}

// Clear removes all handlers
func (b *Bus[T]) Clear() {
	b.handlers = nil
}

// Call runs fn and recovers from a panic inside it, logging the failure.
// It reports whether fn completed normally.
func Call(source string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("source", source).
				Msg("Listener panicked")
			ok = false
		}
	}()
	fn()
	return true
}
