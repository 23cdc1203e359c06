package event

import (
	"slices"
	"sync"

	"github.com/pulosarok/desa/internal/domain/shared"
)

// wildcard is the registry key for handlers that receive every event
const wildcard = "*"

// HandlerRegistry maps event types to handlers in subscription order
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]shared.EventHandler)}
}

// Register adds handler for eventTypes, or for every event when none are given.
// Registering the same handler twice for a type is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		eventTypes = []string{wildcard}
	}
	for _, t := range eventTypes {
		if !slices.Contains(r.handlers[t], handler) {
			r.handlers[t] = append(r.handlers[t], handler)
		}
	}
}

// Unregister removes handler from every event type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t, hs := range r.handlers {
		hs = slices.DeleteFunc(slices.Clone(hs), func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.handlers, t)
			continue
		}
		r.handlers[t] = hs
	}
}

// GetHandlers returns the handlers for eventType followed by wildcard handlers,
// each handler at most once
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.handlers[wildcard]))
	out = append(out, typed...)
	for _, h := range r.handlers[wildcard] {
		if !slices.Contains(typed, h) {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of distinct registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var seen []shared.EventHandler
	for _, hs := range r.handlers {
		for _, h := range hs {
			if !slices.Contains(seen, h) {
				seen = append(seen, h)
			}
		}
	}
	return len(seen)
}
