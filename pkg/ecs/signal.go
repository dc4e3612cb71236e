package ecs

// Subscription identifies a handler registered on a Signal. The zero value is never issued.
type Subscription uint64

type signalHandler[T any] struct {
	id Subscription
	fn func(T)
}

// Signal is a synchronous multicast event. Handlers run in subscription order on the emitting
// goroutine, before the emitter continues.
type Signal[T any] struct {
	handlers []signalHandler[T]
	next     Subscription
}

// Subscribe registers fn and returns a handle for Unsubscribe.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	s.next++
	s.handlers = append(s.handlers, signalHandler[T]{id: s.next, fn: fn})
	return s.next
}

// Unsubscribe removes a handler. Returns false if sub is not registered. A handler removed while
// an emission is in flight still receives that emission.
func (s *Signal[T]) Unsubscribe(sub Subscription) bool {
	for i, h := range s.handlers {
		if h.id != sub {
			continue
		}
		// Copy instead of shifting in place so an emission iterating the old slice is unaffected.
		handlers := make([]signalHandler[T], 0, len(s.handlers)-1)
		handlers = append(handlers, s.handlers[:i]...)
		s.handlers = append(handlers, s.handlers[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of registered handlers.
func (s *Signal[T]) Len() int { return len(s.handlers) }

func (s *Signal[T]) emit(v T) {
	for _, h := range s.handlers {
		h.fn(v)
	}
}
