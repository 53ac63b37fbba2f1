package document

import "slices"

// Subscription is the handle returned when registering a listener.
// The owner of the handle is responsible for cancelling it.
type Subscription struct {
	cancel    func()
	cancelled bool
}

// Cancel removes the listener. Safe to call multiple times and on nil.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	s.cancel()
}

// IsActive returns true until Cancel is called.
func (s *Subscription) IsActive() bool {
	return s != nil && !s.cancelled
}

type listenerEntry[T any] struct {
	fn      func(T)
	removed bool
}

// Listeners is an ordered listener registry. Listeners added or cancelled
// while an event is being emitted take effect from the next emission, except
// that a cancelled listener is never called again.
type Listeners[T any] struct {
	entries []*listenerEntry[T]
}

// Add registers fn and returns its subscription handle.
func (l *Listeners[T]) Add(fn func(T)) *Subscription {
	e := &listenerEntry[T]{fn: fn}
	l.entries = append(l.entries, e)
	return &Subscription{cancel: func() {
		e.removed = true
		l.entries = slices.DeleteFunc(l.entries, func(x *listenerEntry[T]) bool { return x == e })
	}}
}

// Emit calls every registered listener in registration order.
func (l *Listeners[T]) Emit(v T) {
	if len(l.entries) == 0 {
		return
	}
	for _, e := range slices.Clone(l.entries) {
		if !e.removed {
			e.fn(v)
		}
	}
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	return len(l.entries)
}
