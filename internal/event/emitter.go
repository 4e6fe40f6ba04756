// Package event provides the publish/subscribe primitive used for model
// and view notifications. One emitter per event kind, delivery synchronous
// and in subscription order.
package event

// Subscription is the handle returned by Subscribe. Cancel is idempotent.
type Subscription struct {
	cancel func()
	done   bool
}

// Cancel removes the subscriber. A subscriber cancelled during delivery is
// skipped if it has not been called yet.
func (s *Subscription) Cancel() {
	if s == nil || s.done {
		return
	}
	s.done = true
	s.cancel()
}

type subscriber[T any] struct {
	fn        func(T)
	cancelled bool
}

// Emitter fans an event out to subscribers. The zero value is ready to use.
// The stacks model is single-threaded by design, so no locking here.
type Emitter[T any] struct {
	subs     []*subscriber[T]
	emitting bool
}

// Subscribe registers fn. A subscriber added during delivery does not
// receive the event currently being delivered.
func (e *Emitter[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn}
	e.subs = append(e.subs, sub)
	return &Subscription{cancel: func() { sub.cancelled = true }}
}

// Emit delivers v to all live subscribers in subscription order.
func (e *Emitter[T]) Emit(v T) {
	if len(e.subs) == 0 {
		return
	}
	if !e.emitting {
		e.compact()
	}
	snapshot := e.subs

	wasEmitting := e.emitting
	e.emitting = true
	for _, sub := range snapshot {
		if !sub.cancelled {
			sub.fn(v)
		}
	}
	e.emitting = wasEmitting
}

// Close drops all subscribers.
func (e *Emitter[T]) Close() {
	for _, sub := range e.subs {
		sub.cancelled = true
	}
	e.subs = nil
}

func (e *Emitter[T]) compact() {
	live := e.subs[:0]
	for _, sub := range e.subs {
		if !sub.cancelled {
			live = append(live, sub)
		}
	}
	for i := len(live); i < len(e.subs); i++ {
		e.subs[i] = nil
	}
	e.subs = live
}
