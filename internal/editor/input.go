// Package editor defines document handles (inputs) and the per-kind
// factories that persist them. Several groups may hold handles that match
// the same underlying document; the stacks model reference-counts matching
// handles before physically closing one.
package editor

import "github.com/orenlev/tabwell/internal/event"

// Input is a handle on an open document.
type Input interface {
	// ID is a stable identity for the handle.
	ID() string
	// TypeID names the handle kind in the factory registry.
	TypeID() string
	// Name is the human readable label shown on a tab.
	Name() string
	Dirty() bool
	// Matches reports whether other points at the same underlying document.
	Matches(other Input) bool
	// Close releases the handle and notifies dispose listeners. Idempotent.
	Close()
	// OnDispose registers a listener for Close. The returned func cancels
	// the registration.
	OnDispose(fn func()) (cancel func())
	// OnChange registers a listener for dirty/name mutations.
	OnChange(fn func()) (cancel func())
}

// lifecycle carries the dispose/change plumbing shared by input kinds.
type lifecycle struct {
	disposed bool
	dispose  event.Emitter[struct{}]
	change   event.Emitter[struct{}]
}

func (l *lifecycle) OnDispose(fn func()) func() {
	sub := l.dispose.Subscribe(func(struct{}) { fn() })
	return sub.Cancel
}

func (l *lifecycle) OnChange(fn func()) func() {
	sub := l.change.Subscribe(func(struct{}) { fn() })
	return sub.Cancel
}

func (l *lifecycle) Disposed() bool { return l.disposed }

func (l *lifecycle) markDisposed() bool {
	if l.disposed {
		return false
	}
	l.disposed = true
	l.dispose.Emit(struct{}{})
	l.dispose.Close()
	l.change.Close()
	return true
}

func (l *lifecycle) markChanged() {
	if !l.disposed {
		l.change.Emit(struct{}{})
	}
}
