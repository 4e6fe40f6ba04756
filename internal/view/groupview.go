// Package view binds editor groups to a terminal surface: a tab strip plus
// a content pane per group. It translates UI intents into group mutations
// and reacts to group events; destructive intents on dirty documents go
// through a confirmation future first.
package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/event"
	"github.com/orenlev/tabwell/internal/stacks"
)

// Confirmation resolves a dirty-close prompt. Proceed false vetoes the
// close; a veto is an outcome, not an error.
type Confirmation struct {
	Proceed bool
}

// Confirmer produces the confirmation future for a dirty close. The channel
// is read exactly once.
type Confirmer interface {
	ConfirmClose(in editor.Input) <-chan Confirmation
}

// CloseResolvedMsg reports a resolved dirty-close prompt back to the
// program loop.
type CloseResolvedMsg struct {
	View         *GroupView
	Editor       editor.Input
	Confirmation Confirmation
}

// GroupView binds one group. Rendering reads live group state; the event
// subscriptions keep a short status line and are released on Dispose.
type GroupView struct {
	group     *stacks.Group
	confirmer Confirmer
	subs      []*event.Subscription
	status    string
}

func NewGroupView(g *stacks.Group, confirmer Confirmer) *GroupView {
	v := &GroupView{group: g, confirmer: confirmer}
	v.subs = append(v.subs,
		g.Opened.Subscribe(func(ev stacks.OpenEvent) {
			v.status = "opened " + ev.Editor.Name()
		}),
		g.Closed.Subscribe(func(ev stacks.CloseEvent) {
			v.status = "closed " + ev.Editor.Name()
		}),
		g.Activated.Subscribe(func(in editor.Input) {
			v.status = "active: " + in.Name()
		}),
		g.Unpinned.Subscribe(func(in editor.Input) {
			v.status = "preview: " + in.Name()
		}),
		g.Disposed.Subscribe(func(in editor.Input) {
			// The document went away underneath us; drop the stale tab.
			v.group.CloseEditor(in)
		}),
	)
	return v
}

func (v *GroupView) Group() *stacks.Group { return v.group }

func (v *GroupView) Status() string { return v.status }

// Dispose releases the event subscriptions.
func (v *GroupView) Dispose() {
	for _, sub := range v.subs {
		sub.Cancel()
	}
	v.subs = nil
}

// OpenEditor forwards an open intent.
func (v *GroupView) OpenEditor(in editor.Input, opts stacks.OpenOptions) {
	v.group.OpenEditor(in, opts)
}

// RequestClose closes in, asking for confirmation first when the document
// is dirty. The returned command resolves once the prompt is answered; nil
// when the close completed synchronously.
func (v *GroupView) RequestClose(in editor.Input) tea.Cmd {
	if in == nil {
		return nil
	}
	if !in.Dirty() || v.confirmer == nil {
		v.group.CloseEditor(in)
		return nil
	}
	ch := v.confirmer.ConfirmClose(in)
	target := in
	return func() tea.Msg {
		return CloseResolvedMsg{View: v, Editor: target, Confirmation: <-ch}
	}
}

// ResolveClose applies a resolved prompt. A veto leaves the group as-is.
func (v *GroupView) ResolveClose(msg CloseResolvedMsg) {
	if msg.Confirmation.Proceed {
		v.group.CloseEditor(msg.Editor)
	} else {
		v.status = "kept " + msg.Editor.Name()
	}
}

// TogglePin pins the preview or turns a pinned editor back into the preview.
func (v *GroupView) TogglePin(in editor.Input) {
	if in == nil {
		return
	}
	if v.group.IsPinned(in) {
		v.group.Unpin(in)
	} else {
		v.group.Pin(in)
	}
}

// ActivateRelative activates the display-order neighbor of the active
// editor, clamped at the ends.
func (v *GroupView) ActivateRelative(delta int) {
	index := v.group.IndexOf(v.group.ActiveEditor())
	if index < 0 {
		if v.group.Count() > 0 {
			v.group.SetActive(v.group.EditorAt(0))
		}
		return
	}
	v.group.SetActive(v.group.EditorAt(index + delta))
}

// MoveActive shifts the active editor by delta tab positions.
func (v *GroupView) MoveActive(delta int) {
	active := v.group.ActiveEditor()
	if active == nil {
		return
	}
	v.group.MoveEditor(active, v.group.IndexOf(active)+delta)
}
