// Package stacks implements the editor group model: ordered groups of open
// document handles with pinned/preview/active/MRU bookkeeping, cross-group
// close semantics and a persisted snapshot format.
package stacks

import (
	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/event"
)

// OpenSide selects where a new editor is inserted relative to the active one.
type OpenSide int

const (
	OpenRight OpenSide = iota
	OpenLeft
)

// Policy supplies call-time placement settings. It is backed by live
// configuration, not snapshotted per group.
type Policy interface {
	OpenSide() OpenSide
	PreviewEnabled() bool
}

// StaticPolicy is a fixed Policy, mostly for tests.
type StaticPolicy struct {
	Side    OpenSide
	Preview bool
}

func (p StaticPolicy) OpenSide() OpenSide   { return p.Side }
func (p StaticPolicy) PreviewEnabled() bool { return p.Preview }

// DefaultPolicy opens to the right of the active editor with previews on.
var DefaultPolicy = StaticPolicy{Side: OpenRight, Preview: true}

// OpenOptions control OpenEditor. Index -1 means no explicit position.
type OpenOptions struct {
	Pinned bool
	Active bool
	Index  int
}

// OpenEvent is fired after an editor is added to a group.
type OpenEvent struct {
	Editor editor.Input
	Index  int
}

// CloseEvent is fired after an editor is removed from a group. Pinned is
// false only when the closed editor was the group's preview.
type CloseEvent struct {
	Editor editor.Input
	Index  int
	Pinned bool
}

// MoveEvent is fired after an editor changes position within a group.
type MoveEvent struct {
	Editor editor.Input
	From   int
	To     int
}

// CloseDirection selects which neighbors CloseEditors removes.
type CloseDirection int

const (
	// CloseOthers closes everything but the given editor, in MRU order to
	// keep active-editor churn low.
	CloseOthers CloseDirection = iota
	// CloseLeft closes display-order neighbors before the given editor.
	CloseLeft
	// CloseRight closes display-order neighbors after the given editor.
	CloseRight
)

// Group is an ordered collection of open editors. editors holds display
// order, mru holds most-recently-used order with the active editor at its
// head. At most one editor is the preview (non-pinned) at a time.
type Group struct {
	id     int
	label  string
	policy Policy

	editors []editor.Input
	mru     []editor.Input
	active  editor.Input
	preview editor.Input

	Opened    event.Emitter[OpenEvent]
	Closed    event.Emitter[CloseEvent]
	Activated event.Emitter[editor.Input]
	Moved     event.Emitter[MoveEvent]
	Pinned    event.Emitter[editor.Input]
	Unpinned  event.Emitter[editor.Input]
	Disposed  event.Emitter[editor.Input]
	Relabeled event.Emitter[string]

	// dispose listener cancellation per held editor, released on close
	disposeSubs map[editor.Input]func()
}

func newGroup(id int, label string, policy Policy) *Group {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Group{
		id:          id,
		label:       label,
		policy:      policy,
		disposeSubs: make(map[editor.Input]func()),
	}
}

func (g *Group) ID() int       { return g.id }
func (g *Group) Label() string { return g.label }

func (g *Group) SetLabel(label string) {
	if label == g.label {
		return
	}
	g.label = label
	g.Relabeled.Emit(label)
}

func (g *Group) Count() int { return len(g.editors) }

func (g *Group) ActiveEditor() editor.Input  { return g.active }
func (g *Group) PreviewEditor() editor.Input { return g.preview }

// Editors returns a copy of the editors in display order, or in MRU order.
func (g *Group) Editors(mru bool) []editor.Input {
	src := g.editors
	if mru {
		src = g.mru
	}
	out := make([]editor.Input, len(src))
	copy(out, src)
	return out
}

// EditorAt returns the editor at the display-order index, or nil.
func (g *Group) EditorAt(index int) editor.Input {
	if index < 0 || index >= len(g.editors) {
		return nil
	}
	return g.editors[index]
}

// IndexOf locates in by Matches, -1 when absent.
func (g *Group) IndexOf(in editor.Input) int {
	if in == nil {
		return -1
	}
	for i, e := range g.editors {
		if e.Matches(in) {
			return i
		}
	}
	return -1
}

func (g *Group) Contains(in editor.Input) bool { return g.IndexOf(in) >= 0 }

// IsActive reports whether in matches the active editor.
func (g *Group) IsActive(in editor.Input) bool {
	return g.active != nil && in != nil && g.active.Matches(in)
}

// IsPinned is true for any held editor that is not the preview.
func (g *Group) IsPinned(in editor.Input) bool {
	index := g.IndexOf(in)
	if index < 0 {
		return false
	}
	return g.preview == nil || !g.preview.Matches(g.editors[index])
}

// OpenEditor is an idempotent upsert: an already-open editor (by Matches)
// is pinned/activated/moved in place, a new one is inserted next to the
// active editor (side per policy) or at the explicit index. A non-pinned
// open replaces the current preview, closing it.
func (g *Group) OpenEditor(in editor.Input, opts OpenOptions) {
	if in == nil {
		return
	}
	if index := g.IndexOf(in); index >= 0 {
		existing := g.editors[index]
		if opts.Pinned {
			g.Pin(existing)
		}
		if opts.Active {
			g.SetActive(existing)
		}
		if opts.Index >= 0 {
			g.MoveEditor(existing, opts.Index)
		}
		return
	}

	pinned := opts.Pinned || !g.policy.PreviewEnabled()

	var target int
	switch {
	case opts.Index >= 0:
		target = min(opts.Index, len(g.editors))
	case g.active == nil || len(g.editors) == 0:
		target = 0
	default:
		indexOfActive := g.IndexOf(g.active)
		if g.policy.OpenSide() == OpenLeft {
			target = indexOfActive
		} else {
			target = indexOfActive + 1
		}
	}

	// Resolve activation before the preview slot is touched: replacing the
	// preview that is also the active editor activates the newcomer.
	makeActive := opts.Active ||
		g.active == nil ||
		(!pinned && g.preview != nil && g.active != nil && g.preview.Matches(g.active))

	if pinned || g.preview == nil {
		g.splice(target, in)
	} else {
		// Replace the existing preview, keeping the slot position stable.
		if indexOfPreview := g.IndexOf(g.preview); indexOfPreview < target {
			target--
		}
		g.doCloseEditor(g.preview, !makeActive)
		g.splice(target, in)
	}
	if !pinned {
		g.preview = in
	}

	g.Opened.Emit(OpenEvent{Editor: in, Index: g.IndexOf(in)})
	if makeActive {
		g.SetActive(in)
	}
}

// CloseEditor removes in from the group. No-op when absent. Closing the
// active editor promotes the next-most-recently-used editor.
func (g *Group) CloseEditor(in editor.Input) {
	g.doCloseEditor(in, true)
}

func (g *Group) doCloseEditor(in editor.Input, openNext bool) {
	index := g.IndexOf(in)
	if index < 0 {
		return
	}
	handle := g.editors[index]

	if openNext && g.active != nil && g.active.Matches(handle) {
		if len(g.mru) > 1 {
			g.SetActive(g.mru[1])
		} else {
			g.active = nil
		}
	}

	pinned := true
	if g.preview != nil && g.preview.Matches(handle) {
		g.preview = nil
		pinned = false
	}

	g.editors = append(g.editors[:index], g.editors[index+1:]...)
	g.removeFromMRU(handle)
	if cancel, ok := g.disposeSubs[handle]; ok {
		cancel()
		delete(g.disposeSubs, handle)
	}

	g.Closed.Emit(CloseEvent{Editor: handle, Index: index, Pinned: pinned})
}

// CloseEditors closes neighbors of except per direction. No-op when except
// is absent.
func (g *Group) CloseEditors(except editor.Input, direction CloseDirection) {
	index := g.IndexOf(except)
	if index < 0 {
		return
	}
	switch direction {
	case CloseLeft:
		for i := index - 1; i >= 0; i-- {
			g.CloseEditor(g.editors[i])
		}
	case CloseRight:
		for i := len(g.editors) - 1; i > index; i-- {
			g.CloseEditor(g.editors[i])
		}
	default:
		for _, in := range g.Editors(true) {
			if in.Matches(except) {
				continue
			}
			g.CloseEditor(in)
		}
	}
}

// CloseAllEditors closes the non-active editors first (MRU order), then the
// active one, so subscribers see a single activation change at most.
func (g *Group) CloseAllEditors() {
	for _, in := range g.Editors(true) {
		if g.active != nil && g.active.Matches(in) {
			continue
		}
		g.CloseEditor(in)
	}
	if g.active != nil {
		g.CloseEditor(g.active)
	}
}

// MoveEditor relocates in within display order. MRU order is unaffected.
func (g *Group) MoveEditor(in editor.Input, to int) {
	index := g.IndexOf(in)
	if index < 0 {
		return
	}
	if to < 0 {
		to = 0
	}
	if to > len(g.editors)-1 {
		to = len(g.editors) - 1
	}
	if to == index {
		return
	}
	handle := g.editors[index]
	g.editors = append(g.editors[:index], g.editors[index+1:]...)
	g.editors = append(g.editors, nil)
	copy(g.editors[to+1:], g.editors[to:])
	g.editors[to] = handle
	g.Moved.Emit(MoveEvent{Editor: handle, From: index, To: to})
}

// SetActive makes in the active editor and the MRU head. No-op when absent
// or already active.
func (g *Group) SetActive(in editor.Input) {
	index := g.IndexOf(in)
	if index < 0 {
		return
	}
	handle := g.editors[index]
	if g.active != nil && g.active.Matches(handle) {
		return
	}
	g.active = handle
	g.removeFromMRU(handle)
	g.mru = append([]editor.Input{handle}, g.mru...)
	g.Activated.Emit(handle)
}

// Pin clears the preview state of in. It only operates on the current
// preview; pinning an already-pinned editor is a no-op.
func (g *Group) Pin(in editor.Input) {
	index := g.IndexOf(in)
	if index < 0 {
		return
	}
	handle := g.editors[index]
	if g.preview == nil || !g.preview.Matches(handle) {
		return
	}
	g.preview = nil
	g.Pinned.Emit(handle)
}

// Unpin makes in the preview, replacing and closing the previous preview.
// The unpinned event fires before the old preview's close cascade.
func (g *Group) Unpin(in editor.Input) {
	index := g.IndexOf(in)
	if index < 0 {
		return
	}
	handle := g.editors[index]
	if g.preview != nil && g.preview.Matches(handle) {
		return
	}
	old := g.preview
	g.preview = handle
	g.Unpinned.Emit(handle)
	if old != nil {
		g.CloseEditor(old)
	}
}

// splice inserts in at index and appends it to the MRU tail. SetActive
// promotes it afterwards when needed.
func (g *Group) splice(index int, in editor.Input) {
	g.insertAt(index, in)
	g.mru = append(g.mru, in)
}

func (g *Group) insertAt(index int, in editor.Input) {
	g.editors = append(g.editors, nil)
	copy(g.editors[index+1:], g.editors[index:])
	g.editors[index] = in

	handle := in
	g.disposeSubs[handle] = handle.OnDispose(func() {
		if g.IndexOf(handle) >= 0 {
			g.Disposed.Emit(handle)
		}
	})
}

func (g *Group) removeFromMRU(in editor.Input) {
	for i, e := range g.mru {
		if e.Matches(in) {
			g.mru = append(g.mru[:i], g.mru[i+1:]...)
			return
		}
	}
}

// dispose releases all listener registrations. Called by the model when the
// group is removed; all editors have been closed by then.
func (g *Group) dispose() {
	for in, cancel := range g.disposeSubs {
		cancel()
		delete(g.disposeSubs, in)
	}
	g.Opened.Close()
	g.Closed.Close()
	g.Activated.Close()
	g.Moved.Close()
	g.Pinned.Close()
	g.Unpinned.Close()
	g.Disposed.Close()
	g.Relabeled.Close()
}
