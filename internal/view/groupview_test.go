package view

import (
	"testing"

	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/stacks"
	"github.com/orenlev/tabwell/internal/storage"
)

// stubConfirmer records prompts and lets the test answer them.
type stubConfirmer struct {
	asked []editor.Input
	chans []chan Confirmation
}

func (c *stubConfirmer) ConfirmClose(in editor.Input) <-chan Confirmation {
	ch := make(chan Confirmation, 1)
	c.asked = append(c.asked, in)
	c.chans = append(c.chans, ch)
	return ch
}

func (c *stubConfirmer) answer(proceed bool) {
	ch := c.chans[0]
	c.chans = c.chans[1:]
	ch <- Confirmation{Proceed: proceed}
}

func newTestGroupView(confirmer Confirmer) (*GroupView, *stacks.Group) {
	registry := editor.NewRegistry()
	editor.RegisterBuiltins(registry)
	m := stacks.NewModel(storage.NewMemory(), registry, stacks.DefaultPolicy, stacks.ModelOptions{})
	g := m.OpenGroup("one", true, -1)
	return NewGroupView(g, confirmer), g
}

func openPinned(g *stacks.Group, in editor.Input) {
	g.OpenEditor(in, stacks.OpenOptions{Pinned: true, Active: true, Index: -1})
}

func TestRequestCloseCleanIsImmediate(t *testing.T) {
	confirmer := &stubConfirmer{}
	v, g := newTestGroupView(confirmer)
	a := editor.NewFileInput("/a.go")
	openPinned(g, a)

	if cmd := v.RequestClose(a); cmd != nil {
		t.Fatalf("clean close should not produce a command")
	}
	if g.Count() != 0 {
		t.Fatalf("clean close should remove the editor")
	}
	if len(confirmer.asked) != 0 {
		t.Fatalf("clean close must not prompt")
	}
}

func TestRequestCloseDirtyProceeds(t *testing.T) {
	confirmer := &stubConfirmer{}
	v, g := newTestGroupView(confirmer)
	a := editor.NewFileInput("/a.go")
	openPinned(g, a)
	a.SetDirty(true)

	cmd := v.RequestClose(a)
	if cmd == nil {
		t.Fatalf("dirty close must go through the confirmer")
	}
	if g.Count() != 1 {
		t.Fatalf("editor must stay open until the prompt resolves")
	}

	confirmer.answer(true)
	msg, ok := cmd().(CloseResolvedMsg)
	if !ok || msg.View != v || !msg.Editor.Matches(a) || !msg.Confirmation.Proceed {
		t.Fatalf("unexpected resolution message: %+v", msg)
	}
	v.ResolveClose(msg)
	if g.Count() != 0 {
		t.Fatalf("confirmed close should remove the editor")
	}
}

func TestRequestCloseDirtyVetoKeepsEditor(t *testing.T) {
	confirmer := &stubConfirmer{}
	v, g := newTestGroupView(confirmer)
	a := editor.NewFileInput("/a.go")
	openPinned(g, a)
	a.SetDirty(true)

	cmd := v.RequestClose(a)
	confirmer.answer(false)
	v.ResolveClose(cmd().(CloseResolvedMsg))
	if g.Count() != 1 {
		t.Fatalf("vetoed close must keep the editor open")
	}
	if v.Status() != "kept a.go" {
		t.Fatalf("status = %q", v.Status())
	}
}

func TestDisposedDocumentDropsItsTab(t *testing.T) {
	v, g := newTestGroupView(nil)
	defer v.Dispose()
	a := editor.NewFileInput("/a.go")
	openPinned(g, a)

	a.Close() // the document vanished underneath the group
	if g.Count() != 0 {
		t.Fatalf("stale tab should be dropped after dispose")
	}
}

func TestDisposeReleasesSubscriptions(t *testing.T) {
	v, g := newTestGroupView(nil)
	a := editor.NewFileInput("/a.go")
	openPinned(g, a)
	v.Dispose()

	b := editor.NewFileInput("/b.go")
	openPinned(g, b)
	if v.Status() != "active: a.go" {
		t.Fatalf("disposed view still tracking events, status = %q", v.Status())
	}
}

func TestTogglePin(t *testing.T) {
	v, g := newTestGroupView(nil)
	a := editor.NewFileInput("/a.go")
	g.OpenEditor(a, stacks.OpenOptions{Active: true, Index: -1}) // preview

	v.TogglePin(a)
	if !g.IsPinned(a) {
		t.Fatalf("toggling a preview should pin it")
	}
	v.TogglePin(a)
	if g.IsPinned(a) {
		t.Fatalf("toggling a pinned editor should make it the preview")
	}
}

func TestActivateRelativeClampsAtEnds(t *testing.T) {
	v, g := newTestGroupView(nil)
	a := editor.NewFileInput("/a.go")
	b := editor.NewFileInput("/b.go")
	openPinned(g, a)
	openPinned(g, b)

	v.ActivateRelative(1) // already at the right edge
	if !g.IsActive(b) {
		t.Fatalf("activating past the edge should keep the edge editor")
	}
	v.ActivateRelative(-1)
	if !g.IsActive(a) {
		t.Fatalf("relative activation did not move left")
	}
	v.ActivateRelative(-1)
	if !g.IsActive(a) {
		t.Fatalf("activating past the left edge should keep the edge editor")
	}
}

func TestMoveActive(t *testing.T) {
	v, g := newTestGroupView(nil)
	a := editor.NewFileInput("/a.go")
	b := editor.NewFileInput("/b.go")
	openPinned(g, a)
	openPinned(g, b) // active, at index 1

	v.MoveActive(-1)
	if g.IndexOf(b) != 0 {
		t.Fatalf("active editor did not move left, index = %d", g.IndexOf(b))
	}
	v.MoveActive(-1) // clamped
	if g.IndexOf(b) != 0 {
		t.Fatalf("move past the edge should clamp")
	}
}
