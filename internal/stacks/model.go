package stacks

import (
	"fmt"

	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/event"
	"github.com/orenlev/tabwell/internal/storage"
)

// GroupMoveEvent is fired after a group changes position in the model.
type GroupMoveEvent struct {
	Group *Group
	From  int
	To    int
}

// DisposedEvent reports an editor whose handle disposed while still held by
// a group.
type DisposedEvent struct {
	Editor editor.Input
	Group  *Group
}

// GroupEditor is a position in the flattened ring of all open editors.
type GroupEditor struct {
	Group  *Group
	Editor editor.Input
}

// ModelOptions configure NewModel. SkipRestore suppresses loading the
// previous session, used when the workspace was opened with explicit files.
type ModelOptions struct {
	SkipRestore bool
	Logf        func(format string, args ...any)
}

// Model owns the ordered list of groups, tracks the active one, forwards
// group events, keeps the recently-closed ring and persists everything as
// one record. Groups never outlive their removal from the model.
type Model struct {
	store    storage.Store
	registry *editor.Registry
	policy   Policy
	logf     func(string, ...any)

	skipRestore bool
	loaded      bool

	groups         []*Group
	active         *Group
	recentlyClosed []SerializedInput
	nextGroupID    int

	GroupOpened    event.Emitter[*Group]
	GroupClosed    event.Emitter[*Group]
	GroupActivated event.Emitter[*Group]
	GroupMoved     event.Emitter[GroupMoveEvent]
	GroupRenamed   event.Emitter[*Group]
	EditorDisposed event.Emitter[DisposedEvent]
	Changed        event.Emitter[struct{}]

	// model-level forwarding subscriptions per group, cancelled on close
	forwards map[*Group][]*event.Subscription
}

func NewModel(store storage.Store, registry *editor.Registry, policy Policy, opts ModelOptions) *Model {
	if policy == nil {
		policy = DefaultPolicy
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Model{
		store:       store,
		registry:    registry,
		policy:      policy,
		logf:        logf,
		skipRestore: opts.SkipRestore,
		nextGroupID: 1,
		forwards:    make(map[*Group][]*event.Subscription),
	}
}

// Groups returns the groups in display order.
func (m *Model) Groups() []*Group {
	m.ensureLoaded()
	out := make([]*Group, len(m.groups))
	copy(out, m.groups)
	return out
}

func (m *Model) ActiveGroup() *Group {
	m.ensureLoaded()
	return m.active
}

func (m *Model) GroupCount() int {
	m.ensureLoaded()
	return len(m.groups)
}

// GroupAt returns the group at the display index, or nil.
func (m *Model) GroupAt(index int) *Group {
	m.ensureLoaded()
	if index < 0 || index >= len(m.groups) {
		return nil
	}
	return m.groups[index]
}

func (m *Model) indexOfGroup(g *Group) int {
	for i, have := range m.groups {
		if have == g {
			return i
		}
	}
	return -1
}

func (m *Model) allocGroupID() int {
	id := m.nextGroupID
	m.nextGroupID++
	return id
}

// OpenGroup creates a group. With no explicit index the first group takes
// position 0 and later ones land immediately right of the active group. The
// first group is always activated.
func (m *Model) OpenGroup(label string, activate bool, index int) *Group {
	m.ensureLoaded()
	if label == "" {
		label = fmt.Sprintf("Group %d", m.nextGroupID)
	}
	g := newGroup(m.allocGroupID(), label, m.policy)

	switch {
	case index >= 0:
		if index > len(m.groups) {
			index = len(m.groups)
		}
		m.groups = append(m.groups, nil)
		copy(m.groups[index+1:], m.groups[index:])
		m.groups[index] = g
	case len(m.groups) == 0 || m.active == nil:
		m.groups = append(m.groups, g)
	default:
		at := m.indexOfGroup(m.active) + 1
		m.groups = append(m.groups, nil)
		copy(m.groups[at+1:], m.groups[at:])
		m.groups[at] = g
	}

	m.hookGroup(g)
	m.GroupOpened.Emit(g)
	if activate || len(m.groups) == 1 {
		m.SetActive(g)
	}
	m.Changed.Emit(struct{}{})
	return g
}

// CloseGroup closes all of the group's editors (running the cross-group
// close cascade), disposes the group and removes it. When the active group
// closes, the right neighbor takes over, else the left one.
func (m *Model) CloseGroup(g *Group) {
	m.ensureLoaded()
	index := m.indexOfGroup(g)
	if index < 0 {
		return
	}

	var nextActive *Group
	if m.active == g && len(m.groups) > 1 {
		if index+1 < len(m.groups) {
			nextActive = m.groups[index+1]
		} else {
			nextActive = m.groups[index-1]
		}
	}

	g.CloseAllEditors()

	for _, sub := range m.forwards[g] {
		sub.Cancel()
	}
	delete(m.forwards, g)
	g.dispose()

	index = m.indexOfGroup(g) // close cascades cannot move groups, but stay exact
	m.groups = append(m.groups[:index], m.groups[index+1:]...)
	if m.active == g {
		m.active = nil
	}
	m.GroupClosed.Emit(g)
	if nextActive != nil {
		m.SetActive(nextActive)
	}
	m.Changed.Emit(struct{}{})
}

// CloseGroups closes every group except the given one, closing the active
// group last to keep activation churn low.
func (m *Model) CloseGroups(except *Group) {
	m.ensureLoaded()
	for _, g := range m.Groups() {
		if g == except || g == m.active {
			continue
		}
		m.CloseGroup(g)
	}
	if m.active != nil && m.active != except {
		m.CloseGroup(m.active)
	}
}

// MoveGroup repositions g in display order.
func (m *Model) MoveGroup(g *Group, to int) {
	m.ensureLoaded()
	index := m.indexOfGroup(g)
	if index < 0 {
		return
	}
	if to < 0 {
		to = 0
	}
	if to > len(m.groups)-1 {
		to = len(m.groups) - 1
	}
	if to == index {
		return
	}
	m.groups = append(m.groups[:index], m.groups[index+1:]...)
	m.groups = append(m.groups, nil)
	copy(m.groups[to+1:], m.groups[to:])
	m.groups[to] = g
	m.GroupMoved.Emit(GroupMoveEvent{Group: g, From: index, To: to})
	m.Changed.Emit(struct{}{})
}

// SetActive activates g. No-op when absent or already active.
func (m *Model) SetActive(g *Group) {
	m.ensureLoaded()
	if g == m.active || m.indexOfGroup(g) < 0 {
		return
	}
	m.active = g
	m.GroupActivated.Emit(g)
	m.Changed.Emit(struct{}{})
}

// Next returns the position after the active editor in the flattened ring
// over all groups (group order, then editor order), wrapping from the last
// editor of the last group to the first of the first. Nil without an active
// group. An active group without an active editor yields its first editor.
func (m *Model) Next() *GroupEditor {
	m.ensureLoaded()
	if m.active == nil {
		return nil
	}
	index := m.active.IndexOf(m.active.ActiveEditor())
	if index+1 < m.active.Count() {
		return &GroupEditor{Group: m.active, Editor: m.active.EditorAt(index + 1)}
	}
	at := m.indexOfGroup(m.active)
	for off := 1; off <= len(m.groups); off++ {
		g := m.groups[(at+off)%len(m.groups)]
		if g.Count() > 0 {
			return &GroupEditor{Group: g, Editor: g.EditorAt(0)}
		}
	}
	return nil
}

// Previous is the inverse of Next.
func (m *Model) Previous() *GroupEditor {
	m.ensureLoaded()
	if m.active == nil {
		return nil
	}
	index := m.active.IndexOf(m.active.ActiveEditor())
	if index > 0 {
		return &GroupEditor{Group: m.active, Editor: m.active.EditorAt(index - 1)}
	}
	at := m.indexOfGroup(m.active)
	n := len(m.groups)
	for off := 1; off <= n; off++ {
		g := m.groups[((at-off)%n+n)%n]
		if g.Count() > 0 {
			return &GroupEditor{Group: g, Editor: g.EditorAt(g.Count() - 1)}
		}
	}
	return nil
}

// RecentlyClosed returns the serialized snapshots of recently closed pinned
// editors, most recent last.
func (m *Model) RecentlyClosed() []SerializedInput {
	m.ensureLoaded()
	out := make([]SerializedInput, len(m.recentlyClosed))
	copy(out, m.recentlyClosed)
	return out
}

// PopLastClosedEditor removes and rebuilds the most recently closed editor,
// nil when the buffer is empty or the snapshot no longer deserializes.
func (m *Model) PopLastClosedEditor() editor.Input {
	m.ensureLoaded()
	if len(m.recentlyClosed) == 0 {
		return nil
	}
	last := m.recentlyClosed[len(m.recentlyClosed)-1]
	m.recentlyClosed = m.recentlyClosed[:len(m.recentlyClosed)-1]
	in, err := m.registry.Deserialize(last.ID, last.Value)
	if err != nil {
		m.logf("stacks: reopen closed editor: %v", err)
		return nil
	}
	return in
}

func (m *Model) ClearLastClosedEditors() {
	m.ensureLoaded()
	m.recentlyClosed = nil
}

// hookGroup forwards group events to model-level subscribers.
func (m *Model) hookGroup(g *Group) {
	subs := []*event.Subscription{
		g.Closed.Subscribe(func(ev CloseEvent) {
			m.handleEditorClosed(ev)
			m.Changed.Emit(struct{}{})
		}),
		g.Disposed.Subscribe(func(in editor.Input) {
			m.EditorDisposed.Emit(DisposedEvent{Editor: in, Group: g})
		}),
		g.Relabeled.Subscribe(func(string) {
			m.GroupRenamed.Emit(g)
			m.Changed.Emit(struct{}{})
		}),
		g.Opened.Subscribe(func(OpenEvent) { m.Changed.Emit(struct{}{}) }),
		g.Activated.Subscribe(func(editor.Input) { m.Changed.Emit(struct{}{}) }),
		g.Moved.Subscribe(func(MoveEvent) { m.Changed.Emit(struct{}{}) }),
		g.Pinned.Subscribe(func(editor.Input) { m.Changed.Emit(struct{}{}) }),
		g.Unpinned.Subscribe(func(editor.Input) { m.Changed.Emit(struct{}{}) }),
	}
	m.forwards[g] = subs
}

// handleEditorClosed runs for every close in every owned group: it records
// pinned closes in the recently-closed ring and physically closes handles
// that no group references anymore.
func (m *Model) handleEditorClosed(ev CloseEvent) {
	if ev.Pinned {
		if value, ok := m.registry.Serialize(ev.Editor); ok {
			m.recentlyClosed = append(m.recentlyClosed, SerializedInput{ID: ev.Editor.TypeID(), Value: value})
			if len(m.recentlyClosed) > maxRecentlyClosed {
				m.recentlyClosed = m.recentlyClosed[len(m.recentlyClosed)-maxRecentlyClosed:]
			}
		}
	}
	m.closeUnreferenced(ev.Editor)
}

// closeUnreferenced physically closes in once no group holds a matching
// handle. Diff sub-handles follow the same rule independently.
func (m *Model) closeUnreferenced(in editor.Input) {
	if in == nil || m.isOpen(in) {
		return
	}
	in.Close()
	if diff, ok := in.(*editor.DiffInput); ok {
		m.closeUnreferenced(diff.Original())
		m.closeUnreferenced(diff.Modified())
	}
}

func (m *Model) isOpen(in editor.Input) bool {
	for _, g := range m.groups {
		if g.Contains(in) {
			return true
		}
	}
	return false
}
