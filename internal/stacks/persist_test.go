package stacks

import (
	"encoding/json"
	"testing"

	"github.com/orenlev/tabwell/internal/editor"
	"github.com/orenlev/tabwell/internal/storage"
)

func intPtr(v int) *int { return &v }

func fileGroup(label string, paths ...string) SerializedGroup {
	g := SerializedGroup{Label: label}
	for i, p := range paths {
		g.Editors = append(g.Editors, SerializedInput{ID: editor.FileTypeID, Value: p})
		g.MRU = append(g.MRU, i)
	}
	return g
}

func storeWith(t *testing.T, s serializedModel) storage.Store {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	store := storage.NewMemory()
	if err := store.Set(stacksKey, raw); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestRestoreValidState(t *testing.T) {
	one := fileGroup("one", "/a.go", "/b.go")
	one.MRU = []int{1, 0} // b.go was used last
	one.Preview = intPtr(0)
	two := fileGroup("two", "/c.go")

	store := storeWith(t, serializedModel{
		Groups: []SerializedGroup{one, two},
		Active: intPtr(1),
		LastClosed: []SerializedInput{
			{ID: editor.FileTypeID, Value: "/gone.go"},
		},
	})
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})

	if m.GroupCount() != 2 {
		t.Fatalf("group count = %d, want 2", m.GroupCount())
	}
	g := m.GroupAt(0)
	assertOrder(t, g.Editors(false), "a.go", "b.go")
	assertOrder(t, g.Editors(true), "b.go", "a.go")
	if g.ActiveEditor() == nil || g.ActiveEditor().Name() != "b.go" {
		t.Fatalf("active editor must be the MRU head")
	}
	if g.PreviewEditor() == nil || g.PreviewEditor().Name() != "a.go" {
		t.Fatalf("preview not restored")
	}
	if m.ActiveGroup() == nil || m.ActiveGroup().Label() != "two" {
		t.Fatalf("active group not restored")
	}
	if len(m.RecentlyClosed()) != 1 {
		t.Fatalf("recently closed not restored")
	}
}

func TestValidationRejectCodes(t *testing.T) {
	cases := []struct {
		name  string
		state serializedModel
		code  int
	}{
		{
			name:  "active without groups",
			state: serializedModel{Active: intPtr(0)},
			code:  validateActiveNoGroups,
		},
		{
			name: "active out of range",
			state: serializedModel{
				Groups: []SerializedGroup{fileGroup("one", "/a.go")},
				Active: intPtr(1),
			},
			code: validateActiveOutOfRange,
		},
		{
			name: "too many groups",
			state: serializedModel{Groups: []SerializedGroup{
				fileGroup("one", "/a.go"), fileGroup("two", "/b.go"),
				fileGroup("three", "/c.go"), fileGroup("four", "/d.go"),
			}},
			code: validateTooManyGroups,
		},
		{
			name:  "empty group",
			state: serializedModel{Groups: []SerializedGroup{{Label: "one"}}},
			code:  validateEmptyGroup,
		},
		{
			name: "mru shorter than editors",
			state: serializedModel{Groups: []SerializedGroup{{
				Label:   "one",
				Editors: []SerializedInput{{ID: editor.FileTypeID, Value: "/a.go"}},
			}}},
			code: validateMRUMismatch,
		},
		{
			name: "mru index out of range",
			state: serializedModel{Groups: []SerializedGroup{{
				Label:   "one",
				Editors: []SerializedInput{{ID: editor.FileTypeID, Value: "/a.go"}},
				MRU:     []int{3},
			}}},
			code: validateMRUMismatch,
		},
		{
			name: "preview out of range",
			state: func() serializedModel {
				g := fileGroup("one", "/a.go")
				g.Preview = intPtr(5)
				return serializedModel{Groups: []SerializedGroup{g}}
			}(),
			code: validatePreviewOutOfRange,
		},
		{
			name:  "blank label",
			state: serializedModel{Groups: []SerializedGroup{fileGroup("  ", "/a.go")}},
			code:  validateEmptyLabel,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := doValidate(tc.state); code != tc.code {
				t.Fatalf("code = %d, want %d", code, tc.code)
			}
			// any rejection discards everything
			m := NewModel(storeWith(t, tc.state), testRegistry(), DefaultPolicy, ModelOptions{})
			if m.GroupCount() != 0 || m.ActiveGroup() != nil {
				t.Fatalf("rejected state must leave the model empty")
			}
		})
	}
}

func TestCorruptRecordDiscarded(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Set(stacksKey, []byte("{not json")); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	if m.GroupCount() != 0 {
		t.Fatalf("corrupt record must start the model empty")
	}
}

func TestRestoreSkipsGroupsThatNoLongerDeserialize(t *testing.T) {
	ghost := SerializedGroup{
		Label:   "ghost",
		Editors: []SerializedInput{{ID: "gone.kind", Value: "x"}},
		MRU:     []int{0},
	}
	store := storeWith(t, serializedModel{
		Groups: []SerializedGroup{ghost, fileGroup("real", "/a.go")},
		Active: intPtr(0), // points at the group that will vanish
	})
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})

	if m.GroupCount() != 1 || m.GroupAt(0).Label() != "real" {
		t.Fatalf("group with no restorable editors should be skipped")
	}
	if m.ActiveGroup() != m.GroupAt(0) {
		t.Fatalf("active should fall back to the first surviving group")
	}
}

func TestSkipRestoreLeavesStoredStateAlone(t *testing.T) {
	store := storeWith(t, serializedModel{
		Groups: []SerializedGroup{fileGroup("one", "/a.go")},
		Active: intPtr(0),
	})
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{SkipRestore: true})
	if m.GroupCount() != 0 {
		t.Fatalf("skip restore should start empty")
	}
	if _, found, _ := store.Get(stacksKey); !found {
		t.Fatalf("skip restore must not touch the stored record")
	}
}

func TestLegacyMigration(t *testing.T) {
	entries := []legacyEntry{
		{InputID: editor.FileTypeID, InputValue: "/a.go"},
		{InputID: "gone.kind", InputValue: "x"}, // skipped, not fatal
		{InputID: editor.FileTypeID, InputValue: "/b.go"},
		{InputID: editor.FileTypeID, InputValue: "/c.go"},
		{InputID: editor.FileTypeID, InputValue: "/d.go"}, // over the cap
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	store := storage.NewMemory()
	if err := store.Set(legacyKey, raw); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	if m.GroupCount() != 3 {
		t.Fatalf("group count = %d, want 3", m.GroupCount())
	}
	for i, want := range []string{"a.go", "b.go", "c.go"} {
		g := m.GroupAt(i)
		if g.Label() != want || g.Count() != 1 {
			t.Fatalf("group %d = %q with %d editors", i, g.Label(), g.Count())
		}
		if !g.IsPinned(g.EditorAt(0)) {
			t.Fatalf("migrated editor should be pinned")
		}
	}
	if m.ActiveGroup() != m.GroupAt(0) {
		t.Fatalf("first migrated group should be active")
	}
	if _, found, _ := store.Get(legacyKey); found {
		t.Fatalf("legacy record must be removed after migration")
	}
}

func TestLegacyParseFailureStartsEmpty(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Set(legacyKey, []byte("not json")); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	if m.GroupCount() != 0 {
		t.Fatalf("unreadable legacy state should start the model empty")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	g1 := m.OpenGroup("one", true, -1)
	openPinned(g1, editor.NewFileInput("/a.go"))
	openPreview(g1, editor.NewFileInput("/p.go"))
	g2 := m.OpenGroup("two", false, -1)
	b := editor.NewFileInput("/b.go")
	openPinned(g2, b)
	openPinned(g2, editor.NewFileInput("/c.go"))
	g2.CloseEditor(b) // lands in the recently closed ring
	m.SetActive(g1)

	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	m2 := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	if m2.GroupCount() != 2 {
		t.Fatalf("restored group count = %d, want 2", m2.GroupCount())
	}
	r1 := m2.GroupAt(0)
	assertOrder(t, r1.Editors(false), "a.go", "p.go")
	if r1.PreviewEditor() == nil || r1.PreviewEditor().Name() != "p.go" {
		t.Fatalf("preview lost across save/restore")
	}
	if r1.ActiveEditor() == nil || r1.ActiveEditor().Name() != "p.go" {
		t.Fatalf("active editor lost across save/restore")
	}
	if m2.ActiveGroup() != r1 {
		t.Fatalf("active group lost across save/restore")
	}
	if in := m2.PopLastClosedEditor(); in == nil || in.Name() != "b.go" {
		t.Fatalf("recently closed ring lost across save/restore")
	}
}

func TestSaveDropsGroupsWithNoSerializableEditors(t *testing.T) {
	store := storage.NewMemory()
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	scratch := m.OpenGroup("scratch", true, -1)
	scratch.OpenEditor(&volatileInput{name: "notes"}, OpenOptions{Pinned: true, Active: true, Index: -1})
	real := m.OpenGroup("real", false, -1)
	openPinned(real, editor.NewFileInput("/a.go"))
	m.SetActive(scratch)

	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, found, err := store.Get(stacksKey)
	if err != nil || !found {
		t.Fatalf("record not written: found=%v err=%v", found, err)
	}
	var s serializedModel
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s.Groups) != 1 || s.Groups[0].Label != "real" {
		t.Fatalf("volatile-only group should be dropped, got %+v", s.Groups)
	}
	// the stored active index cannot refer to a dropped group
	if s.Active == nil || *s.Active != 0 {
		t.Fatalf("active index should fall back to 0 after a drop, got %v", s.Active)
	}
}

func TestSaveOmitsActiveWhenNothingSurvives(t *testing.T) {
	store := storage.NewMemory()
	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	g := m.OpenGroup("scratch", true, -1)
	g.OpenEditor(&volatileInput{name: "notes"}, OpenOptions{Pinned: true, Active: true, Index: -1})

	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _, _ := store.Get(stacksKey)
	var s serializedModel
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s.Groups) != 0 || s.Active != nil {
		t.Fatalf("empty snapshot should omit groups and active, got %+v", s)
	}
}

func TestSaveBeforeLoadIsNoOp(t *testing.T) {
	store := storeWith(t, serializedModel{
		Groups: []SerializedGroup{fileGroup("one", "/a.go")},
		Active: intPtr(0),
	})
	raw, _, _ := store.Get(stacksKey)

	m := NewModel(store, testRegistry(), DefaultPolicy, ModelOptions{})
	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	after, _, _ := store.Get(stacksKey)
	if string(after) != string(raw) {
		t.Fatalf("saving an unloaded model must not rewrite the record")
	}
}
