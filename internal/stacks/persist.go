package stacks

import (
	"encoding/json"
	"strings"
)

const (
	// stacksKey holds the whole persisted model as one JSON record.
	stacksKey = "tabwell.stacks.v2"
	// legacyKey is the pre-groups flat editor list, consumed at most once.
	legacyKey = "tabwell.editors.v1"

	maxPersistedGroups = 3
	maxRecentlyClosed  = 10
)

// serializedModel is the single persistence unit.
type serializedModel struct {
	Groups     []SerializedGroup `json:"groups"`
	Active     *int              `json:"active,omitempty"`
	LastClosed []SerializedInput `json:"lastClosed,omitempty"`
}

type legacyEntry struct {
	InputID    string `json:"inputId"`
	InputValue string `json:"inputValue"`
}

// Validation reject codes. Any non-zero code discards the entire stored
// state; partial application is never attempted.
const (
	validateOK                = 0
	validateActiveNoGroups    = 1
	validateActiveOutOfRange  = 2
	validateTooManyGroups     = 3
	validateEmptyGroup        = 4
	validateMRUMismatch       = 5
	validatePreviewOutOfRange = 6
	validateEmptyLabel        = 7
)

func doValidate(s serializedModel) int {
	if s.Active != nil && len(s.Groups) == 0 {
		return validateActiveNoGroups
	}
	if s.Active != nil && (*s.Active < 0 || *s.Active >= len(s.Groups)) {
		return validateActiveOutOfRange
	}
	if len(s.Groups) > maxPersistedGroups {
		return validateTooManyGroups
	}
	for _, g := range s.Groups {
		if len(g.Editors) == 0 {
			return validateEmptyGroup
		}
		if len(g.MRU) != len(g.Editors) {
			return validateMRUMismatch
		}
		for _, idx := range g.MRU {
			if idx < 0 || idx >= len(g.Editors) {
				return validateMRUMismatch
			}
		}
		if g.Preview != nil && (*g.Preview < 0 || *g.Preview >= len(g.Editors)) {
			return validatePreviewOutOfRange
		}
		if strings.TrimSpace(g.Label) == "" {
			return validateEmptyLabel
		}
	}
	return validateOK
}

// ensureLoaded restores the previous session on first access. Any defect in
// the stored record discards it wholesale and the model starts empty.
func (m *Model) ensureLoaded() {
	if m.loaded {
		return
	}
	m.loaded = true
	if m.skipRestore {
		return
	}

	raw, found, err := m.store.Get(stacksKey)
	if err != nil {
		m.logf("stacks: load: %v", err)
		return
	}
	if !found {
		m.migrateLegacy()
		return
	}

	var s serializedModel
	if err := json.Unmarshal(raw, &s); err != nil {
		m.logf("stacks: discarding persisted state: %v", err)
		return
	}
	if code := doValidate(s); code != validateOK {
		m.logf("stacks: discarding persisted state: validation code %d", code)
		return
	}

	activeIndex := -1
	if s.Active != nil {
		activeIndex = *s.Active
	}
	for i, sg := range s.Groups {
		g := deserializeGroup(m.allocGroupID(), sg, m.registry, m.policy)
		if g.Count() == 0 {
			// every editor of this group failed to deserialize
			if i == activeIndex {
				activeIndex = -1
			}
			continue
		}
		if i == activeIndex {
			m.active = g
		}
		m.groups = append(m.groups, g)
		m.hookGroup(g)
	}
	if m.active == nil && len(m.groups) > 0 {
		m.active = m.groups[0]
	}

	m.recentlyClosed = append(m.recentlyClosed, s.LastClosed...)
	if len(m.recentlyClosed) > maxRecentlyClosed {
		m.recentlyClosed = m.recentlyClosed[len(m.recentlyClosed)-maxRecentlyClosed:]
	}
}

// migrateLegacy converts the old flat editor list into up to three single
// editor groups, then removes the legacy key. Failures reset to empty.
func (m *Model) migrateLegacy() {
	raw, found, err := m.store.Get(legacyKey)
	if err != nil {
		m.logf("stacks: legacy load: %v", err)
		return
	}
	if !found {
		return
	}

	var entries []legacyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		m.logf("stacks: legacy state unreadable, starting empty: %v", err)
		m.groups = nil
		m.active = nil
		return
	}

	for _, e := range entries {
		if len(m.groups) == maxPersistedGroups {
			break
		}
		in, err := m.registry.Deserialize(e.InputID, e.InputValue)
		if err != nil || in == nil {
			continue
		}
		g := newGroup(m.allocGroupID(), in.Name(), m.policy)
		m.groups = append(m.groups, g)
		m.hookGroup(g)
		g.OpenEditor(in, OpenOptions{Pinned: true, Active: true, Index: -1})
	}
	if len(m.groups) > 0 {
		m.active = m.groups[0]
	}
	if err := m.store.Delete(legacyKey); err != nil {
		m.logf("stacks: remove legacy state: %v", err)
	}
}

// Save writes the model as one record. Groups whose editors all turn out
// non-serializable are dropped; the active index is recomputed only when
// nothing was dropped, otherwise it falls back to 0 (or is omitted when no
// group survives). A model that was never loaded is left untouched on disk.
func (m *Model) Save() error {
	if !m.loaded {
		return nil
	}

	var s serializedModel
	dropped := false
	for _, g := range m.groups {
		sg := g.Serialize(m.registry)
		if len(sg.Editors) == 0 {
			dropped = true
			continue
		}
		s.Groups = append(s.Groups, sg)
	}

	if !dropped {
		if m.active != nil {
			index := m.indexOfGroup(m.active)
			s.Active = &index
		}
	} else if len(s.Groups) > 0 {
		zero := 0
		s.Active = &zero
	}

	s.LastClosed = m.recentlyClosed

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.store.Set(stacksKey, raw)
}
