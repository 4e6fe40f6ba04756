package stacks

import "github.com/orenlev/tabwell/internal/editor"

// SerializedInput is one persisted editor: the factory kind and the value
// the factory produced.
type SerializedInput struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// SerializedGroup is the persisted projection of a Group. MRU holds indices
// into Editors; the active editor is implicitly MRU head. Preview is an
// index into Editors, absent when the group has no persistable preview.
type SerializedGroup struct {
	Label   string            `json:"label"`
	Editors []SerializedInput `json:"editors"`
	MRU     []int             `json:"mru"`
	Preview *int              `json:"preview,omitempty"`
}

// Serialize projects the group through the factory registry. Editors whose
// kind has no factory, or whose factory declines them, are silently dropped
// and the mru/preview indices are remapped around them.
func (g *Group) Serialize(registry *editor.Registry) SerializedGroup {
	s := SerializedGroup{Label: g.label}

	stored := make(map[int]int, len(g.editors)) // display index -> stored index
	for i, in := range g.editors {
		value, ok := registry.Serialize(in)
		if !ok {
			continue
		}
		stored[i] = len(s.Editors)
		s.Editors = append(s.Editors, SerializedInput{ID: in.TypeID(), Value: value})
	}

	for _, in := range g.mru {
		if idx, ok := stored[g.IndexOf(in)]; ok {
			s.MRU = append(s.MRU, idx)
		}
	}

	if g.preview != nil {
		if idx, ok := stored[g.IndexOf(g.preview)]; ok {
			preview := idx
			s.Preview = &preview
		}
	}
	return s
}

// deserializeGroup rebuilds a group from its snapshot. Editors that fail to
// deserialize are dropped with the same index remapping as on the serialize
// side. Active becomes the MRU head. Group ids are never persisted; the
// model assigns a fresh one.
func deserializeGroup(id int, s SerializedGroup, registry *editor.Registry, policy Policy) *Group {
	g := newGroup(id, s.Label, policy)

	restored := make(map[int]int, len(s.Editors)) // stored index -> display index
	for i, se := range s.Editors {
		in, err := registry.Deserialize(se.ID, se.Value)
		if err != nil || in == nil {
			continue
		}
		restored[i] = len(g.editors)
		g.insertAt(len(g.editors), in)
	}

	for _, idx := range s.MRU {
		if j, ok := restored[idx]; ok {
			g.mru = append(g.mru, g.editors[j])
		}
	}
	if len(g.mru) > 0 {
		g.active = g.mru[0]
	}
	if s.Preview != nil {
		if j, ok := restored[*s.Preview]; ok {
			g.preview = g.editors[j]
		}
	}
	return g
}
