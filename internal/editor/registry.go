package editor

import (
	"encoding/json"
	"fmt"
)

// Factory persists one input kind. Serialize returns false when the handle
// cannot be represented as a string, which excludes it from persistence.
type Factory interface {
	Serialize(in Input) (string, bool)
	Deserialize(value string) (Input, error)
}

// Registry is an explicit lookup table from input kind to factory. It is
// injected wherever persistence happens; there is no ambient registry.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(typeID string, f Factory) {
	r.factories[typeID] = f
}

func (r *Registry) Factory(typeID string) (Factory, bool) {
	f, ok := r.factories[typeID]
	return f, ok
}

// Serialize resolves the input's factory and serializes it. False when the
// kind has no factory or the factory declines the handle.
func (r *Registry) Serialize(in Input) (string, bool) {
	if in == nil {
		return "", false
	}
	f, ok := r.factories[in.TypeID()]
	if !ok {
		return "", false
	}
	return f.Serialize(in)
}

// Deserialize reconstructs a handle of the given kind.
func (r *Registry) Deserialize(typeID, value string) (Input, error) {
	f, ok := r.factories[typeID]
	if !ok {
		return nil, fmt.Errorf("editor: no factory for kind %q", typeID)
	}
	return f.Deserialize(value)
}

// RegisterBuiltins installs the factories for file, untitled and diff
// inputs. The diff factory serializes through the same registry so custom
// sub-handle kinds keep working.
func RegisterBuiltins(r *Registry) {
	r.Register(FileTypeID, fileFactory{})
	r.Register(UntitledTypeID, untitledFactory{})
	r.Register(DiffTypeID, diffFactory{registry: r})
}

type fileFactory struct{}

func (fileFactory) Serialize(in Input) (string, bool) {
	f, ok := in.(*FileInput)
	if !ok {
		return "", false
	}
	return f.Path(), true
}

func (fileFactory) Deserialize(value string) (Input, error) {
	if value == "" {
		return nil, fmt.Errorf("editor: empty file path")
	}
	return NewFileInput(value), nil
}

type untitledFactory struct{}

type serializedUntitled struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

func (untitledFactory) Serialize(in Input) (string, bool) {
	u, ok := in.(*UntitledInput)
	if !ok {
		return "", false
	}
	raw, err := json.Marshal(serializedUntitled{ID: u.ID(), Name: u.Name(), Content: u.Content()})
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (untitledFactory) Deserialize(value string) (Input, error) {
	var s serializedUntitled
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, fmt.Errorf("editor: untitled input without id")
	}
	return &UntitledInput{id: s.ID, name: s.Name, content: s.Content}, nil
}

type diffFactory struct {
	registry *Registry
}

type serializedDiff struct {
	Name          string `json:"name"`
	OriginalKind  string `json:"originalKind"`
	OriginalValue string `json:"originalValue"`
	ModifiedKind  string `json:"modifiedKind"`
	ModifiedValue string `json:"modifiedValue"`
}

func (f diffFactory) Serialize(in Input) (string, bool) {
	d, ok := in.(*DiffInput)
	if !ok {
		return "", false
	}
	// A diff is only persistable when both sides are.
	original, ok := f.registry.Serialize(d.Original())
	if !ok {
		return "", false
	}
	modified, ok := f.registry.Serialize(d.Modified())
	if !ok {
		return "", false
	}
	raw, err := json.Marshal(serializedDiff{
		Name:          d.Name(),
		OriginalKind:  d.Original().TypeID(),
		OriginalValue: original,
		ModifiedKind:  d.Modified().TypeID(),
		ModifiedValue: modified,
	})
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (f diffFactory) Deserialize(value string) (Input, error) {
	var s serializedDiff
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, err
	}
	original, err := f.registry.Deserialize(s.OriginalKind, s.OriginalValue)
	if err != nil {
		return nil, err
	}
	modified, err := f.registry.Deserialize(s.ModifiedKind, s.ModifiedValue)
	if err != nil {
		return nil, err
	}
	return NewDiffInput(s.Name, original, modified), nil
}
