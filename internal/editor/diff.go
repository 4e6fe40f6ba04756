package editor

import "fmt"

// DiffTypeID is the registry kind for side-by-side comparisons.
const DiffTypeID = "tabwell.input.diff"

// DiffInput compares two sub-handles. Closing a diff input releases only
// the composite; each sub-handle is closed by the stacks model once it is
// no longer referenced by any group.
type DiffInput struct {
	lifecycle
	name     string
	original Input
	modified Input
}

func NewDiffInput(name string, original, modified Input) *DiffInput {
	if name == "" {
		name = fmt.Sprintf("%s ↔ %s", original.Name(), modified.Name())
	}
	return &DiffInput{name: name, original: original, modified: modified}
}

func (d *DiffInput) ID() string {
	return fmt.Sprintf("diff:%s:%s", d.original.ID(), d.modified.ID())
}

func (d *DiffInput) TypeID() string  { return DiffTypeID }
func (d *DiffInput) Name() string    { return d.name }
func (d *DiffInput) Original() Input { return d.original }
func (d *DiffInput) Modified() Input { return d.modified }

// Dirty follows the editable side.
func (d *DiffInput) Dirty() bool { return d.modified.Dirty() }

func (d *DiffInput) Matches(other Input) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*DiffInput); ok {
		return d.original.Matches(o.original) && d.modified.Matches(o.modified)
	}
	return false
}

func (d *DiffInput) Close() {
	d.markDisposed()
}
