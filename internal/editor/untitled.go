package editor

import "github.com/google/uuid"

// UntitledTypeID is the registry kind for unsaved buffers.
const UntitledTypeID = "tabwell.input.untitled"

// UntitledInput is a buffer that has never been saved. Identity is a uuid
// so two untitled buffers never match each other.
type UntitledInput struct {
	lifecycle
	id      string
	name    string
	content string
}

func NewUntitledInput(name string) *UntitledInput {
	return &UntitledInput{id: uuid.NewString(), name: name}
}

func (u *UntitledInput) ID() string      { return u.id }
func (u *UntitledInput) TypeID() string  { return UntitledTypeID }
func (u *UntitledInput) Name() string    { return u.name }
func (u *UntitledInput) Content() string { return u.content }

// Dirty is true once the buffer holds any content.
func (u *UntitledInput) Dirty() bool { return u.content != "" }

func (u *UntitledInput) SetName(name string) {
	if u.name == name {
		return
	}
	u.name = name
	u.markChanged()
}

func (u *UntitledInput) SetContent(content string) {
	if u.content == content {
		return
	}
	u.content = content
	u.markChanged()
}

func (u *UntitledInput) Matches(other Input) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*UntitledInput); ok {
		return o.id == u.id
	}
	return false
}

func (u *UntitledInput) Close() {
	u.markDisposed()
}
