package editor

import "path/filepath"

// FileTypeID is the registry kind for path-backed inputs.
const FileTypeID = "tabwell.input.file"

// FileInput is a handle on a file on disk. Two file inputs match when they
// point at the same path, regardless of instance.
type FileInput struct {
	lifecycle
	path  string
	dirty bool
}

func NewFileInput(path string) *FileInput {
	return &FileInput{path: filepath.Clean(path)}
}

func (f *FileInput) ID() string     { return f.path }
func (f *FileInput) TypeID() string { return FileTypeID }
func (f *FileInput) Name() string   { return filepath.Base(f.path) }
func (f *FileInput) Path() string   { return f.path }
func (f *FileInput) Dirty() bool    { return f.dirty }

// SetDirty flips the dirty flag and notifies change listeners.
func (f *FileInput) SetDirty(dirty bool) {
	if f.dirty == dirty {
		return
	}
	f.dirty = dirty
	f.markChanged()
}

func (f *FileInput) Matches(other Input) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*FileInput); ok {
		return o.path == f.path
	}
	return false
}

func (f *FileInput) Close() {
	f.markDisposed()
}
