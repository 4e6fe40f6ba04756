// Package storage provides the key/value backend that persisted workbench
// state is written to. The stacks model sees only the Store interface.
package storage

// Store is a blob store keyed by string. Get reports found=false for a
// missing key rather than an error.
type Store interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Memory is a map-backed Store for tests and ephemeral sessions.
type Memory struct {
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
