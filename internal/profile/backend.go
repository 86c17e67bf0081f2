package profile

import (
	"io/fs"
	"os"
)

// Backend abstracts where the serialized profile set lives, so the
// load-everything/rewrite-everything store can later be swapped onto
// an atomic-write or transactional implementation without changing
// Store's contract. A Load that returns fs.ErrNotExist means "nothing
// persisted yet" and is not an error condition.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
	// Location describes the backing resource for log messages.
	Location() string
}

// FileBackend reads and rewrites a single flat file.
type FileBackend struct {
	Path string
}

func (b FileBackend) Load() ([]byte, error) {
	return os.ReadFile(b.Path)
}

func (b FileBackend) Save(data []byte) error {
	return os.WriteFile(b.Path, data, 0o644)
}

func (b FileBackend) Location() string { return b.Path }

// MemoryBackend keeps the serialized bytes in memory. Used by tests
// and by ephemeral sessions that do not want a users file on disk.
type MemoryBackend struct {
	data []byte
}

func (b *MemoryBackend) Load() ([]byte, error) {
	if b.data == nil {
		return nil, fs.ErrNotExist
	}
	return b.data, nil
}

func (b *MemoryBackend) Save(data []byte) error {
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Location() string { return "(memory)" }
