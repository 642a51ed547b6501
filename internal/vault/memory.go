package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"nn-go/internal/nn"
)

type memoryObject struct {
	data    []byte
	modTime time.Time
}

// MemoryVault keeps backups in memory. It is safe for concurrent use.
type MemoryVault struct {
	name    string
	objects map[string]memoryObject
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (m *MemoryVault) PutBackup(_ context.Context, name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = memoryObject{data: data, modTime: m.now()}
	return nil
}

func (m *MemoryVault) GetBackup(_ context.Context, name string, w io.Writer) error {
	m.mu.RLock()
	obj, ok := m.objects[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

func (m *MemoryVault) ListBackups(_ context.Context) ([]nn.RemoteBackup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	backups := make([]nn.RemoteBackup, 0, len(m.objects))
	for name, obj := range m.objects {
		backups = append(backups, nn.RemoteBackup{Name: name, Size: int64(len(obj.data)), ModifiedAt: obj.modTime})
	}
	sortNewestFirst(backups)
	return backups, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup(context.Context) error {
	return nil
}

// Compile-time check that MemoryVault implements nn.Vault.
var _ nn.Vault = (*MemoryVault)(nil)
