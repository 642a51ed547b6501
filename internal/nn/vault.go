package nn

import (
	"context"
	"io"
	"time"
)

// Vault stores encrypted backup copies away from the local machine.
type Vault interface {
	// PutBackup stores a backup object under name, replacing any existing one.
	// size is the number of bytes that will be read from r.
	PutBackup(ctx context.Context, name string, r io.Reader, size int64) error

	// GetBackup writes the named backup object to w.
	GetBackup(ctx context.Context, name string, w io.Writer) error

	// ListBackups returns the stored backup objects, newest first.
	ListBackups(ctx context.Context) ([]RemoteBackup, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}

// RemoteBackup describes one object in a vault.
type RemoteBackup struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}
