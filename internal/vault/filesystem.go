package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nn-go/internal/nn"
)

// FileSystemVault stores backups as files under a root directory:
//
//	<root>/
//	  backups/
//	    <name>     (one file per pushed backup)
type FileSystemVault struct {
	name      string
	root      string
	backupDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	backupDir := filepath.Join(root, "backups")
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &FileSystemVault{
		name:      name,
		root:      root,
		backupDir: backupDir,
	}, nil
}

// PutBackup stores r under name, replacing any previous backup with that name.
func (v *FileSystemVault) PutBackup(_ context.Context, name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	return v.writeFile(filepath.Join(v.backupDir, name), r, size)
}

func (v *FileSystemVault) GetBackup(_ context.Context, name string, w io.Writer) error {
	if err := checkName(name); err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(v.backupDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return nil
}

func (v *FileSystemVault) ListBackups(_ context.Context) ([]nn.RemoteBackup, error) {
	entries, err := os.ReadDir(v.backupDir)
	if err != nil {
		return nil, fmt.Errorf("reading backups directory: %w", err)
	}

	var backups []nn.RemoteBackup
	for _, e := range entries {
		// Skip in-flight temp files.
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		backups = append(backups, nn.RemoteBackup{Name: e.Name(), Size: info.Size(), ModifiedAt: info.ModTime()})
	}
	sortNewestFirst(backups)
	return backups, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup(context.Context) error {
	for _, dir := range []string{v.root, v.backupDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes r to destPath through a temp file and rename, so readers
// never see a partial backup.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

// Compile-time check that FileSystemVault implements nn.Vault.
var _ nn.Vault = (*FileSystemVault)(nil)
