package vault

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"nn-go/internal/nn"
)

func TestFileSystemVault(t *testing.T) {
	testVaultContract(t, func(t *testing.T) nn.Vault {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		return v
	})
}

func TestNewFileSystemVault_CreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")

	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "backups")); err != nil {
		t.Errorf("backups directory not created: %v", err)
	}
	if v.name != "test" {
		t.Errorf("name = %q, want %q", v.name, "test")
	}
}

func TestFileSystemVault_FailedPutLeavesNoFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutBackup(ctx, "b", bytes.NewReader([]byte("abc")), 99); err == nil {
		t.Fatal("PutBackup() with wrong size should fail")
	}

	entries, err := os.ReadDir(filepath.Join(root, "backups"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("backups directory has %d entries after failed put, want 0", len(entries))
	}
}

func TestFileSystemVault_ListSkipsTempFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "backups", ".tmp-123"), []byte("partial"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := v.PutBackup(ctx, "real", bytes.NewReader([]byte("x")), 1); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}

	got, err := v.ListBackups(ctx)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "real" {
		t.Errorf("ListBackups() = %+v, want only %q", got, "real")
	}
}

func TestFileSystemVault_ValidateSetup_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() should fail once the root is gone")
	}
}
