package testutil

import (
	"context"
	"sync"

	"nn-go/internal/nn"
)

// ExportCall records one BackupStore.Export call.
type ExportCall struct {
	Target  string
	Encrypt bool
}

// ImportCall records one BackupStore.Import call.
type ImportCall struct {
	Backup   *nn.Backup
	Password string
}

// FakeBackupStore is a scripted nn.BackupStore that records its calls.
type FakeBackupStore struct {
	mu sync.Mutex

	ExportData []byte
	ExportErr  error
	// ImportErrs are returned by successive Import calls; once exhausted Import succeeds.
	ImportErrs []error

	// OnExport, if set, runs inside Export before it returns. Tests use it to
	// hold an operation open.
	OnExport func(ctx context.Context)
	// OnImport, if set, runs at the start of Import.
	OnImport func(ctx context.Context)

	Exports []ExportCall
	Imports []ImportCall
}

func (f *FakeBackupStore) Export(ctx context.Context, target string, encrypt bool) ([]byte, error) {
	f.mu.Lock()
	f.Exports = append(f.Exports, ExportCall{Target: target, Encrypt: encrypt})
	hook := f.OnExport
	f.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	return f.ExportData, f.ExportErr
}

func (f *FakeBackupStore) Import(ctx context.Context, backup *nn.Backup, password string) error {
	if f.OnImport != nil {
		f.OnImport(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Imports = append(f.Imports, ImportCall{Backup: backup, Password: password})
	if len(f.ImportErrs) > 0 {
		err := f.ImportErrs[0]
		f.ImportErrs = f.ImportErrs[1:]
		return err
	}
	return nil
}

// ImportCalls returns a copy of the recorded Import calls.
func (f *FakeBackupStore) ImportCalls() []ImportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ImportCall(nil), f.Imports...)
}

// ExportCalls returns a copy of the recorded Export calls.
func (f *FakeBackupStore) ExportCalls() []ExportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExportCall(nil), f.Exports...)
}
