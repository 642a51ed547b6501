package terminal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	s := &DirSaver{Dir: dir}

	path, err := s.Save(context.Background(), []byte("payload"), "notesnook-backup-1.nnbackup")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "notesnook-backup-1.nnbackup"); path != want {
		t.Errorf("Save() path = %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("saved contents = %q", got)
	}

	// overwriting replaces the file
	if _, err := s.Save(context.Background(), []byte("v2"), "notesnook-backup-1.nnbackup"); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "v2" {
		t.Errorf("contents after overwrite = %q", got)
	}
}

func TestDirSaver_RejectsPaths(t *testing.T) {
	s := &DirSaver{Dir: t.TempDir()}
	for _, name := range []string{"", "../escape.nnbackup", "a/b.nnbackup"} {
		if _, err := s.Save(context.Background(), []byte("x"), name); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
}
