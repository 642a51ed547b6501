package vault

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"nn-go/internal/nn"
)

// testVaultContract runs the behaviour every nn.Vault must share.
func testVaultContract(t *testing.T, newVault func(t *testing.T) nn.Vault) {
	t.Helper()
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		v := newVault(t)
		data := []byte("sealed backup bytes")
		if err := v.PutBackup(ctx, "b1.nnbackup.age", bytes.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("PutBackup() error = %v", err)
		}

		var got bytes.Buffer
		if err := v.GetBackup(ctx, "b1.nnbackup.age", &got); err != nil {
			t.Fatalf("GetBackup() error = %v", err)
		}
		if !bytes.Equal(got.Bytes(), data) {
			t.Errorf("GetBackup() = %q, want %q", got.Bytes(), data)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		v := newVault(t)
		for _, s := range []string{"first", "second"} {
			if err := v.PutBackup(ctx, "same", bytes.NewReader([]byte(s)), int64(len(s))); err != nil {
				t.Fatalf("PutBackup(%s) error = %v", s, err)
			}
		}
		var got bytes.Buffer
		if err := v.GetBackup(ctx, "same", &got); err != nil {
			t.Fatalf("GetBackup() error = %v", err)
		}
		if got.String() != "second" {
			t.Errorf("GetBackup() = %q, want %q", got.String(), "second")
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		v := newVault(t)
		if err := v.PutBackup(ctx, "short", bytes.NewReader([]byte("abc")), 100); err == nil {
			t.Error("PutBackup() with wrong size should fail")
		}
	})

	t.Run("missing backup", func(t *testing.T) {
		v := newVault(t)
		var got bytes.Buffer
		err := v.GetBackup(ctx, "nope", &got)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetBackup() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects path-like names", func(t *testing.T) {
		v := newVault(t)
		for _, name := range []string{"", "..", "../escape", "a/b", `a\b`, ".hidden"} {
			if err := v.PutBackup(ctx, name, bytes.NewReader(nil), 0); err == nil {
				t.Errorf("PutBackup(%q) should fail", name)
			}
		}
	})

	t.Run("list", func(t *testing.T) {
		v := newVault(t)
		for _, name := range []string{"a", "b"} {
			if err := v.PutBackup(ctx, name, bytes.NewReader([]byte(name+name)), 2); err != nil {
				t.Fatalf("PutBackup(%s) error = %v", name, err)
			}
		}
		got, err := v.ListBackups(ctx)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListBackups() returned %d, want 2", len(got))
		}
		names := map[string]int64{}
		for _, b := range got {
			names[b.Name] = b.Size
		}
		if names["a"] != 2 || names["b"] != 2 {
			t.Errorf("ListBackups() = %+v", got)
		}
	})

	t.Run("validate", func(t *testing.T) {
		if err := newVault(t).ValidateSetup(ctx); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}
