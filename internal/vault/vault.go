package vault

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"nn-go/internal/nn"
)

// ErrNotFound is returned when a named backup does not exist in a vault.
var ErrNotFound = errors.New("backup not found in vault")

// checkName rejects names that could escape the vault's namespace.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid backup name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid backup name %q", name)
	}
	return nil
}

// sortNewestFirst orders backups by modification time, newest first, then by name.
func sortNewestFirst(backups []nn.RemoteBackup) {
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].ModifiedAt.Equal(backups[j].ModifiedAt) {
			return backups[i].ModifiedAt.After(backups[j].ModifiedAt)
		}
		return backups[i].Name < backups[j].Name
	})
}
