package terminal

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"nn-go/internal/nn"
)

// DirSaver writes backups into a directory. A file is either fully written
// or not there at all.
type DirSaver struct {
	Dir string
}

var _ nn.FileSaver = (*DirSaver)(nil)

func (s *DirSaver) Save(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid backup file name %q", filename)
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, filename)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
