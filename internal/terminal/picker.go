package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"nn-go/internal/nn"
)

// mimeExtensions maps the MIME types that may appear in an accept list to
// file extensions.
var mimeExtensions = map[string][]string{
	"application/json": {".json"},
}

// File is a backup file on disk.
type File struct {
	Path string
}

var _ nn.FileHandle = (*File)(nil)

func (f *File) Name() string                 { return filepath.Base(f.Path) }
func (f *File) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// Picker selects a backup file. If Path is set it is used as is. Otherwise
// the files in Dir that match the accept list are listed, newest first, and
// the user chooses one by number.
type Picker struct {
	Path string
	Dir  string

	in  *bufio.Reader
	out io.Writer
}

var _ nn.FilePicker = (*Picker)(nil)

// NewPicker returns a Picker that lists dir. path, when not empty, skips the
// listing.
func NewPicker(path, dir string, in io.Reader, out io.Writer) *Picker {
	return &Picker{Path: path, Dir: dir, in: bufio.NewReader(in), out: out}
}

// Pick returns nil, nil when there is nothing to choose or the user enters
// an empty line, and ctx.Err() when ctx ends the wait for a choice.
func (p *Picker) Pick(ctx context.Context, accept string) (nn.FileHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.Path != "" {
		abs, err := filepath.Abs(p.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		return &File{Path: abs}, nil
	}

	candidates, err := listAccepted(p.Dir, accept)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		fmt.Fprintf(p.out, "No backup files found in %s\n", p.Dir) //nolint:errcheck
		return nil, nil
	}

	for i, c := range candidates {
		fmt.Fprintf(p.out, "%3d  %s  %s\n", i+1, c.modTime.Format("2006-01-02 15:04:05"), c.name) //nolint:errcheck
	}

	for {
		fmt.Fprintf(p.out, "Choose a backup [1-%d] (empty to cancel): ", len(candidates)) //nolint:errcheck
		line, err := readContext(ctx, func() (string, error) { return p.in.ReadString('\n') })
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			fmt.Fprintln(p.out) //nolint:errcheck
			return nil, err
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading choice: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil, nil
		}

		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(candidates) {
			return &File{Path: filepath.Join(p.Dir, candidates[n-1].name)}, nil
		}
		fmt.Fprintf(p.out, "%q is not a valid choice\n", line) //nolint:errcheck
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
	}
}

type candidate struct {
	name    string
	modTime time.Time
}

// listAccepted returns the regular files in dir whose extension is in accept.
// A missing dir has no candidates.
func listAccepted(dir, accept string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	exts := acceptedExtensions(accept)
	var out []candidate
	for _, e := range entries {
		if !e.Type().IsRegular() || !exts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, candidate{name: e.Name(), modTime: info.ModTime()})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].modTime.Equal(out[j].modTime) {
			return out[i].modTime.After(out[j].modTime)
		}
		return out[i].name < out[j].name
	})
	return out, nil
}

// acceptedExtensions parses an accept list such as ".nnbackup,application/json".
func acceptedExtensions(accept string) map[string]bool {
	exts := make(map[string]bool)
	for _, item := range strings.Split(accept, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		switch {
		case item == "":
		case strings.HasPrefix(item, "."):
			exts[item] = true
		default:
			for _, ext := range mimeExtensions[item] {
				exts[ext] = true
			}
		}
	}
	return exts
}
