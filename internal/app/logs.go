package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zip"
	"github.com/natefinch/atomic"
)

const defaultLogArchive = "notesnook-logs.zip"

// logFiles returns the *.log files in dir, sorted by name.
func logFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// exportLogs writes a zip archive of the log files in dir to out. Each entry
// is named after its log file. It returns the number of files archived.
func exportLogs(dir, out string) (int, error) {
	paths, err := logFiles(dir)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range paths {
		if err := addToZip(zw, p); err != nil {
			return 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finishing archive: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
	}
	if err := atomic.WriteFile(out, &buf); err != nil {
		return 0, fmt.Errorf("writing %s: %w", out, err)
	}
	return len(paths), nil
}

func addToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("archive header for %s: %w", path, err)
	}
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

// clearLogs truncates every log file in dir.
func clearLogs(dir string) error {
	paths, err := logFiles(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Truncate(p, 0); err != nil {
			return fmt.Errorf("clearing %s: %w", p, err)
		}
	}
	return nil
}
