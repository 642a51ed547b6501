package nn

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flytam/filenamify"
)

const (
	maxFilenameBytes = 255
	replacement      = "-"
)

// backupDateLayout renders like the en-US locale string, e.g. "3/1/2024, 2:05:09 PM".
const backupDateLayout = "1/2/2006, 3:04:05 PM"

// windowsNames matches reserved device names, with or without an extension.
var windowsNames = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)

// SanitizeFilename makes raw safe to use as a file name on common filesystems.
// Illegal and control characters become "-", reserved names are replaced, and
// the result is valid UTF-8 of at most 255 bytes.
func SanitizeFilename(raw string) string {
	s, err := filenamify.Filenamify(strings.ToValidUTF8(raw, replacement), filenamify.Options{
		Replacement: replacement,
		MaxLength:   maxFilenameBytes,
	})
	if err != nil {
		return "untitled"
	}

	s = strings.ToValidUTF8(s, "")
	if windowsNames.MatchString(s) {
		s = replacement
	}
	s = strings.TrimRight(s, ". ")
	s = truncateUTF8(s, maxFilenameBytes)

	if s == "" {
		return "untitled"
	}
	return s
}

// BackupFilename returns the sanitized name, without extension, of a backup taken at t.
func BackupFilename(t time.Time) string {
	return SanitizeFilename("notesnook-backup-" + t.Format(backupDateLayout))
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
