package nn

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BackupExt is the extension of backup files, without the dot.
const BackupExt = "nnbackup"

// AcceptBackupFiles is the picker filter for backup files.
const AcceptBackupFiles = ".nnbackup,application/json"

// Backup is a parsed backup file. Data is kept raw; only the backup store
// interprets it, apart from the iv and salt fields read by DetectEncryption.
type Backup struct {
	Version int             `json:"version,omitempty"`
	Type    string          `json:"type,omitempty"`
	Date    int64           `json:"date,omitempty"` // unix millis
	Data    json.RawMessage `json:"data,omitempty"`
}

// BackupEnvelope is the result of an export: the file bytes and the name
// they should be stored under.
type BackupEnvelope struct {
	Data     []byte
	Filename string
	Ext      string
}

// FullName returns Filename with the extension appended.
func (e *BackupEnvelope) FullName() string {
	return e.Filename + "." + e.Ext
}

// ParseBackup decodes the contents of a backup file.
func ParseBackup(raw []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &b, nil
}

// RestoreState is a step of the restore state machine.
type RestoreState int

const (
	StateUnknown RestoreState = iota
	StatePasswordRequired
	StateDirectRestore
	StateRestored
	StateFailed
	StateCancelled
	StateRejected
)

func (s RestoreState) String() string {
	switch s {
	case StatePasswordRequired:
		return "password-required"
	case StateDirectRestore:
		return "direct-restore"
	case StateRestored:
		return "restored"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// DetectEncryption moves a backup out of StateUnknown. Both iv and salt mean
// StatePasswordRequired and neither means StateDirectRestore. A backup
// without a data object, or with only one of the two fields, is
// StateRejected with ErrMissingData or ErrInconsistentEncryption.
func DetectEncryption(b *Backup) (RestoreState, error) {
	if b == nil || len(b.Data) == 0 {
		return StateRejected, ErrMissingData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Data, &fields); err != nil || fields == nil {
		return StateRejected, ErrMissingData
	}

	iv, salt := present(fields["iv"]), present(fields["salt"])
	switch {
	case iv && salt:
		return StatePasswordRequired, nil
	case !iv && !salt:
		return StateDirectRestore, nil
	default:
		return StateRejected, ErrInconsistentEncryption
	}
}

// present reports whether a JSON value would count as set: it exists and is
// not null, false, 0 or the empty string.
func present(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", "0", `""`:
		return false
	}
	return true
}
