// Package store implements nn.BackupStore on top of the notes database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"nn-go/internal/encryption"
	"nn-go/internal/model"
	"nn-go/internal/nn"
)

// FormatVersion is the backup file version written by Export. Import accepts
// this version and every earlier one.
const FormatVersion = 1

var (
	ErrPasswordRequired   = errors.New("backup is encrypted and no password was given")
	ErrWrongPassword      = errors.New("wrong backup password")
	ErrUnsupportedVersion = errors.New("backup was made by a newer version")
)

// Database is the part of nn.Database the store reads and writes.
type Database interface {
	ListNotes(ctx context.Context) ([]*model.Note, error)
	ListSettings(ctx context.Context) ([]*model.Setting, error)
	MergeBackup(ctx context.Context, notes []*model.Note, settings []*model.Setting) (*model.MergeResult, error)
}

// payload is the plaintext content of a backup's data field.
type payload struct {
	Notes    []*model.Note     `json:"notes"`
	Settings map[string]string `json:"settings,omitempty"`
}

// SQLiteStore exports and imports backups of the local notes database.
type SQLiteStore struct {
	db     Database
	keys   KeySource
	cipher *encryption.PasswordCipher
	clock  nn.Clock
	logger nn.Logger
}

var _ nn.BackupStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store. keys supplies the password for encrypted
// exports and may be nil when encryption is never requested.
func NewSQLiteStore(db Database, keys KeySource, cipher *encryption.PasswordCipher, clock nn.Clock, logger nn.Logger) *SQLiteStore {
	if cipher == nil {
		cipher = encryption.NewPasswordCipher()
	}
	return &SQLiteStore{db: db, keys: keys, cipher: cipher, clock: clock, logger: logger}
}

// Export serializes every note and setting into a backup file.
func (s *SQLiteStore) Export(ctx context.Context, target string, encrypt bool) ([]byte, error) {
	notes, err := s.db.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	settings, err := s.db.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	p := payload{Notes: notes, Settings: make(map[string]string, len(settings))}
	if p.Notes == nil {
		p.Notes = []*model.Note{}
	}
	for _, st := range settings {
		p.Settings[st.Key] = st.Value
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	if encrypt {
		if data, err = s.seal(ctx, data); err != nil {
			return nil, err
		}
	}

	file, err := json.Marshal(nn.Backup{
		Version: FormatVersion,
		Type:    target,
		Date:    s.clock.Now().UnixMilli(),
		Data:    data,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}

	s.logger.Info("backup exported", "notes", len(notes), "settings", len(settings), "encrypted", encrypt, "target", target)
	return file, nil
}

func (s *SQLiteStore) seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	if s.keys == nil {
		return nil, fmt.Errorf("encrypting backup: %w", ErrKeyNotFound)
	}
	password, err := s.keys.GetPassword(ctx)
	if err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}

	sealed, err := s.cipher.Seal(plaintext, password)
	if err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}

	if err := s.keys.PersistPassword(ctx, password); err != nil && !errors.Is(err, ErrUnsupported) {
		s.logger.Warn("could not remember backup password", "error", err)
	}

	data, err := json.Marshal(sealed)
	if err != nil {
		return nil, fmt.Errorf("encoding sealed payload: %w", err)
	}
	return data, nil
}

// Import merges a backup into the database. Notes are matched by id and the
// newer copy wins; settings from the backup replace local ones.
func (s *SQLiteStore) Import(ctx context.Context, backup *nn.Backup, password string) error {
	if backup.Version > FormatVersion {
		return fmt.Errorf("%w: version %d, newest supported is %d", ErrUnsupportedVersion, backup.Version, FormatVersion)
	}

	data := []byte(backup.Data)
	state, err := nn.DetectEncryption(backup)
	if err != nil {
		return err
	}
	if state == nn.StatePasswordRequired {
		if password == "" {
			return ErrPasswordRequired
		}
		var sealed encryption.Sealed
		if err := json.Unmarshal(data, &sealed); err != nil {
			return fmt.Errorf("decoding encrypted payload: %w", err)
		}
		data, err = s.cipher.Open(&sealed, password)
		if errors.Is(err, encryption.ErrWrongPassword) {
			return ErrWrongPassword
		}
		if err != nil {
			return fmt.Errorf("decrypting payload: %w", err)
		}
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}

	now := s.clock.Now().UTC()
	for i, n := range p.Notes {
		if n == nil || n.ID == "" {
			return fmt.Errorf("note %d has no id", i)
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.CreatedAt
		}
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	settings := make([]*model.Setting, 0, len(keys))
	for _, k := range keys {
		settings = append(settings, &model.Setting{Key: k, Value: p.Settings[k]})
	}

	res, err := s.db.MergeBackup(ctx, p.Notes, settings)
	if err != nil {
		return fmt.Errorf("applying backup: %w", err)
	}

	s.logger.Info("backup imported",
		"added", res.NotesAdded, "updated", res.NotesUpdated, "skipped", res.NotesSkipped, "settings", res.Settings)
	return nil
}
