package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nn-go/internal/database/migrations"
	"nn-go/internal/model"
	"nn-go/internal/nn"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const memoryPath = ":memory:"

// SQLiteDatabase implements nn.Database using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the database at path and applies pending migrations.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs nn relies on.
// It does not run migrations.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Note operations

func (s *SQLiteDatabase) CreateNote(ctx context.Context, note *model.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.Title, note.Content, note.Pinned, note.CreatedAt.UTC(), note.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("creating note: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindNoteByID(ctx context.Context, id string) (*model.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, pinned, created_at, updated_at FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding note by id: %w", err)
	}
	return note, nil
}

// ListNotes returns all notes, pinned first, then most recently updated.
func (s *SQLiteDatabase) ListNotes(ctx context.Context) ([]*model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, pinned, created_at, updated_at FROM notes ORDER BY pinned DESC, updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Setting operations

func (s *SQLiteDatabase) SetSetting(ctx context.Context, key, value string) error {
	if err := upsertSetting(ctx, s.db, key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteDatabase) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var settings []*model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		settings = append(settings, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

// MergeBackup folds restored notes and settings into the database in a single
// transaction. A note that does not exist is inserted; an existing note is
// replaced only when the incoming copy has a later UpdatedAt. Settings are
// always overwritten. Either everything is applied or nothing is.
func (s *SQLiteDatabase) MergeBackup(ctx context.Context, notes []*model.Note, settings []*model.Setting) (*model.MergeResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result := &model.MergeResult{}
	for _, n := range notes {
		row := tx.QueryRowContext(ctx,
			`SELECT id, title, content, pinned, created_at, updated_at FROM notes WHERE id = ?`, n.ID)
		existing, err := scanNote(row)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				`INSERT INTO notes (id, title, content, pinned, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
				n.ID, n.Title, n.Content, n.Pinned, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
			if err != nil {
				return nil, fmt.Errorf("inserting note %s: %w", n.ID, err)
			}
			result.NotesAdded++
		case err != nil:
			return nil, fmt.Errorf("loading note %s: %w", n.ID, err)
		case n.UpdatedAt.After(existing.UpdatedAt):
			_, err = tx.ExecContext(ctx,
				`UPDATE notes SET title = ?, content = ?, pinned = ?, updated_at = ? WHERE id = ?`,
				n.Title, n.Content, n.Pinned, n.UpdatedAt.UTC(), n.ID)
			if err != nil {
				return nil, fmt.Errorf("updating note %s: %w", n.ID, err)
			}
			result.NotesUpdated++
		default:
			result.NotesSkipped++
		}
	}

	for _, st := range settings {
		if err := upsertSetting(ctx, tx, st.Key, st.Value); err != nil {
			return nil, fmt.Errorf("restoring setting %s: %w", st.Key, err)
		}
		result.Settings++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return result, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, operation, parameters string, startedAt time.Time) (*model.Operation, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (operation, parameters, started_at, status) VALUES (?, ?, ?, 'running')`,
		operation, parameters, startedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return &model.Operation{
		ID:         id,
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  startedAt.UTC(),
		Status:     model.StatusRunning,
	}, nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`, status, finishedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

// ListOperations returns up to limit operations, newest first.
func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*model.Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, parameters, started_at, finished_at, status FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.StartedAt, &op.FinishedAt, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*model.Note, error) {
	var n model.Note
	if err := r.Scan(&n.ID, &n.Title, &n.Content, &n.Pinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSetting(ctx context.Context, e execer, key, value string) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// Compile-time check that SQLiteDatabase implements nn.Database.
var _ nn.Database = (*SQLiteDatabase)(nil)
