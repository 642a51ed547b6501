package nn

import (
	"context"
	"time"

	"nn-go/internal/model"
)

// Database is the local notes database.
// Lookups that find nothing return nil, nil.
type Database interface {
	CreateNote(ctx context.Context, note *model.Note) error
	FindNoteByID(ctx context.Context, id string) (*model.Note, error)
	ListNotes(ctx context.Context) ([]*model.Note, error)

	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]*model.Setting, error)

	// MergeBackup applies restored notes and settings in one transaction.
	MergeBackup(ctx context.Context, notes []*model.Note, settings []*model.Setting) (*model.MergeResult, error)

	CreateOperation(ctx context.Context, operation, parameters string, startedAt time.Time) (*model.Operation, error)
	FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error
	// ListOperations returns the most recent operations, newest first.
	ListOperations(ctx context.Context, limit int) ([]*model.Operation, error)

	// CheckMigrations verifies the schema matches this binary.
	CheckMigrations() error
	Close() error
}
