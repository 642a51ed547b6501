package model

import (
	"database/sql"
	"time"
)

// Note is a single note in the local notes database.
type Note struct {
	ID        string    `json:"id"` // UUID
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"` // newer wins when a backup is merged in
}

// Setting is a user preference stored alongside the notes and carried in backups.
type Setting struct {
	Key   string
	Value string
}

// Operation records one backup-related command run against the database.
type Operation struct {
	ID         int64
	Operation  string // e.g. "CreateBackup", "RestoreBackup"
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string // "running", "success", "error" or "cancelled"
}

// Operation statuses.
const (
	StatusRunning   = "running"
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// MergeResult counts what a restore changed in the local database.
type MergeResult struct {
	NotesAdded   int
	NotesUpdated int
	NotesSkipped int // local copy was as new or newer
	Settings     int
}
