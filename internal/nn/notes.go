package nn

import (
	"context"
	"fmt"
	"strings"

	"nn-go/internal/model"
)

// AddNote creates a note with a fresh id.
func (s *Service) AddNote(ctx context.Context, title, content string, pinned bool) (*model.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("note title is required")
	}

	now := s.clock.Now().UTC()
	note := &model.Note{
		ID:        s.idgen.New(),
		Title:     title,
		Content:   content,
		Pinned:    pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.database.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}

	s.logger.Info("note added", "id", note.ID)
	return note, nil
}

// ListNotes returns every note, pinned first.
func (s *Service) ListNotes(ctx context.Context) ([]*model.Note, error) {
	notes, err := s.database.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// SetSetting stores a preference that travels with backups.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	if err := s.database.SetSetting(ctx, key, value); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	s.logger.Info("setting saved", "key", key)
	return nil
}

func (s *Service) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	settings, err := s.database.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

// GetHistory returns the most recent operations, ordered newest first.
func (s *Service) GetHistory(ctx context.Context, limit int) ([]*model.Operation, error) {
	ops, err := s.database.ListOperations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
