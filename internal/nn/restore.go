package nn

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// RestoreResult is the terminal state of one restore attempt.
type RestoreResult struct {
	State RestoreState
}

// SelectBackupFile asks the user for a backup file and parses it.
// A cancelled pick returns nil, nil. A file that cannot be read or parsed
// raises an alert and returns an error wrapping ErrParse.
func (s *Service) SelectBackupFile(ctx context.Context) (*Backup, error) {
	file, err := s.picker.Pick(ctx, AcceptBackupFiles)
	if err != nil {
		return nil, fmt.Errorf("picking backup file: %w", err)
	}
	if file == nil {
		s.logger.Debug("backup file selection cancelled")
		return nil, nil
	}

	raw, err := s.readFile(file)
	if err == nil {
		var b *Backup
		if b, err = ParseBackup(raw); err == nil {
			s.logger.Info("backup file selected", "name", file.Name(), "bytes", len(raw))
			return b, nil
		}
	}

	s.logger.Error("reading backup file failed", "name", file.Name(), "error", err)
	s.notifier.Alert(msgParseFailed)
	if !errors.Is(err, ErrParse) {
		err = fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil, err
}

func (s *Service) readFile(file FileHandle) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Name(), err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if s.opts.MaxFileSize > 0 {
		r = io.LimitReader(rc, s.opts.MaxFileSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file.Name(), err)
	}
	if s.opts.MaxFileSize > 0 && int64(len(raw)) > s.opts.MaxFileSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", file.Name(), s.opts.MaxFileSize)
	}
	return raw, nil
}

// ImportBackup selects a backup file and restores it. A cancelled pick ends
// in StateCancelled and an unreadable file in StateRejected; neither calls
// the backup store.
func (s *Service) ImportBackup(ctx context.Context) (RestoreResult, error) {
	release, err := s.acquire("ImportBackup")
	if err != nil {
		return RestoreResult{State: StateRejected}, err
	}
	defer release()

	b, err := s.SelectBackupFile(ctx)
	if err != nil {
		return RestoreResult{State: StateRejected}, err
	}
	if b == nil {
		return RestoreResult{State: StateCancelled}, nil
	}
	return s.restore(ctx, b)
}

// RestoreBackup restores an already parsed backup.
func (s *Service) RestoreBackup(ctx context.Context, b *Backup) (RestoreResult, error) {
	release, err := s.acquire("RestoreBackup")
	if err != nil {
		return RestoreResult{State: StateRejected}, err
	}
	defer release()

	return s.restore(ctx, b)
}

func (s *Service) restore(ctx context.Context, b *Backup) (RestoreResult, error) {
	state, err := DetectEncryption(b)
	if err != nil {
		s.logger.Warn("backup rejected", "error", err)
		if errors.Is(err, ErrInconsistentEncryption) {
			s.notifier.Alert(msgInconsistent)
		} else {
			s.notifier.Alert(msgMissingData)
		}
		return RestoreResult{State: StateRejected}, err
	}
	s.logger.Info("restore started", "state", state.String(), "version", b.Version, "type", b.Type)

	if state == StatePasswordRequired {
		return s.restoreWithPassword(ctx, b)
	}

	// The store must not be interrupted half way through applying a backup.
	err = s.progress.Run(ctx, TaskRestoreBackup, func(ctx context.Context) error {
		return s.store.Import(context.WithoutCancel(ctx), b, "")
	})
	if err != nil {
		return s.restoreFailed(err)
	}
	return s.restored()
}

// restoreWithPassword asks for the password once and runs one import with
// it. A failed import ends the restore; the user starts over to try again.
func (s *Service) restoreWithPassword(ctx context.Context, b *Backup) (RestoreResult, error) {
	password, err := s.prompter.PromptPassword(ctx, PromptBackupPassword)
	if errors.Is(err, ErrPromptCancelled) || (err == nil && password == "") {
		s.logger.Info("restore cancelled at password prompt")
		return RestoreResult{State: StateCancelled}, nil
	}
	if err != nil {
		return s.restoreFailed(fmt.Errorf("reading password: %w", err))
	}

	if err := s.store.Import(ctx, b, password); err != nil {
		return s.restoreFailed(err)
	}
	return s.restored()
}

func (s *Service) restoreFailed(err error) (RestoreResult, error) {
	s.logger.Error("restore failed", "error", err)
	s.notifier.Toast(ToastError, msgRestoreFailed+err.Error())
	return RestoreResult{State: StateFailed}, fmt.Errorf("%w: %w", ErrImport, err)
}

func (s *Service) restored() (RestoreResult, error) {
	s.logger.Info("restore complete")
	s.notifier.Toast(ToastSuccess, msgRestored)
	return RestoreResult{State: StateRestored}, nil
}
