package nn

import (
	"context"
	"fmt"
)

// CreateBackup exports the database through the backup store.
// With save=false the envelope is returned and nothing is written; with
// save=true it is also written as <filename>.nnbackup through the FileSaver.
// Every failure is reported to the user before it is returned.
func (s *Service) CreateBackup(ctx context.Context, save bool) (*BackupEnvelope, error) {
	release, err := s.acquire("CreateBackup")
	if err != nil {
		return nil, err
	}
	defer release()

	env, err := s.export(ctx)
	if err != nil {
		return nil, err
	}
	if !save {
		return env, nil
	}

	path, err := s.saver.Save(ctx, env.Data, env.FullName())
	if err != nil {
		s.logger.Error("saving backup failed", "filename", env.FullName(), "error", err)
		s.notifier.Toast(ToastError, msgSaveFailed+err.Error())
		return nil, fmt.Errorf("%w: %w", ErrSave, err)
	}

	s.logger.Info("backup saved", "path", path, "bytes", len(env.Data))
	s.notifier.Toast(ToastSuccess, "Backup saved to "+path)
	return env, nil
}

// export runs the store export under a progress indication and names the result.
func (s *Service) export(ctx context.Context) (*BackupEnvelope, error) {
	var data []byte
	err := s.progress.Run(ctx, TaskCreateBackup, func(ctx context.Context) error {
		var err error
		data, err = s.store.Export(ctx, s.opts.Target, s.opts.Encrypt)
		return err
	})
	if err != nil {
		s.logger.Error("export failed", "target", s.opts.Target, "encrypt", s.opts.Encrypt, "error", err)
		s.notifier.Toast(ToastError, msgExportFailed)
		return nil, fmt.Errorf("%w: %w", ErrEmptyExport, err)
	}
	if len(data) == 0 {
		s.logger.Warn("export returned no data", "target", s.opts.Target)
		s.notifier.Toast(ToastError, msgExportFailed)
		return nil, ErrEmptyExport
	}

	return &BackupEnvelope{
		Data:     data,
		Filename: BackupFilename(s.clock.Now()),
		Ext:      BackupExt,
	}, nil
}
