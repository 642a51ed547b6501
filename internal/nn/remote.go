package nn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// RemoteExt is appended to the backup file name of copies stored in a vault.
const RemoteExt = ".age"

// PushBackup exports a backup without saving it locally, encrypts it to the
// host key, and uploads it to the vault. It returns the object name.
func (s *Service) PushBackup(ctx context.Context) (string, error) {
	if s.vault == nil || s.encryptor == nil {
		return "", ErrNoVault
	}

	release, err := s.acquire("PushBackup")
	if err != nil {
		return "", err
	}
	defer release()

	env, err := s.export(ctx)
	if err != nil {
		return "", err
	}

	var sealed bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(env.Data), &sealed); err != nil {
		return "", s.pushFailed(fmt.Errorf("encrypting backup: %w", err))
	}

	name := env.FullName() + RemoteExt
	if err := s.vault.PutBackup(ctx, name, &sealed, int64(sealed.Len())); err != nil {
		return "", s.pushFailed(fmt.Errorf("uploading backup: %w", err))
	}

	s.logger.Info("backup pushed", "name", name, "bytes", len(env.Data))
	s.notifier.Toast(ToastSuccess, "Backup uploaded as "+name)
	return name, nil
}

func (s *Service) pushFailed(err error) error {
	s.logger.Error("push failed", "error", err)
	s.notifier.Toast(ToastError, msgPushFailed+err.Error())
	return err
}

// PullBackup downloads a vault copy, decrypts it with the host key and
// restores it through the normal restore flow.
func (s *Service) PullBackup(ctx context.Context, name string) (RestoreResult, error) {
	if s.vault == nil || s.encryptor == nil {
		return RestoreResult{State: StateRejected}, ErrNoVault
	}

	release, err := s.acquire("PullBackup")
	if err != nil {
		return RestoreResult{State: StateRejected}, err
	}
	defer release()

	passphrase, err := s.prompter.PromptPassword(ctx, PromptKeyPassphrase)
	if errors.Is(err, ErrPromptCancelled) || (err == nil && passphrase == "") {
		s.logger.Info("pull cancelled at passphrase prompt")
		return RestoreResult{State: StateCancelled}, nil
	}
	if err != nil {
		return RestoreResult{State: StateFailed}, s.pullFailed(fmt.Errorf("reading passphrase: %w", err))
	}

	dec, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return RestoreResult{State: StateFailed}, s.pullFailed(fmt.Errorf("unlocking key: %w", err))
	}

	var sealed bytes.Buffer
	if err := s.vault.GetBackup(ctx, name, &sealed); err != nil {
		return RestoreResult{State: StateFailed}, s.pullFailed(fmt.Errorf("downloading %s: %w", name, err))
	}

	var plain bytes.Buffer
	if err := dec.Decrypt(&sealed, &plain); err != nil {
		return RestoreResult{State: StateFailed}, s.pullFailed(fmt.Errorf("decrypting %s: %w", name, err))
	}

	b, err := ParseBackup(plain.Bytes())
	if err != nil {
		s.logger.Error("parsing pulled backup failed", "name", name, "error", err)
		s.notifier.Alert(msgParseFailed)
		return RestoreResult{State: StateRejected}, err
	}

	s.logger.Info("backup pulled", "name", name, "bytes", plain.Len())
	return s.restore(ctx, b)
}

func (s *Service) pullFailed(err error) error {
	s.logger.Error("pull failed", "error", err)
	s.notifier.Toast(ToastError, msgPullFailed+err.Error())
	return err
}

// ListRemoteBackups returns the backups stored in the vault, newest first.
func (s *Service) ListRemoteBackups(ctx context.Context) ([]RemoteBackup, error) {
	if s.vault == nil {
		return nil, ErrNoVault
	}
	backups, err := s.vault.ListBackups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vault backups: %w", err)
	}
	return backups, nil
}
