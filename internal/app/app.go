package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"nn-go/internal/config"
	"nn-go/internal/database"
	"nn-go/internal/encryption"
	"nn-go/internal/model"
	"nn-go/internal/nn"
	"nn-go/internal/store"
	"nn-go/internal/terminal"
	"nn-go/internal/toolbar"
	"nn-go/internal/vault"
)

// ErrLocked is returned by a mutating command while another nn process holds
// the lock on the base dir.
var ErrLocked = errors.New("another nn process is running")

// ErrNoPasswordStore is returned by ForgetBackupPassword when backups have no
// place to remember a password, such as with backup.keyring disabled.
var ErrNoPasswordStore = errors.New("no password store configured")

// lockFileName is created in the base dir and locked by mutating commands.
const lockFileName = "nn.lock"

// Host holds the user-facing implementations the app runs with. Nil Saver
// means backups are written to backup.output_dir.
type Host struct {
	Prompter nn.PasswordPrompter
	Picker   nn.FilePicker
	Notifier nn.Notifier
	Progress nn.Progress
	Saver    nn.FileSaver

	// Console, when set, receives a copy of every log line.
	Console io.Writer
	// BackupPassword is tried before the keyring and the prompt when an
	// export needs a password.
	BackupPassword string
}

// NNApp is the application layer between the CLI and nn.Service.
// It constructs all dependencies from config once, records mutating
// commands as operations, and releases everything on Close.
type NNApp struct {
	cfg       *config.Config
	db        nn.Database
	vault     nn.Vault
	encryptor nn.Encryptor
	keys      store.KeySource
	service   *nn.Service
	tools     []toolbar.Tool
	clock     nn.Clock
	logger    nn.Logger
	op        *Operation
	lock      *flock.Flock
	logFile   *os.File
}

// NewNNApp creates a fully wired NNApp from the given config.
// operation identifies the CLI command being run (e.g. "CreateBackup") and
// parameters is stored with it. The caller must call Close when done.
func NewNNApp(ctx context.Context, cfg *config.Config, operation, parameters string, host Host) (*NNApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tools, err := toolbar.Resolve(cfg.Editor.Toolbar)
	if err != nil {
		return nil, fmt.Errorf("validating editor.toolbar: %w", err)
	}

	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	var v nn.Vault
	if len(cfg.Vaults) > 0 {
		v, err = vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	clock := nn.RealClock{}
	opID := clock.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, host.Console)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	keys := store.Multiple{store.StaticKeySource(host.BackupPassword)}
	if cfg.Backup.Keyring {
		keys = append(keys, store.NewKeyringKeySource(cfg.HostID))
	}
	if host.Prompter != nil {
		keys = append(keys, &store.PromptKeySource{Prompter: host.Prompter})
	}

	saver := host.Saver
	if saver == nil {
		saver = &terminal.DirSaver{Dir: cfg.Backup.OutputDir}
	}

	svc := nn.NewService(nn.Dependencies{
		Store:     store.NewSQLiteStore(db, keys, nil, clock, logger),
		Database:  db,
		Saver:     saver,
		Picker:    host.Picker,
		Prompter:  host.Prompter,
		Notifier:  host.Notifier,
		Progress:  host.Progress,
		Vault:     v,
		Encryptor: enc,
		Logger:    logger,
		Clock:     clock,
		IDGen:     nn.UUIDGenerator{},
	}, nn.Options{
		Target:      cfg.Backup.Target,
		Encrypt:     cfg.Backup.Encrypt,
		MaxFileSize: maxFileSize,
	})

	return &NNApp{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		keys:      keys,
		service:   svc,
		tools:     tools,
		clock:     clock,
		logger:    logger,
		op:        NewOperation(operation, parameters),
		logFile:   logFile,
	}, nil
}

// begin takes the process lock and persists the operation, giving it an
// auto-increment ID. This should only be called for DB-mutating commands.
func (a *NNApp) begin(ctx context.Context) error {
	if a.op.Persisted() {
		return nil
	}

	if err := os.MkdirAll(a.cfg.BaseDir, 0700); err != nil {
		return fmt.Errorf("creating base dir: %w", err)
	}
	lock := flock.New(filepath.Join(a.cfg.BaseDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", lock.Path(), err)
	}
	if !locked {
		return ErrLocked
	}
	a.lock = lock

	dbOp, err := a.db.CreateOperation(ctx, a.op.Operation, a.op.Parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	a.logger.Info("operation started", "operation", a.op.Operation, "id", a.op.ID)
	return nil
}

// Config returns the config the app was built from.
func (a *NNApp) Config() *config.Config { return a.cfg }

// Toolbar returns the editor toolbar resolved from config.
func (a *NNApp) Toolbar() []toolbar.Tool { return a.tools }

// CreateBackup exports the database. With save it is also written to disk.
func (a *NNApp) CreateBackup(ctx context.Context, save bool) (*nn.BackupEnvelope, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	env, err := a.service.CreateBackup(ctx, save)
	a.op.Record(nn.StateUnknown, err)
	return env, err
}

// ImportBackup asks for a backup file and restores it.
func (a *NNApp) ImportBackup(ctx context.Context) (nn.RestoreResult, error) {
	if err := a.begin(ctx); err != nil {
		return nn.RestoreResult{}, err
	}
	res, err := a.service.ImportBackup(ctx)
	a.op.Record(res.State, err)
	return res, err
}

// PushBackup uploads an encrypted backup to the first configured vault.
func (a *NNApp) PushBackup(ctx context.Context) (string, error) {
	if err := a.begin(ctx); err != nil {
		return "", err
	}
	name, err := a.service.PushBackup(ctx)
	a.op.Record(nn.StateUnknown, err)
	return name, err
}

// PullBackup downloads the named vault backup and restores it.
func (a *NNApp) PullBackup(ctx context.Context, name string) (nn.RestoreResult, error) {
	if err := a.begin(ctx); err != nil {
		return nn.RestoreResult{}, err
	}
	res, err := a.service.PullBackup(ctx, name)
	a.op.Record(res.State, err)
	return res, err
}

// ListRemoteBackups lists the backups in the vault.
func (a *NNApp) ListRemoteBackups(ctx context.Context) ([]nn.RemoteBackup, error) {
	return a.service.ListRemoteBackups(ctx)
}

// ValidateVault checks that the configured vault is reachable.
func (a *NNApp) ValidateVault(ctx context.Context) error {
	if a.vault == nil {
		return nn.ErrNoVault
	}
	return a.vault.ValidateSetup(ctx)
}

// InitKeys creates the key pair used for vault copies.
func (a *NNApp) InitKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up keys: %w", err)
	}
	a.logger.Info("vault keys created")
	return nil
}

// ForgetBackupPassword removes a remembered export password.
func (a *NNApp) ForgetBackupPassword(ctx context.Context) error {
	err := a.keys.DeletePassword(ctx)
	if errors.Is(err, store.ErrUnsupported) {
		return ErrNoPasswordStore
	}
	if err != nil {
		return err
	}
	a.logger.Info("backup password forgotten")
	return nil
}

func (a *NNApp) AddNote(ctx context.Context, title, content string, pinned bool) (*model.Note, error) {
	if err := a.begin(ctx); err != nil {
		return nil, err
	}
	note, err := a.service.AddNote(ctx, title, content, pinned)
	a.op.Record(nn.StateUnknown, err)
	return note, err
}

func (a *NNApp) ListNotes(ctx context.Context) ([]*model.Note, error) {
	return a.service.ListNotes(ctx)
}

func (a *NNApp) SetSetting(ctx context.Context, key, value string) error {
	if err := a.begin(ctx); err != nil {
		return err
	}
	err := a.service.SetSetting(ctx, key, value)
	a.op.Record(nn.StateUnknown, err)
	return err
}

func (a *NNApp) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	return a.service.ListSettings(ctx)
}

// GetHistory returns the most recent operations.
func (a *NNApp) GetHistory(ctx context.Context, limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(ctx, limit)
}

// ExportLogs zips the log files into out, or into notesnook-logs.zip in the
// backup output dir when out is empty. It returns the path written.
func (a *NNApp) ExportLogs(out string) (string, error) {
	if out == "" {
		out = filepath.Join(a.cfg.Backup.OutputDir, defaultLogArchive)
	}
	n, err := exportLogs(a.cfg.LogDir, out)
	if err != nil {
		return "", err
	}
	a.logger.Info("logs exported", "path", out, "files", n)
	return out, nil
}

// ClearLogs empties every log file.
func (a *NNApp) ClearLogs() error {
	return clearLogs(a.cfg.LogDir)
}

// Close finalizes the operation and closes all resources.
func (a *NNApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(context.Background(), a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
		a.logger.Info("operation finished", "id", a.op.ID, "status", a.op.Status)
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("releasing lock: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
