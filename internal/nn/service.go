package nn

// Dependencies are the collaborators a Service is built from. They are
// constructed once at startup and never looked up lazily.
// Vault and Encryptor are optional; without them push and pull fail with ErrNoVault.
type Dependencies struct {
	Store     BackupStore
	Database  Database
	Saver     FileSaver
	Picker    FilePicker
	Prompter  PasswordPrompter
	Notifier  Notifier
	Progress  Progress
	Vault     Vault
	Encryptor Encryptor
	Logger    Logger
	Clock     Clock
	IDGen     IDGenerator
}

// Options are the backup preferences read from configuration.
type Options struct {
	Target      string // passed to BackupStore.Export
	Encrypt     bool   // encrypt exported payloads
	MaxFileSize int64  // upper bound on a selected backup file; 0 means unbounded
}

// Service orchestrates exporting, selecting, and restoring backups.
// All backup operations share one Guard, so at most one runs at a time.
type Service struct {
	store     BackupStore
	database  Database
	saver     FileSaver
	picker    FilePicker
	prompter  PasswordPrompter
	notifier  Notifier
	progress  Progress
	vault     Vault
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	guard     *Guard
	opts      Options
}

// NewService creates a Service. A nil Logger, Clock, IDGen or Progress is
// replaced with a no-op or real implementation.
func NewService(deps Dependencies, opts Options) *Service {
	s := &Service{
		store:     deps.Store,
		database:  deps.Database,
		saver:     deps.Saver,
		picker:    deps.Picker,
		prompter:  deps.Prompter,
		notifier:  deps.Notifier,
		progress:  deps.Progress,
		vault:     deps.Vault,
		encryptor: deps.Encryptor,
		logger:    deps.Logger,
		clock:     deps.Clock,
		idgen:     deps.IDGen,
		guard:     &Guard{},
		opts:      opts,
	}
	if s.logger == nil {
		s.logger = NewNopLogger()
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.idgen == nil {
		s.idgen = UUIDGenerator{}
	}
	if s.progress == nil {
		s.progress = NopProgress{}
	}
	return s
}

// acquire claims the guard for operation and tells the user when it is taken.
func (s *Service) acquire(operation string) (func(), error) {
	release, err := s.guard.Acquire(operation)
	if err != nil {
		s.logger.Warn("operation rejected", "operation", operation, "active", s.guard.Active())
		s.notifier.Toast(ToastError, msgBusy)
		return nil, err
	}
	return release, nil
}
