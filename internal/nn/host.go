package nn

import (
	"context"
	"io"
)

// BackupStore owns the backup payload format: serialization, encryption and
// applying a restored payload to the local database.
type BackupStore interface {
	// Export produces the bytes of a backup file for target. An empty result
	// means there was nothing to export.
	Export(ctx context.Context, target string, encrypt bool) ([]byte, error)

	// Import restores backup. password is empty for unencrypted backups.
	Import(ctx context.Context, backup *Backup, password string) error
}

// FileSaver hands a finished backup to persistent storage.
type FileSaver interface {
	// Save writes data under filename and returns where it was written.
	Save(ctx context.Context, data []byte, filename string) (string, error)
}

// FileHandle is a file chosen by the user. Nothing has been read from it yet.
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FilePicker asks the user to choose a file.
type FilePicker interface {
	// Pick returns nil, nil when the user cancels. accept is a comma separated
	// list of extensions and MIME types.
	Pick(ctx context.Context, accept string) (FileHandle, error)
}

// Prompt describes a password request shown to the user.
type Prompt struct {
	ID       string
	Title    string
	Subtitle string
}

// PasswordPrompter blocks until the user enters a password or cancels.
// Cancelling returns ErrPromptCancelled or an empty password.
type PasswordPrompter interface {
	PromptPassword(ctx context.Context, p Prompt) (string, error)
}

// ToastKind classifies a transient notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Notifier shows messages to the user.
type Notifier interface {
	// Toast shows a transient notification.
	Toast(kind ToastKind, message string)
	// Alert shows a message the user has to acknowledge.
	Alert(message string)
}

// Task describes a long-running step shown with a progress indication.
type Task struct {
	Title       string
	Subtitle    string
	Cancellable bool
}

// Progress shows a blocking progress indication while fn runs.
type Progress interface {
	Run(ctx context.Context, task Task, fn func(ctx context.Context) error) error
}

// NopProgress runs the task without showing anything.
type NopProgress struct{}

func (NopProgress) Run(ctx context.Context, _ Task, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Prompts and progress tasks used by the backup flows.
var (
	PromptBackupPassword = Prompt{
		ID:       "ask_backup_password",
		Title:    "Backup password",
		Subtitle: "Enter the password used to encrypt this backup.",
	}
	PromptKeyPassphrase = Prompt{
		ID:       "ask_key_passphrase",
		Title:    "Key passphrase",
		Subtitle: "Enter the passphrase that protects your vault key.",
	}

	TaskCreateBackup = Task{
		Title:       "Creating backup",
		Subtitle:    "We are creating a backup of your data. Please wait...",
		Cancellable: true,
	}
	TaskRestoreBackup = Task{
		Title:    "Restoring backup",
		Subtitle: "Please do NOT close the terminal or shut down your PC until the process completes.",
	}
)
