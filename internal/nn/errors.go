package nn

import "errors"

var (
	// ErrParse means the selected file is not a readable backup.
	ErrParse = errors.New("backup file is corrupted or invalid")

	// ErrEmptyExport means the backup store produced no data.
	ErrEmptyExport = errors.New("backup store returned no data")

	// ErrImport wraps any failure reported by BackupStore.Import.
	ErrImport = errors.New("backup store rejected import")

	// ErrSave wraps any failure reported by FileSaver.Save.
	ErrSave = errors.New("could not save backup file")

	// ErrMissingData means the backup has no "data" object.
	ErrMissingData = errors.New("backup has no data object")

	// ErrInconsistentEncryption means exactly one of iv and salt is present.
	ErrInconsistentEncryption = errors.New("backup has only one of iv and salt")

	// ErrOperationInProgress is returned when another backup operation holds the guard.
	ErrOperationInProgress = errors.New("another backup operation is in progress")

	// ErrPromptCancelled is returned by a PasswordPrompter when the user dismisses it.
	ErrPromptCancelled = errors.New("prompt cancelled")

	// ErrNoVault is returned by remote operations when no vault is configured.
	ErrNoVault = errors.New("no vault configured")
)

// User-facing messages.
const (
	msgExportFailed  = "Could not create a backup of your data."
	msgSaveFailed    = "Could not save the backup file: "
	msgBusy          = "Another backup operation is already running."
	msgParseFailed   = "Error: Could not read the backup file provided. Either it's corrupted or invalid."
	msgMissingData   = "Error: The backup file provided has no data to restore."
	msgInconsistent  = "Error: The backup file provided is only partially encrypted. Either it's corrupted or invalid."
	msgRestored      = "Backup restored!"
	msgRestoreFailed = "Could not restore the backup: "
	msgPushFailed    = "Could not upload the backup: "
	msgPullFailed    = "Could not download the backup: "
)
