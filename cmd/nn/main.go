package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nn-go/internal/app"
	"nn-go/internal/config"
	"nn-go/internal/nn"
	"nn-go/internal/terminal"
	"nn-go/internal/toolbar"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an NNApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreateBackup", "ImportBackup").
func newApp(cmd *cobra.Command, operation, parameters string) (*app.NNApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if cmd.Flags().Changed("encrypt") {
		cfg.Backup.Encrypt, _ = cmd.Flags().GetBool("encrypt")
	}

	a, err := app.NewNNApp(cmd.Context(), cfg, operation, parameters, newHost(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// newHost builds the terminal implementations of the nn host interfaces.
func newHost(cmd *cobra.Command, cfg *config.Config) app.Host {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
	password, _ := rootCmd.PersistentFlags().GetString("password")
	file, _ := cmd.Flags().GetString("file")

	stderr := cmd.ErrOrStderr()
	prompter := terminal.NewPreset(map[string]string{
		nn.PromptBackupPassword.ID: password,
	}, terminal.NewPrompter(os.Stdin, stderr))

	host := app.Host{
		Prompter:       prompter,
		Picker:         terminal.NewPicker(file, cfg.Backup.OutputDir, os.Stdin, stderr),
		Notifier:       terminal.NewNotifier(cmd.OutOrStdout(), noColor),
		Progress:       terminal.NewProgress(stderr),
		BackupPassword: password,
	}
	if verbose {
		host.Console = stderr
	}
	return host
}

var rootCmd = &cobra.Command{
	Use:          "nn",
	Short:        "Notes with encrypted backups",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])
		cfg.Editor.Toolbar = toolbar.Default()

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ConfigList", "")
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.Config()
		maxSize, _ := cfg.MaxFileSizeBytes()

		fmt.Printf("Host ID:       %s\n", cfg.HostID)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Backup Dir:    %s\n", cfg.Backup.OutputDir)
		fmt.Printf("Encrypt:       %t\n", cfg.Backup.Encrypt)
		fmt.Printf("Max File Size: %s\n", units.Base2Bytes(maxSize))
		fmt.Printf("Database:      %s\n", cfg.Database.Type)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:         %s (%s)\n", v.Name, v.Type)
		}
		fmt.Printf("Toolbar:       %s\n", strings.Join(toolbar.IDs(a.Toolbar()), ", "))
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vault",
}

var configVaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ValidateVault", "")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ValidateVault(cmd.Context()); err != nil {
			return fmt.Errorf("vault check failed: %w", err)
		}
		fmt.Println("Vault OK")
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Create the key pair used for vault copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "InitKeys", "")
		if err != nil {
			return err
		}
		defer a.Close()

		p := terminal.NewPrompter(os.Stdin, cmd.ErrOrStderr())
		pass, err := p.PromptPassword(cmd.Context(), nn.Prompt{
			ID:       "new_key_passphrase",
			Title:    "New key passphrase",
			Subtitle: "This passphrase protects the key that decrypts vault copies.",
		})
		if err != nil {
			return err
		}
		confirm, err := p.PromptPassword(cmd.Context(), nn.Prompt{
			ID:    "confirm_key_passphrase",
			Title: "Re-enter passphrase",
		})
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases don't match")
		}

		if err := a.InitKeys(pass); err != nil {
			return err
		}
		fmt.Println("Keys created")
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and restore backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a backup of all notes and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "CreateBackup", "")
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.CreateBackup(cmd.Context(), true)
		return err
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		a, err := newApp(cmd, "ImportBackup", file)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.ImportBackup(cmd.Context())
		if err != nil {
			return err
		}
		if res.State == nn.StateCancelled {
			fmt.Println("Restore cancelled")
		}
		return nil
	},
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload an encrypted backup to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "PushBackup", "")
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.PushBackup(cmd.Context())
		return err
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull NAME",
	Short: "Download a backup from the vault and restore it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "PullBackup", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.PullBackup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if res.State == nn.StateCancelled {
			fmt.Println("Restore cancelled")
		}
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListRemoteBackups", "")
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.ListRemoteBackups(cmd.Context())
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups in vault.")
			return nil
		}
		for _, b := range backups {
			fmt.Printf("%s  %9s  %s\n",
				b.ModifiedAt.Local().Format("2006-01-02 15:04:05"),
				units.Base2Bytes(b.Size),
				b.Name,
			)
		}
		return nil
	},
}

var backupForgetCmd = &cobra.Command{
	Use:   "forget-password",
	Short: "Remove the remembered backup password from the keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ForgetBackupPassword", "")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ForgetBackupPassword(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Backup password forgotten")
		return nil
	},
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		pinned, _ := cmd.Flags().GetBool("pinned")

		a, err := newApp(cmd, "AddNote", "")
		if err != nil {
			return err
		}
		defer a.Close()

		note, err := a.AddNote(cmd.Context(), args[0], content, pinned)
		if err != nil {
			return err
		}
		fmt.Printf("Added note %s\n", note.ID)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListNotes", "")
		if err != nil {
			return err
		}
		defer a.Close()

		notes, err := a.ListNotes(cmd.Context())
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for _, n := range notes {
			pin := " "
			if n.Pinned {
				pin = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", pin, shortID(n.ID), n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.Title)
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// setting command
var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Manage settings carried in backups",
}

var settingSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "SetSetting", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		return a.SetSetting(cmd.Context(), args[0], args[1])
	},
}

var settingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListSettings", "")
		if err != nil {
			return err
		}
		defer a.Close()

		settings, err := a.ListSettings(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range settings {
			fmt.Printf("%s = %s\n", s.Key, s.Value)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View backup operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory", "")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-20s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

// logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage log files",
}

var logsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Zip the log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp(cmd, "ExportLogs", "")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.ExportLogs(out)
		if err != nil {
			return err
		}
		fmt.Printf("Logs written to %s\n", path)
		return nil
	},
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ClearLogs", "")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.ClearLogs()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also write log lines to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("password", "", "Backup password for encrypted exports and restores")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
	configCmd.AddCommand(configKeysCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)

	// backup subcommands
	backupCmd.AddCommand(backupCreateCmd)
	backupCreateCmd.Flags().Bool("encrypt", false, "Encrypt the backup (overrides backup.encrypt)")
	backupCmd.AddCommand(backupImportCmd)
	backupImportCmd.Flags().StringP("file", "f", "", "Backup file to restore (default: choose from the backup dir)")
	backupCmd.AddCommand(backupPushCmd)
	backupPushCmd.Flags().Bool("encrypt", false, "Encrypt the payload with a password as well")
	backupCmd.AddCommand(backupPullCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupForgetCmd)

	// note subcommands
	noteCmd.AddCommand(noteAddCmd)
	noteAddCmd.Flags().StringP("content", "c", "", "Note body")
	noteAddCmd.Flags().BoolP("pinned", "p", false, "Pin the note")
	noteCmd.AddCommand(noteListCmd)

	// setting subcommands
	settingCmd.AddCommand(settingSetCmd)
	settingCmd.AddCommand(settingListCmd)

	// logs subcommands
	logsCmd.AddCommand(logsExportCmd)
	logsExportCmd.Flags().StringP("out", "o", "", "Archive path (default: notesnook-logs.zip in the backup dir)")
	logsCmd.AddCommand(logsClearCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(settingCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(logsCmd)
}
