package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/units"
)

// DefaultMaxFileSize bounds how much of a selected backup file is read when no
// max_file_size is configured.
const DefaultMaxFileSize = "256MiB"

// Config represents the main configuration for nn.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Backup     BackupConfig     `toml:"backup"`
	Database   DatabaseConfig   `toml:"database"`
	Encryption EncryptionConfig `toml:"encryption"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Editor     EditorConfig     `toml:"editor"`
}

// BackupConfig holds the preferences read by the export and restore flows.
type BackupConfig struct {
	Encrypt     bool   `toml:"encrypt"`       // encrypt payloads on export
	Target      string `toml:"target"`        // export target passed to the store, defaults to "cli"
	OutputDir   string `toml:"output_dir"`    // where save=true exports are written
	MaxFileSize string `toml:"max_file_size"` // e.g. "64MiB"; upper bound for reading a backup file
	Keyring     bool   `toml:"keyring"`       // remember the backup key in the OS keyring
}

// EncryptionConfig holds paths to the age key pair used for vault copies.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a remote copy target.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible services
	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the notes database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// EditorConfig lists the editor toolbar tools, in display order.
type EditorConfig struct {
	Toolbar []string `toml:"toolbar"`
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Backup: BackupConfig{
			Target:      "cli",
			OutputDir:   filepath.Join(baseDir, "backups"),
			MaxFileSize: DefaultMaxFileSize,
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "nn.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "nn.key"),
		},
	}
}

// MaxFileSizeBytes parses Backup.MaxFileSize, falling back to DefaultMaxFileSize.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	raw := c.Backup.MaxFileSize
	if raw == "" {
		raw = DefaultMaxFileSize
	}
	n, err := units.ParseBase2Bytes(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing backup.max_file_size %q: %w", raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("backup.max_file_size must be positive, got %q", raw)
	}
	return int64(n), nil
}

// Validate checks the tagged unions and value formats.
func (c *Config) Validate() error {
	if c.HostID == "" {
		return fmt.Errorf("host_id is required")
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.DataDir == "" {
			return fmt.Errorf("database.data_dir is required for sqlite")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}

	for i, v := range c.Vaults {
		switch v.Type {
		case "memory":
		case "filesystem":
			if v.FSVaultRoot == "" {
				return fmt.Errorf("vaults[%d]: fs_vault_root is required for filesystem vault", i)
			}
		case "s3":
			if v.S3Bucket == "" {
				return fmt.Errorf("vaults[%d]: s3_bucket is required for s3 vault", i)
			}
		default:
			return fmt.Errorf("vaults[%d]: unknown vault type: %q", i, v.Type)
		}
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
