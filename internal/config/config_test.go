package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		HostID:  "test-host-abc",
		BaseDir: "/home/user/.local/share/nn",
		LogDir:  "/home/user/.local/share/nn/log",
		Backup: BackupConfig{
			Encrypt:     true,
			Target:      "cli",
			OutputDir:   "/home/user/backups",
			MaxFileSize: "64MiB",
			Keyring:     true,
		},
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/nn/keys/nn.pub",
			PrivateKeyPath: "/home/user/.local/share/nn/keys/nn.key",
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/nn/db"},
		Editor:   EditorConfig{Toolbar: []string{"bold", "italic"}},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != original.HostID {
		t.Errorf("HostID = %q, want %q", got.HostID, original.HostID)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Backup != original.Backup {
		t.Errorf("Backup = %+v, want %+v", got.Backup, original.Backup)
	}
	if len(got.Vaults) != 1 {
		t.Fatalf("len(Vaults) = %d, want 1", len(got.Vaults))
	}
	if got.Vaults[0].FSVaultRoot != "/backup/vault" {
		t.Errorf("Vault.FSVaultRoot = %q, want %q", got.Vaults[0].FSVaultRoot, "/backup/vault")
	}
	if got.Encryption.PrivateKeyPath != original.Encryption.PrivateKeyPath {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", got.Encryption.PrivateKeyPath, original.Encryption.PrivateKeyPath)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if len(got.Editor.Toolbar) != 2 {
		t.Fatalf("len(Editor.Toolbar) = %d, want 2", len(got.Editor.Toolbar))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/nn")

	if cfg.HostID != "host-1" {
		t.Errorf("HostID = %q, want %q", cfg.HostID, "host-1")
	}
	if cfg.LogDir != "/data/nn/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/nn/log")
	}
	if cfg.Backup.OutputDir != "/data/nn/backups" {
		t.Errorf("Backup.OutputDir = %q, want %q", cfg.Backup.OutputDir, "/data/nn/backups")
	}
	if cfg.Backup.Target != "cli" {
		t.Errorf("Backup.Target = %q, want %q", cfg.Backup.Target, "cli")
	}
	if cfg.Backup.Encrypt {
		t.Error("Backup.Encrypt = true, want false by default")
	}
	if cfg.Database.DataDir != "/data/nn/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/nn/db")
	}
	if cfg.Encryption.PublicKeyPath != "/data/nn/keys/nn.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/nn/keys/nn.pub")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestConfig_MaxFileSizeBytes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "default when empty", raw: "", want: 256 << 20},
		{name: "mebibytes", raw: "64MiB", want: 64 << 20},
		{name: "kilobytes are base 2", raw: "10KB", want: 10 << 10},
		{name: "garbage", raw: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backup: BackupConfig{MaxFileSize: tt.raw}}
			got, err := cfg.MaxFileSizeBytes()
			if (err != nil) != tt.wantErr {
				t.Fatalf("MaxFileSizeBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("MaxFileSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "memory database", mutate: func(c *Config) { c.Database = DatabaseConfig{Type: "memory"} }},
		{name: "missing host id", mutate: func(c *Config) { c.HostID = "" }, wantErr: true},
		{name: "unknown database type", mutate: func(c *Config) { c.Database.Type = "postgres" }, wantErr: true},
		{name: "sqlite without data dir", mutate: func(c *Config) { c.Database.DataDir = "" }, wantErr: true},
		{name: "filesystem vault without root", mutate: func(c *Config) {
			c.Vaults = []VaultConfig{{Type: "filesystem", Name: "v"}}
		}, wantErr: true},
		{name: "s3 vault without bucket", mutate: func(c *Config) {
			c.Vaults = []VaultConfig{{Type: "s3", Name: "v"}}
		}, wantErr: true},
		{name: "unknown vault type", mutate: func(c *Config) {
			c.Vaults = []VaultConfig{{Type: "ftp", Name: "v"}}
		}, wantErr: true},
		{name: "bad max file size", mutate: func(c *Config) { c.Backup.MaxFileSize = "ten" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("h1", "/data/nn")
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nn.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nn.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nn.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HostID != "read-test" {
			t.Errorf("HostID = %q, want %q", got.HostID, "read-test")
		}
		if got.Backup.MaxFileSize != DefaultMaxFileSize {
			t.Errorf("Backup.MaxFileSize = %q, want %q", got.Backup.MaxFileSize, DefaultMaxFileSize)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/nn.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
