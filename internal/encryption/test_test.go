package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestTestEncryptor_Unlock(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor()
	if _, err := e.Unlock(TestPassphrase); err != nil {
		t.Fatalf("Unlock(TestPassphrase) error = %v", err)
	}
	if _, err := e.Unlock("nope"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Unlock(wrong) error = %v, want ErrWrongPassphrase", err)
	}

	if err := e.Setup("new-pass"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := e.Unlock(TestPassphrase); err == nil {
		t.Error("Unlock() with the old passphrase succeeded after Setup")
	}
	if _, err := e.Unlock("new-pass"); err != nil {
		t.Errorf("Unlock(new-pass) error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false, want true")
	}
}

func TestTestEncryptor_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewTestEncryptor()

			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !bytes.HasPrefix(encrypted.Bytes(), testHeader) {
				t.Error("encrypted output does not start with the test header")
			}

			dec, err := e.Unlock(TestPassphrase)
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var decrypted bytes.Buffer
			if err := dec.Decrypt(&encrypted, &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("Decrypt() = %q, want %q", decrypted.Bytes(), tt.input)
			}
		})
	}
}

func TestTestDecryptionContext_RejectsForeignData(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	err := (&TestDecryptionContext{}).Decrypt(bytes.NewReader([]byte("plain old data")), &out)
	if err == nil {
		t.Error("Decrypt() of data without header should fail")
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     string
		paths   bool
		wantErr bool
	}{
		{name: "default is age", typ: "", paths: true},
		{name: "age", typ: "age", paths: true},
		{name: "age without paths", typ: "age", wantErr: true},
		{name: "test", typ: "test"},
		{name: "unknown", typ: "rsa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configFor(tt.typ, tt.paths)
			got, err := NewEncryptorFromConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Error("NewEncryptorFromConfig() returned nil")
			}
		})
	}
}
