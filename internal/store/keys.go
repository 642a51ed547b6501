package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"nn-go/internal/nn"
)

var (
	// ErrKeyNotFound is returned by a KeySource that has no password to offer.
	ErrKeyNotFound = errors.New("backup password not found")

	// ErrUnsupported is returned by a KeySource that cannot store passwords.
	ErrUnsupported = errors.New("password storage not supported")
)

// KeySource supplies the password used to encrypt exports.
type KeySource interface {
	// GetPassword returns ErrKeyNotFound when the source has no password.
	GetPassword(ctx context.Context) (string, error)
	// PersistPassword returns ErrUnsupported when the source cannot store passwords.
	PersistPassword(ctx context.Context, password string) error
	DeletePassword(ctx context.Context) error
}

// Multiple tries several key sources in order.
type Multiple []KeySource

var _ KeySource = Multiple{}

// GetPassword returns the password from the first source that has one.
func (m Multiple) GetPassword(ctx context.Context) (string, error) {
	for _, s := range m {
		pass, err := s.GetPassword(ctx)
		if err == nil {
			return pass, nil
		}
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		return "", fmt.Errorf("getting backup password: %w", err)
	}
	return "", ErrKeyNotFound
}

// PersistPassword stores the password in the first source that supports it.
func (m Multiple) PersistPassword(ctx context.Context, password string) error {
	for _, s := range m {
		err := s.PersistPassword(ctx, password)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return fmt.Errorf("persisting backup password: %w", err)
	}
	return ErrUnsupported
}

// DeletePassword removes the password from every source. It returns
// ErrUnsupported when none of the sources can store a password.
func (m Multiple) DeletePassword(ctx context.Context) error {
	supported := false
	for _, s := range m {
		err := s.DeletePassword(ctx)
		switch {
		case err == nil, errors.Is(err, ErrKeyNotFound):
			supported = true
		case errors.Is(err, ErrUnsupported):
		default:
			return fmt.Errorf("removing backup password: %w", err)
		}
	}
	if !supported {
		return ErrUnsupported
	}
	return nil
}

// KeyringKeySource keeps the backup password in the OS keyring.
type KeyringKeySource struct {
	Service string
	User    string
}

// NewKeyringKeySource returns a source keyed by host so several profiles do not collide.
func NewKeyringKeySource(hostID string) *KeyringKeySource {
	return &KeyringKeySource{Service: "nn-backup", User: hostID}
}

func (k *KeyringKeySource) GetPassword(context.Context) (string, error) {
	pass, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return pass, nil
}

func (k *KeyringKeySource) PersistPassword(_ context.Context, password string) error {
	if err := keyring.Set(k.Service, k.User, password); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

func (k *KeyringKeySource) DeletePassword(context.Context) error {
	err := keyring.Delete(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyNotFound
	}
	return err
}

// PromptKeySource asks the user for the password every time.
type PromptKeySource struct {
	Prompter nn.PasswordPrompter
}

// PromptExportPassword is shown when an encrypted export needs a password.
var PromptExportPassword = nn.Prompt{
	ID:       "ask_export_password",
	Title:    "Encrypt backup",
	Subtitle: "Enter a password to encrypt this backup. You will need it to restore.",
}

func (p *PromptKeySource) GetPassword(ctx context.Context) (string, error) {
	pass, err := p.Prompter.PromptPassword(ctx, PromptExportPassword)
	if errors.Is(err, nn.ErrPromptCancelled) || (err == nil && pass == "") {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return pass, nil
}

func (*PromptKeySource) PersistPassword(context.Context, string) error { return ErrUnsupported }
func (*PromptKeySource) DeletePassword(context.Context) error          { return ErrUnsupported }

// StaticKeySource always returns the same password. An empty one means none.
type StaticKeySource string

func (s StaticKeySource) GetPassword(context.Context) (string, error) {
	if s == "" {
		return "", ErrKeyNotFound
	}
	return string(s), nil
}

func (StaticKeySource) PersistPassword(context.Context, string) error { return ErrUnsupported }
func (StaticKeySource) DeletePassword(context.Context) error          { return ErrUnsupported }
