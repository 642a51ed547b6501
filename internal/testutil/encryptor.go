package testutil

import (
	"nn-go/internal/encryption"
	"nn-go/internal/nn"
)

// NewTestEncryptor creates a deterministic encryptor whose passphrase is
// encryption.TestPassphrase.
func NewTestEncryptor() nn.Encryptor {
	return encryption.NewTestEncryptor()
}
