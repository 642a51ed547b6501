package testutil

import (
	"nn-go/internal/nn"
	"nn-go/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() nn.Vault {
	return vault.NewMemoryVault("test-vault")
}
