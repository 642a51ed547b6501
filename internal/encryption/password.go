package encryption

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// PayloadAlgorithm identifies the cipher of a password-sealed payload.
const PayloadAlgorithm = "xcha-argon2id"

const saltSize = 16

// ErrWrongPassword is returned by Open when the password does not decrypt the payload.
var ErrWrongPassword = errors.New("wrong password")

// Sealed is a password-encrypted payload. IV, Salt and Cipher are base64.
type Sealed struct {
	IV     string `json:"iv"`
	Salt   string `json:"salt"`
	Cipher string `json:"cipher"`
	Alg    string `json:"alg"`
	Length int    `json:"length"` // plaintext length
}

// PasswordCipher seals payloads with XChaCha20-Poly1305 under a key derived
// from a password with argon2id.
type PasswordCipher struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// NewPasswordCipher returns a cipher with the argon2id parameters used for backups.
func NewPasswordCipher() *PasswordCipher {
	return &PasswordCipher{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

func (c *PasswordCipher) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, c.Time, c.MemoryKiB, c.Threads, chacha20poly1305.KeySize)
}

// Seal encrypts plaintext under password with a fresh salt and nonce.
func (c *PasswordCipher) Seal(plaintext []byte, password string) (*Sealed, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	aead, err := chacha20poly1305.NewX(c.key(password, salt))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return &Sealed{
		IV:     base64.StdEncoding.EncodeToString(nonce),
		Salt:   base64.StdEncoding.EncodeToString(salt),
		Cipher: base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
		Alg:    PayloadAlgorithm,
		Length: len(plaintext),
	}, nil
}

// Open decrypts s. A failed authentication is reported as ErrWrongPassword,
// since a corrupted payload and a wrong password cannot be told apart.
func (c *PasswordCipher) Open(s *Sealed, password string) ([]byte, error) {
	if s.Alg != "" && s.Alg != PayloadAlgorithm {
		return nil, fmt.Errorf("unsupported payload algorithm: %q", s.Alg)
	}

	nonce, err := base64.StdEncoding.DecodeString(s.IV)
	if err != nil {
		return nil, fmt.Errorf("decoding iv: %w", err)
	}
	if len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", chacha20poly1305.NonceSizeX, len(nonce))
	}
	salt, err := base64.StdEncoding.DecodeString(s.Salt)
	if err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(s.Cipher)
	if err != nil {
		return nil, fmt.Errorf("decoding cipher: %w", err)
	}

	aead, err := chacha20poly1305.NewX(c.key(password, salt))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	if s.Length != 0 && len(plaintext) != s.Length {
		return nil, fmt.Errorf("payload length %d does not match recorded length %d", len(plaintext), s.Length)
	}
	return plaintext, nil
}
