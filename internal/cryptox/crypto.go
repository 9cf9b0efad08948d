// Package cryptox seals stored profile records with a device-local key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophprofile/internal/common"
	"golang.org/x/crypto/hkdf"
)

// ErrCiphertextInvalid is returned by Open for short, truncated or tampered input.
var ErrCiphertextInvalid = errors.New("ciphertext invalid")

// Sealer protects values at rest. Open must reject anything Seal did not produce
// with the same key.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// DeriveSubkey expands master into a 32-byte key bound to label using
// HKDF-SHA256. Different labels give independent keys.
func DeriveSubkey(master []byte, label string) ([]byte, error) {
	if len(master) == 0 {
		return nil, common.ErrInvalidKey
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, master, nil, []byte(label))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive subkey %q: %w", label, err)
	}
	return key, nil
}

// AESSealer seals with AES-GCM. The output layout is nonce || ciphertext.
type AESSealer struct {
	aead cipher.AEAD
}

// NewAESSealer builds a sealer for a 16, 24 or 32 byte key.
func NewAESSealer(key []byte) (*AESSealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESSealer{aead: aesgcm}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *AESSealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	out := make([]byte, 0, len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, nil), nil
}

// Open splits off the nonce and authenticates the rest.
func (s *AESSealer) Open(sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrCiphertextInvalid, len(sealed))
	}
	plaintext, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCiphertextInvalid, err)
	}
	return plaintext, nil
}

// PlainSealer stores values as is. It backs the -insecure mode and tests.
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext []byte) ([]byte, error) {
	return append([]byte(nil), plaintext...), nil
}

func (PlainSealer) Open(sealed []byte) ([]byte, error) {
	return append([]byte(nil), sealed...), nil
}
