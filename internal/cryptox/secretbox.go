// Package cryptox implements the cryptographic primitives of the persistence
// layer: authenticated encryption for the cluster connection secret and
// memory-hard password hashing for the authentication collection.
package cryptox

import (
	"crypto/rand"
	"fmt"

	"github.com/zalbum/albumdb/internal/common"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the secretbox key length in bytes.
	KeySize = 32
	// NonceSize is the secretbox nonce length in bytes.
	NonceSize = 24
)

// EncryptSecret seals plaintext with a freshly generated key and nonce and
// returns all three parts separately. A new key is generated on every call:
// the cluster secret is replaced wholesale on rotation, so key reuse (and
// with it nonce reuse under the same key) never happens.
func EncryptSecret(plaintext []byte) (key, nonce, ciphertext []byte, err error) {
	var k [KeySize]byte
	var n [NonceSize]byte

	if _, err := rand.Read(k[:]); err != nil {
		return nil, nil, nil, fmt.Errorf("generating key: %w", err)
	}
	if _, err := rand.Read(n[:]); err != nil {
		return nil, nil, nil, fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext = secretbox.Seal(nil, plaintext, &n, &k)
	return k[:], n[:], ciphertext, nil
}

// DecryptSecret opens a ciphertext produced by EncryptSecret. Any tampering
// with the ciphertext, or a wrong key or nonce, fails the authentication tag
// and returns ErrorDecryptionFailed; garbage plaintext is never returned.
func DecryptSecret(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrorDecryptionFailed, KeySize, len(key))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", common.ErrorDecryptionFailed, NonceSize, len(nonce))
	}

	var k [KeySize]byte
	var n [NonceSize]byte
	copy(k[:], key)
	copy(n[:], nonce)

	plaintext, ok := secretbox.Open(nil, ciphertext, &n, &k)
	if !ok {
		return nil, common.ErrorDecryptionFailed
	}
	return plaintext, nil
}
