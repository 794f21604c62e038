// Package crypto declares the cipher boundary the engine consumes.
// Implementations, including key derivation, live outside the engine and
// are treated as opaque.
package crypto

import "errors"

// ErrDecryptionFailed is the generic error implementations surface when
// a ciphertext cannot be opened with the given key.
var ErrDecryptionFailed = errors.New("decryption failed")

// CipherProvider encrypts and decrypts entity data.
type CipherProvider interface {
	// Encrypt seals plaintext with key and returns the ciphertext along
	// with the iv generated for it.
	Encrypt(plaintext, key []byte) (ciphertext, iv []byte, err error)

	// Decrypt opens ciphertext with key and iv. Implementations return
	// ErrDecryptionFailed when the ciphertext cannot be opened.
	Decrypt(iv, key, ciphertext []byte) ([]byte, error)
}
