// Package presetcrypt decrypts the encrypted payload embedded in preset
// containers.
//
// The key is the SHA-256 digest of the UTF-8 passphrase. The cipher is
// AES-256-GCM with an all-zero 96-bit nonce and no additional data, and
// the ciphertext carries the 16-byte tag at its end:
//
//	[ciphertext: N bytes] [tag: 16 bytes]
package presetcrypt

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
)

// ErrDecryptionFailure indicates the ciphertext did not authenticate under
// the derived key.
var ErrDecryptionFailure = errors.New("decryption failure")

// NonceSize is the GCM nonce length; the nonce is always zero.
const NonceSize = 12

// DeriveKey returns SHA-256(passphrase).
func DeriveKey(passphrase string) [sha256.Size]byte {
	return sha256.Sum256([]byte(passphrase))
}

func newAEAD(passphrase string) (cipher.AEAD, error) {
	key := DeriveKey(passphrase)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}

// Decrypt authenticates and decrypts ciphertext. Any authentication
// failure returns ErrDecryptionFailure and no plaintext.
func Decrypt(ctx context.Context, ciphertext []byte, passphrase string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	aead, err := newAEAD(passphrase)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, shorter than the %d byte tag",
			ErrDecryptionFailure, len(ciphertext), aead.Overhead())
	}
	var nonce [NonceSize]byte
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailure, err)
	}
	return plaintext, nil
}

// Encrypt is the inverse of Decrypt. The inspector has no write path; this
// exists for building fixtures.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	aead, err := newAEAD(passphrase)
	if err != nil {
		return nil, err
	}
	var nonce [NonceSize]byte
	return aead.Seal(nil, nonce[:], plaintext, nil), nil
}
