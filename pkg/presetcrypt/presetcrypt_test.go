package presetcrypt

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	got := DeriveKey("risupreset")
	want := sha256.Sum256([]byte("risupreset"))
	if got != want {
		t.Errorf("DeriveKey = %x, want %x", got, want)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("inner preset bytes")
	ct, err := Encrypt(plaintext, "risupreset")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ct) != len(plaintext)+16 {
		t.Errorf("ciphertext length = %d, want %d", len(ct), len(plaintext)+16)
	}

	got, err := Decrypt(context.Background(), ct, "risupreset")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestDecryptFailures(t *testing.T) {
	ct, err := Encrypt([]byte("inner preset bytes"), "risupreset")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	tampered := append([]byte{}, ct...)
	tampered[0] ^= 0x01

	tests := []struct {
		name       string
		ciphertext []byte
		passphrase string
	}{
		{"tampered byte", tampered, "risupreset"},
		{"wrong passphrase", ct, "not-the-passphrase"},
		{"shorter than tag", ct[:8], "risupreset"},
		{"empty", nil, "risupreset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decrypt(context.Background(), tt.ciphertext, tt.passphrase)
			if !errors.Is(err, ErrDecryptionFailure) {
				t.Fatalf("err = %v, want ErrDecryptionFailure", err)
			}
			if got != nil {
				t.Errorf("returned %d bytes of plaintext on failure", len(got))
			}
		})
	}
}

func TestDecryptCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decrypt(ctx, make([]byte, 32), "risupreset"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
