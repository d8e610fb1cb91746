// Package fixture builds synthetic module and preset containers for tests
// and benchmarks. It is the only place in the module that writes either
// container format.
package fixture

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/klauspost/compress/flate"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/eunmann/risu-inspect/pkg/presetcrypt"
)

// Seed is the default seed for reproducible asset generation.
const Seed = 42

// Module describes a module container to build.
type Module struct {
	// Document is marshalled to JSON as the main section. When nil,
	// {"type":"risuModule","module":Payload} is used.
	Document any
	// Payload is the "module" field of the default document.
	Payload any
	// Assets are written as continue-marked sections in order.
	Assets [][]byte
	// Terminator is written after the assets. Nil means a single stop
	// marker; an empty non-nil slice writes nothing.
	Terminator []byte
	// Encode, when set, is applied to the main section (the inverse of
	// the compaction codec under test).
	Encode func([]byte) []byte
	// Magic and Version override the header bytes when non-nil.
	Magic, Version *byte
}

// BuildModule serialises m.
func BuildModule(m Module) ([]byte, error) {
	doc := m.Document
	if doc == nil {
		doc = map[string]any{"type": "risuModule", "module": m.Payload}
	}
	main, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal main section: %w", err)
	}
	if m.Encode != nil {
		main = m.Encode(main)
	}

	magic, version := byte(111), byte(0)
	if m.Magic != nil {
		magic = *m.Magic
	}
	if m.Version != nil {
		version = *m.Version
	}

	var buf bytes.Buffer
	buf.WriteByte(magic)
	buf.WriteByte(version)
	writeLength(&buf, len(main))
	buf.Write(main)
	for _, a := range m.Assets {
		buf.WriteByte(1)
		writeLength(&buf, len(a))
		buf.Write(a)
	}
	if m.Terminator == nil {
		buf.WriteByte(0)
	} else {
		buf.Write(m.Terminator)
	}
	return buf.Bytes(), nil
}

func writeLength(buf *bytes.Buffer, n int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	buf.Write(b[:])
}

// RandomAssets returns n assets of random length up to maxLen, seeded for
// reproducibility.
func RandomAssets(n, maxLen int, seed int64) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	assets := make([][]byte, n)
	for i := range assets {
		a := make([]byte, rng.Intn(maxLen+1))
		rng.Read(a)
		assets[i] = a
	}
	return assets
}

// BuildPreset msgpack-encodes wrapper, deflates it and applies encode
// (the inverse compaction) when set.
func BuildPreset(wrapper any, encode func([]byte) []byte) ([]byte, error) {
	packed, err := msgpack.Marshal(wrapper)
	if err != nil {
		return nil, fmt.Errorf("marshal wrapper: %w", err)
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create deflate writer: %w", err)
	}
	if _, err := w.Write(packed); err != nil {
		return nil, fmt.Errorf("deflate wrapper: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate wrapper: %w", err)
	}
	out := buf.Bytes()
	if encode != nil {
		out = encode(out)
	}
	return out, nil
}

// EncryptedWrapper msgpack-encodes inner, encrypts it with passphrase and
// returns a wrapper storing the ciphertext under field.
func EncryptedWrapper(inner any, presetVersion int, field, passphrase string) (map[string]any, error) {
	packed, err := msgpack.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("marshal inner preset: %w", err)
	}
	ct, err := presetcrypt.Encrypt(packed, passphrase)
	if err != nil {
		return nil, fmt.Errorf("encrypt inner preset: %w", err)
	}
	return map[string]any{
		"presetVersion": presetVersion,
		"type":          "preset",
		field:           ct,
	}, nil
}
