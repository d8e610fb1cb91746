// Package codec provides the byte codecs that container decoders chain
// together: the proprietary compaction transform, DEFLATE-family
// decompression, and MessagePack decoding.
package codec

import (
	"context"
)

// PresetPassphrase is the fixed passphrase protecting encrypted presets.
const PresetPassphrase = "risupreset"

// Compaction reverses the proprietary compaction applied to both
// container formats. Implementations may block.
type Compaction interface {
	Decode(ctx context.Context, data []byte) ([]byte, error)
}

// CompactionFunc adapts a function to Compaction.
type CompactionFunc func(ctx context.Context, data []byte) ([]byte, error)

// Decode calls f.
func (f CompactionFunc) Decode(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

// Identity is a Compaction that returns its input unchanged.
var Identity Compaction = CompactionFunc(func(_ context.Context, data []byte) ([]byte, error) {
	return data, nil
})

// Codecs bundles the collaborators a decode needs.
type Codecs struct {
	Compaction Compaction
	Passphrase string
}

// Default returns codecs using the identity compaction and the standard
// preset passphrase.
func Default() Codecs {
	return Codecs{
		Compaction: Identity,
		Passphrase: PresetPassphrase,
	}
}

// WithDefaults fills unset fields from Default.
func (c Codecs) WithDefaults() Codecs {
	d := Default()
	if c.Compaction == nil {
		c.Compaction = d.Compaction
	}
	if c.Passphrase == "" {
		c.Passphrase = d.Passphrase
	}
	return c
}
