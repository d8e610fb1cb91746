package format

import (
	"context"
	"fmt"
	"slices"

	"github.com/eunmann/risu-inspect/internal/logctx"
	"github.com/eunmann/risu-inspect/pkg/codec"
	"github.com/eunmann/risu-inspect/pkg/presetcrypt"
)

// PresetMeta describes the wrapper an encrypted preset was unpacked from.
type PresetMeta struct {
	Format        string `json:"format"`
	PresetVersion int64  `json:"presetVersion"`
	WrapperType   string `json:"wrapperType"`
}

// PresetResult is a decrypted preset.
type PresetResult struct {
	Meta   PresetMeta `json:"_meta"`
	Preset any        `json:"preset"`
}

// DecodePreset decodes a preset container. Encrypted wrappers return a
// *PresetResult; every other wrapper is returned as decoded, with map keys
// normalised to strings.
func DecodePreset(ctx context.Context, buf []byte, codecs codec.Codecs) (any, error) {
	codecs = codecs.WithDefaults()
	ctx = logctx.WithFormat(ctx, FormatRisup)
	log := logctx.FromContext(ctx)

	raw, err := codec.Run(ctx, buf, codec.CompactionStage(codecs.Compaction), codec.InflateStage())
	if err != nil {
		return nil, fmt.Errorf("decode preset container: %w", err)
	}
	wrapper, err := codec.DecodeMsgpackContext(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("decode preset container: %w", err)
	}

	version, wrapperType, encrypted := encryptedWrapper(wrapper)
	if !encrypted {
		log.Debug().Msg("preset wrapper is not encrypted, passing through")
		return Normalize(wrapper), nil
	}

	ciphertext, field, err := findCiphertext(wrapper)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("field", field).Int("ciphertext_bytes", len(ciphertext)).Msg("decrypting preset")

	plaintext, err := presetcrypt.Decrypt(ctx, ciphertext, codecs.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt preset field %q: %w", field, err)
	}
	inner, err := codec.DecodeMsgpackContext(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("decode decrypted preset: %w", err)
	}

	return &PresetResult{
		Meta: PresetMeta{
			Format:        FormatRisup,
			PresetVersion: version,
			WrapperType:   wrapperType,
		},
		Preset: Normalize(inner),
	}, nil
}

// encryptedWrapper reports whether the wrapper's presetVersion and type
// tags select the decryption path.
func encryptedWrapper(wrapper any) (version int64, wrapperType string, ok bool) {
	v, _ := lookup(wrapper, "presetVersion")
	version, isNum := asInt64(v)
	if !isNum || !slices.Contains(encryptedPresetVersions, version) {
		return 0, "", false
	}
	t, _ := lookup(wrapper, "type")
	wrapperType, isStr := t.(string)
	if !isStr || wrapperType != PresetWrapperType {
		return 0, "", false
	}
	return version, wrapperType, true
}

// findCiphertext returns the first non-nil candidate field.
func findCiphertext(wrapper any) ([]byte, string, error) {
	for _, field := range ciphertextFields {
		v, ok := lookup(wrapper, field)
		if !ok || v == nil {
			continue
		}
		b, ok := v.([]byte)
		if !ok {
			return nil, field, fmt.Errorf("%w: field %q holds %T, want binary",
				presetcrypt.ErrDecryptionFailure, field, v)
		}
		return b, field, nil
	}
	return nil, "", fmt.Errorf("%w: wrapper has none of the fields %v",
		presetcrypt.ErrDecryptionFailure, ciphertextFields)
}
