package format

import (
	"context"
	"fmt"

	"github.com/eunmann/risu-inspect/internal/logctx"
	"github.com/eunmann/risu-inspect/pkg/codec"
)

// ModuleMeta describes the container a module was decoded from.
type ModuleMeta struct {
	Format              string `json:"format"`
	EmbeddedAssetsCount int    `json:"embeddedAssetsCount"`
	// AssetBytes is the total size of all embedded assets.
	AssetBytes int64 `json:"assetBytes,omitempty"`
	// AssetSizes holds each asset's length in container order.
	AssetSizes []int `json:"assetSizes,omitempty"`
}

// ModuleResult is a decoded module container.
type ModuleResult struct {
	Module any        `json:"module"`
	Meta   ModuleMeta `json:"_meta"`
}

// DecodeModule decodes a module container. Asset contents are counted and
// skipped, never decoded. Bytes after the terminating marker are ignored.
func DecodeModule(ctx context.Context, buf []byte, codecs codec.Codecs) (*ModuleResult, error) {
	codecs = codecs.WithDefaults()
	ctx = logctx.WithFormat(ctx, FormatRisum)
	log := logctx.FromContext(ctx)
	cur := NewCursor(buf)

	magic, err := cur.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != MagicRisum {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, magic, MagicRisum)
	}

	version, err := cur.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != VersionRisum {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, version, VersionRisum)
	}

	mainLen, err := cur.readLength()
	if err != nil {
		return nil, fmt.Errorf("read main section length: %w", err)
	}
	main, err := cur.ReadBytes(mainLen)
	if err != nil {
		return nil, fmt.Errorf("read main section: %w", err)
	}

	module, err := decodeMainSection(ctx, main, codecs)
	if err != nil {
		return nil, err
	}

	meta := ModuleMeta{Format: FormatRisum}
	for cur.Remaining() > 0 {
		marker, err := cur.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read asset marker: %w", err)
		}
		// Unknown markers end the loop like the stop marker does. This is
		// lenient on purpose and may hide a corrupt tail.
		if marker != AssetMarkerContinue {
			if marker != AssetMarkerStop {
				log.Debug().Uint8("marker", marker).Int("offset", cur.Offset()-1).Msg("unknown asset marker, stopping")
			}
			break
		}
		size, err := cur.readLength()
		if err != nil {
			return nil, fmt.Errorf("read asset %d length: %w", meta.EmbeddedAssetsCount, err)
		}
		if err := cur.Skip(size); err != nil {
			return nil, fmt.Errorf("read asset %d: %w", meta.EmbeddedAssetsCount, err)
		}
		meta.EmbeddedAssetsCount++
		meta.AssetBytes += int64(size)
		meta.AssetSizes = append(meta.AssetSizes, size)
	}

	log.Debug().
		Int("main_bytes", mainLen).
		Int("assets", meta.EmbeddedAssetsCount).
		Int("trailing_bytes", cur.Remaining()).
		Msg("module container decoded")

	return &ModuleResult{Module: module, Meta: meta}, nil
}

// decodeMainSection runs the main section through compaction, text
// decoding and JSON parsing, and returns its "module" field.
func decodeMainSection(ctx context.Context, main []byte, codecs codec.Codecs) (any, error) {
	text, err := codec.Run(ctx, main, codec.CompactionStage(codecs.Compaction))
	if err != nil {
		return nil, fmt.Errorf("decode main section: %w", err)
	}
	doc, err := parseJSON(text)
	if err != nil {
		return nil, fmt.Errorf("decode main section: %w", err)
	}

	typ, _ := lookup(doc, "type")
	if s, ok := typ.(string); !ok || s != ModulePayloadType {
		return nil, fmt.Errorf("%w: got %v, want %q", ErrInvalidPayloadType, typ, ModulePayloadType)
	}
	module, _ := lookup(doc, "module")
	return module, nil
}
