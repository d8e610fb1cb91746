package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/eunmann/risu-inspect/pkg/codec"
)

// Kind identifies which decoder handles a file.
type Kind string

const (
	KindModule Kind = "module"
	KindPreset Kind = "preset"
	KindJSON   Kind = "json"
)

// Suffix routes a file-name suffix to a Kind.
type Suffix struct {
	Suffix string
	Kind   Kind
}

// Suffixes lists the recognised file-name suffixes in match order.
// Matching is exact and case-sensitive.
var Suffixes = []Suffix{
	{".risum", KindModule},
	{".risup", KindPreset},
	{".risupreset", KindPreset},
	{".json", KindJSON},
}

// DetectKind picks a decoder from the file name alone; content is never
// sniffed.
func DetectKind(fileName string) (Kind, error) {
	for _, s := range Suffixes {
		if strings.HasSuffix(fileName, s.Suffix) {
			return s.Kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: .risum, .risup, .risupreset, .json)",
		ErrUnsupportedExtension, fileName)
}

// Parse decodes buf according to the suffix of fileName. Module files
// yield *ModuleResult, encrypted presets *PresetResult, and everything
// else a normalised value tree.
func Parse(ctx context.Context, buf []byte, fileName string, codecs codec.Codecs) (any, error) {
	kind, err := DetectKind(fileName)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindModule:
		res, err := DecodeModule(ctx, buf, codecs)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindPreset:
		return DecodePreset(ctx, buf, codecs)
	default:
		return parseJSON(buf)
	}
}
