package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/eunmann/risu-inspect/pkg/codec"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Normalize converts a decoded tree into JSON-compatible values: maps with
// non-string keys become map[string]any with keys formatted by fmt, and
// slices are normalised element by element. Scalars are returned as-is.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// lookup fetches key from a decoded map of either key type.
func lookup(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[any]any:
		item, ok := m[key]
		return item, ok
	case map[string]any:
		item, ok := m[key]
		return item, ok
	}
	return nil, false
}

// asInt64 coerces any decoded number holding an integral value.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), n <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// decodeText turns bytes into UTF-8 text the way a lenient text decoder
// does: a leading BOM is dropped and invalid sequences become U+FFFD.
func decodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.ToValidUTF8(data, []byte("�"))
}

// parseJSON parses exactly one JSON document. Numbers are kept as
// json.Number so large integers survive re-encoding.
func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(decodeText(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &codec.StageError{Stage: codec.StageJSON, Err: err}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &codec.StageError{Stage: codec.StageJSON, Err: errors.New("trailing data after document")}
	}
	return v, nil
}
