package format

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	in := map[any]any{
		"name": "x",
		int8(1): []any{
			map[any]any{"nested": true},
		},
		"bin": []byte{1},
	}
	want := map[string]any{
		"name": "x",
		"1": []any{
			map[string]any{"nested": true},
		},
		"bin": []byte{1},
	}
	got := Normalize(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %#v, want %#v", got, want)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Errorf("normalised value is not JSON-encodable: %v", err)
	}
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{int8(2), 2, true},
		{uint8(0), 0, true},
		{int64(-3), -3, true},
		{uint64(math.MaxUint64), 0, false},
		{float64(2), 2, true},
		{float32(0), 0, true},
		{2.5, 0, false},
		{math.NaN(), 0, false},
		{json.Number("2"), 2, true},
		{json.Number("2.0"), 2, true},
		{"2", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := asInt64(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("asInt64(%#v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecodeText(t *testing.T) {
	got := decodeText([]byte{0xef, 0xbb, 0xbf, 'a', 0xff, 'b'})
	if string(got) != "a�b" {
		t.Errorf("decodeText = %q", got)
	}
}
