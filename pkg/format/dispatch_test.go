package format

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/eunmann/risu-inspect/pkg/codec"
	"github.com/eunmann/risu-inspect/pkg/fixture"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"card.risum", KindModule, false},
		{"dir/my.module.risum", KindModule, false},
		{"preset.risup", KindPreset, false},
		{"preset.risupreset", KindPreset, false},
		{"data.json", KindJSON, false},
		{"notes.txt", "", true},
		{"CARD.RISUM", "", true},
		{"card.risum.bak", "", true},
		{"risum", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedExtension) {
					t.Errorf("err = %v, want ErrUnsupportedExtension", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKind: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRoutes(t *testing.T) {
	module, err := fixture.BuildModule(fixture.Module{Payload: map[string]any{"x": 1}})
	if err != nil {
		t.Fatal(err)
	}
	preset, err := fixture.BuildPreset(map[string]any{"presetVersion": 1, "name": "p"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte(`{"name": "plain", "n": 12345678901234567890}`)

	ctx := context.Background()

	v, err := Parse(ctx, module, "a.risum", codec.Default())
	if err != nil {
		t.Fatalf("Parse risum: %v", err)
	}
	if _, ok := v.(*ModuleResult); !ok {
		t.Errorf("risum: got %T, want *ModuleResult", v)
	}

	for _, name := range []string{"a.risup", "a.risupreset"} {
		v, err = Parse(ctx, preset, name, codec.Default())
		if err != nil {
			t.Fatalf("Parse %s: %v", name, err)
		}
		if m, ok := v.(map[string]any); !ok || m["name"] != "p" {
			t.Errorf("%s: got %#v", name, v)
		}
	}

	v, err = Parse(ctx, plain, "a.json", codec.Default())
	if err != nil {
		t.Fatalf("Parse json: %v", err)
	}
	want := map[string]any{"name": "plain", "n": json.Number("12345678901234567890")}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("json: got %#v, want %#v", v, want)
	}
}

func TestParseUnsupportedExtensionIgnoresContent(t *testing.T) {
	module, err := fixture.BuildModule(fixture.Module{Payload: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}
	for _, buf := range [][]byte{nil, module, {0xff}} {
		v, err := Parse(context.Background(), buf, "a.txt", codec.Default())
		if !errors.Is(err, ErrUnsupportedExtension) {
			t.Errorf("err = %v, want ErrUnsupportedExtension", err)
		}
		if v != nil {
			t.Errorf("got %#v, want nil", v)
		}
	}
}

func TestParseErrorsAreNil(t *testing.T) {
	v, err := Parse(context.Background(), []byte{1}, "a.risum", codec.Default())
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("err = %v, want ErrInvalidMagic", err)
	}
	if v != nil {
		t.Errorf("got non-nil value %#v on error", v)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []string{``, `{`, `{"a":1} {"b":2}`}
	for _, in := range tests {
		_, err := Parse(context.Background(), []byte(in), "x.json", codec.Default())
		if !errors.Is(err, codec.ErrMalformedInput) {
			t.Errorf("input %q: err = %v, want ErrMalformedInput", in, err)
		}
	}
}

func TestParseJSONWithBOM(t *testing.T) {
	in := append([]byte{0xef, 0xbb, 0xbf}, []byte(`{"ok":true}`)...)
	v, err := Parse(context.Background(), in, "x.json", codec.Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(v, map[string]any{"ok": true}) {
		t.Errorf("got %#v", v)
	}
}
