package s3fetch

import (
	"testing"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			uri:        "s3://my-bucket/modules/card.risum",
			wantBucket: "my-bucket",
			wantKey:    "modules/card.risum",
		},
		{
			uri:        "s3://bucket/key",
			wantBucket: "bucket",
			wantKey:    "key",
		},
		{
			uri:        "s3://bucket-only/",
			wantBucket: "bucket-only",
			wantKey:    "",
		},
		{
			uri:        "s3://bucket",
			wantBucket: "bucket",
			wantKey:    "",
		},
		{
			uri:     "https://bucket/key",
			wantErr: true,
		},
		{
			uri:     "/local/path.risum",
			wantErr: true,
		},
		{
			uri:     "s3://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tt.wantBucket {
				t.Errorf("bucket = %q, want %q", bucket, tt.wantBucket)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestParseObjectURI(t *testing.T) {
	if _, _, err := ParseObjectURI("s3://bucket/dir/"); err == nil {
		t.Error("expected error for prefix URI")
	}
	if _, _, err := ParseObjectURI("s3://bucket"); err == nil {
		t.Error("expected error for bucket-only URI")
	}
	bucket, key, err := ParseObjectURI("s3://b/presets/x.risup")
	if err != nil {
		t.Fatalf("ParseObjectURI: %v", err)
	}
	if bucket != "b" || key != "presets/x.risup" {
		t.Errorf("got %q %q", bucket, key)
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"card.risum", "card.risum"},
		{"path/to/preset.risupreset", "preset.risupreset"},
		{"a/b/c/data.json", "data.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ObjectName(tt.input); got != tt.want {
				t.Errorf("ObjectName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
