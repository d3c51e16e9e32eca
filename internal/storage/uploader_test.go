package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantExt string
		wantErr bool
	}{
		{
			name:    "png payload",
			input:   "data:image/png;base64," + tinyPNG,
			wantExt: ".png",
		},
		{
			name:    "jpeg payload normalized to jpg",
			input:   "data:image/jpeg;base64," + tinyPNG,
			wantExt: ".jpg",
		},
		{
			name:    "plain URL is not a payload",
			input:   "https://example.com/receipt.png",
			wantErr: true,
		},
		{
			name:    "corrupt base64",
			input:   "data:image/png;base64,!!!not-base64!!!",
			wantErr: true,
		},
		{
			name:    "empty payload",
			input:   "data:image/png;base64,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, data, err := ParseDataURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDataURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if ext != tt.wantExt {
				t.Errorf("ext = %q, want %q", ext, tt.wantExt)
			}
			want, _ := base64.StdEncoding.DecodeString(tinyPNG)
			if len(data) != len(want) {
				t.Errorf("decoded %d bytes, want %d", len(data), len(want))
			}
		})
	}
}

func TestDiskUpload(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, "/uploads/")

	url, err := d.Upload(context.Background(), "data:image/png;base64,"+tinyPNG)
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want /uploads/<name>.png", url)
	}

	saved := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("uploaded file missing: %v", err)
	}
}

func TestDiskUploadRejectsRawURL(t *testing.T) {
	d := NewDisk(t.TempDir(), "/uploads")
	if _, err := d.Upload(context.Background(), "https://example.com/a.png"); err == nil {
		t.Fatal("expected error for non-payload input")
	}
}
