// Package storage handles receipt and avatar images. Inline base64
// payloads are exchanged for durable URLs before anything is persisted.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Uploader exchanges an inline base64 image payload for a durable URL.
type Uploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

var dataURLRe = regexp.MustCompile(`(?i)^data:image/(png|jpeg|jpg|gif|bmp|webp);base64,`)

// ParseDataURL splits a data:image/...;base64 payload into its file
// extension and decoded bytes.
func ParseDataURL(s string) (ext string, data []byte, err error) {
	m := dataURLRe.FindString(s)
	if m == "" {
		return "", nil, errors.New("not a base64 image payload")
	}

	kind := strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(m), "data:image/"), ";base64,")
	if kind == "jpeg" {
		kind = "jpg"
	}

	data, err = base64.StdEncoding.DecodeString(s[len(m):])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty image payload")
	}
	return "." + kind, data, nil
}

// Disk stores decoded images on the local filesystem and serves them from
// a static route.
type Disk struct {
	dir     string
	baseURL string
}

func NewDisk(dir, baseURL string) *Disk {
	return &Disk{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *Disk) Upload(_ context.Context, dataURL string) (string, error) {
	ext, data, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return d.baseURL + "/" + name, nil
}
