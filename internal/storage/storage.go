// Package storage keeps uploaded package images on the local filesystem.
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const imageDir = "packages"

var (
	// ErrEmptyImage is returned for an upload without content
	ErrEmptyImage = errors.New("image is empty")
	// ErrUnsupportedImage is returned when the content is not an accepted image type
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrInvalidPath is returned when a stored path escapes the upload directory
	ErrInvalidPath = errors.New("invalid image path")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MaxImageSize caps decoded uploads
const MaxImageSize = 5 << 20

// Local stores images under a root directory
type Local struct {
	root string
}

// NewLocal creates the upload directory if needed
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(root, imageDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root}, nil
}

// Root returns the directory files are served from
func (l *Local) Root() string {
	return l.root
}

// Save writes data under a random name and returns its path relative to
// the root, e.g. packages/2f1c...e9.png.
func (l *Local) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedImage, MaxImageSize)
	}
	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	rel := filepath.ToSlash(filepath.Join(imageDir, uuid.NewString()+ext))
	if err := os.WriteFile(filepath.Join(l.root, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return rel, nil
}

// Remove deletes a previously saved image. Removing a missing file is not an error.
func (l *Local) Remove(rel string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return ErrInvalidPath
	}
	if err := os.Remove(filepath.Join(l.root, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// DecodeBase64 decodes an upload sent either as raw base64 or as a data
// URI (data:image/png;base64,...).
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, fmt.Errorf("%w: malformed data URI", ErrUnsupportedImage)
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}
