package imagecodec

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tryon/internal/domain"
)

// Source yields the bytes of an input image. Callers pass either a filesystem
// path or an in-memory buffer such as an HTTP upload.
type Source interface {
	Name() string
	Read() ([]byte, error)
}

// FileSource reads an image from disk.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(string(s))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image %s: %w", filepath.Base(string(s)), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// BytesSource wraps an already loaded image. Filename is only used to infer
// the media type.
type BytesSource struct {
	Filename string
	Data     []byte
}

func (s BytesSource) Name() string { return s.Filename }

func (s BytesSource) Read() ([]byte, error) {
	if len(s.Data) == 0 {
		return nil, fmt.Errorf("image %s: empty upload: %w", s.Filename, domain.ErrInvalidImage)
	}
	return s.Data, nil
}
