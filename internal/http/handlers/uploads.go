package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tryon/internal/imagecodec"
)

// uploadForm holds a multipart request read fully into memory.
type uploadForm struct {
	values map[string]string
	files  map[string]imagecodec.BytesSource
}

func (f *uploadForm) file(name string) (imagecodec.BytesSource, bool) {
	src, ok := f.files[name]
	return src, ok
}

func (f *uploadForm) value(name, fallback string) string {
	if v := f.values[name]; v != "" {
		return v
	}
	return fallback
}

// readForm streams the multipart body part by part. Nothing is spooled to
// disk; the whole body is bounded by MaxUploadBytes.
func (a *App) readForm(w http.ResponseWriter, r *http.Request) (*uploadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("multipart: %w", err)
	}
	form := &uploadForm{
		values: make(map[string]string),
		files:  make(map[string]imagecodec.BytesSource),
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
		name := part.FormName()
		data, readErr := io.ReadAll(part)
		_ = part.Close()
		if readErr != nil {
			return nil, fmt.Errorf("multipart %s: %w", name, readErr)
		}
		if name == "" {
			continue
		}
		if filename := part.FileName(); filename != "" {
			form.files[name] = imagecodec.BytesSource{Filename: filename, Data: data}
			continue
		}
		form.values[name] = strings.TrimSpace(string(data))
	}
}
