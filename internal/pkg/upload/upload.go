// Package upload stores user submitted images on local disk under
// random names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &Store{dir: dir}, nil
}

// Save writes the uploaded image to disk and returns its stored file
// name. Only png and jpeg files are accepted.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		return "", ErrUnsupportedType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("file.Open -> %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("os.Create -> %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("io.Copy -> %w", err)
	}

	return name, nil
}

// Remove deletes a previously stored file. A missing file is not an
// error.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}
