package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage saves uploaded originals under a single directory and deletes them
// by path. It avoids name clashes by appending a short random suffix before
// the extension; the returned path is the canonical on-disk location.
type Storage struct {
	dir string
}

// NewStorage creates the upload directory if needed.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Storage) Dir() string { return s.dir }

// Save writes content to dir/filename. On a name clash the file is saved as
// "{stem}_{8-hex}{ext}" instead; the actual path written is returned.
// Creation is exclusive, so two concurrent saves of the same name get
// distinct paths instead of overwriting each other.
func (s *Storage) Save(content []byte, filename string) (string, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	path := filepath.Join(s.dir, base)
	for {
		err := writeExclusive(path, content)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("saving upload %s: %w", path, err)
		}
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", stem, suffix, ext))
	}
}

func writeExclusive(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Delete removes the file at path. Missing files are not an error.
func (s *Storage) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}
