package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/strathmore/lostfound/internal/imaging"
)

// ErrUnsupportedType is returned for uploads whose extension is not in the
// allow-list.
var ErrUnsupportedType = errors.New("unsupported file type")

// allowedExtensions lists the accepted upload extensions (lowercase,
// without the dot).
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Store persists uploaded images in a flat directory, keyed by generated
// filenames.
type Store struct {
	dir string
}

// New creates the upload directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates the upload by extension, stores the raw bytes under a
// collision-free key, then normalizes the stored image in place.
// Normalization is best-effort: if it fails the raw upload stays and Save
// still succeeds. Returns the storage key.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	key := uuid.NewString() + "_" + sanitize(filename, ext)
	path := filepath.Join(s.dir, key)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	if normalized, err := imaging.Normalize(data, ext); err != nil {
		slog.Warn("image normalization failed, keeping raw upload", "key", key, "error", err)
	} else if err := os.WriteFile(path, normalized, 0o644); err != nil {
		slog.Warn("overwriting with normalized image failed", "key", key, "error", err)
	}

	return key, nil
}

// Delete removes the stored file for key. Returns false (not an error)
// when the key is empty, unsafe, or the file is already gone.
func (s *Store) Delete(key string) bool {
	if key == "" || filepath.Base(key) != key {
		return false
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("deleting stored image failed", "key", key, "error", err)
		}
		return false
	}
	return true
}

// Path returns the filesystem path for key, or false when the key is
// unsafe or no such file exists.
func (s *Store) Path(key string) (string, bool) {
	if key == "" || filepath.Base(key) != key {
		return "", false
	}
	path := filepath.Join(s.dir, key)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// sanitize reduces a client filename to a safe form: path components are
// stripped and anything outside [A-Za-z0-9._-] is dropped (spaces become
// underscores). Falls back to a bare extension name if nothing survives.
func sanitize(filename, ext string) string {
	// Strip directories, regardless of client path separator.
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" || name == ext {
		name = "upload." + ext
	}
	return name
}
