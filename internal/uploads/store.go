// Package uploads stores book cover images uploaded through the add-book form.
package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("uploaded file is too large")
)

// allowedExtensions lists the image extensions accepted for covers.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store persists uploaded cover images to a public directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates an upload store rooted at the given directory.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save writes an uploaded cover to the store and returns the generated
// filename. The file lands under a timestamp-derived name with the original
// extension, written via temp file and atomic rename.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	filename := s.coverFilename(ext)

	tmpFile, err := os.CreateTemp(s.dir, "cover_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	written, err := io.Copy(tmpFile, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if written > s.maxBytes {
		return "", ErrTooLarge
	}

	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, filename)); err != nil {
		return "", err
	}

	return filename, nil
}

// Remove deletes a stored cover file. Missing files are not an error.
func (s *Store) Remove(filename string) error {
	// Refuse anything that could escape the store directory
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid cover filename: %s", filename)
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the filenames of all stored covers.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "cover_tmp_") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Dir returns the store directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Seed copies a file into the store under the given name unless it already
// exists. Used to install the placeholder cover on first start.
func (s *Store) Seed(srcPath, name string) error {
	dst := filepath.Join(s.dir, name)
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// coverFilename generates a unique filename from the current time plus a
// short random suffix to survive same-nanosecond collisions.
func (s *Store) coverFilename(ext string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("cover_%d_%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), ext)
}
