// Package storage manages the scratch area that holds uploads, extracted
// archives and generated reports until they are processed or swept.
package storage

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/analoghub/backend/internal/domain"
)

// Storage is a directory of uniquely named scratch files
type Storage struct {
	dir string
}

// New creates the scratch directory if needed
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	return &Storage{dir: abs}, nil
}

// Dir returns the absolute scratch directory
func (s *Storage) Dir() string {
	return s.dir
}

// NewPath returns a fresh, unused path with the given extension (".xlsx", ".zip")
func (s *Storage) NewPath(ext string) string {
	return filepath.Join(s.dir, uuid.NewString()+ext)
}

// Save copies r into a fresh file with the given extension and returns its path
func (s *Storage) Save(r io.Reader, ext string) (string, error) {
	path := s.NewPath(ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}

// NewJobDir creates a fresh directory for one job's intermediate files
func (s *Storage) NewJobDir() (string, error) {
	dir := filepath.Join(s.dir, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}
	return dir, nil
}

// Lookup returns the path of a scratch file by its base name.
// Names containing path elements are rejected.
func (s *Storage) Lookup(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: bad file name %q", domain.ErrInvalidRequest, name)
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", domain.ErrNotFound
	}
	return path, nil
}

// Remove deletes a file or directory tree, logging instead of failing.
// Used on cleanup paths where the primary result must not be masked.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		log.Printf("[STORAGE] Failed to remove %s: %v", path, err)
	}
}

// ExtractZip unpacks archive into dest and returns the extracted file paths.
// Entries that would land outside dest are rejected.
func ExtractZip(archive, dest string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range zr.File {
		target := filepath.Join(root, entry.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return nil, fmt.Errorf("archive entry %q escapes extraction dir", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
			continue
		}

		if err := extractFile(entry, target); err != nil {
			return nil, fmt.Errorf("extract %s: %w", entry.Name, err)
		}
		files = append(files, target)
	}
	return files, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Sweep deletes top-level scratch entries last modified before now-maxAge
// and returns how many were removed
func (s *Storage) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read storage dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	log.Printf("[SWEEP] Removed %d scratch entries older than %v", removed, maxAge)
	return removed, errors.Join(errs...)
}
