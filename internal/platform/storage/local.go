package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
)

// LocalStorage stores uploaded documents on the local filesystem under a
// configured base directory. References are relative paths of the form
// "category/uuid.ext" so the base directory can move without rewriting rows.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Ensure LocalStorage implements portssvc.FileStorage
var _ portssvc.FileStorage = (*LocalStorage)(nil)

func (s *LocalStorage) Save(ctx context.Context, category, filename string, content io.Reader) (string, error) {
	category = sanitizeSegment(category)
	if category == "" {
		category = "misc"
	}
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	ref := filepath.Join(category, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
	f, err := os.Create(filepath.Join(s.baseDir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filepath.ToSlash(ref), nil
}

func (s *LocalStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Remove(ctx context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	return nil
}

// resolve rejects references that escape the base directory.
func (s *LocalStorage) resolve(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage reference %q: %w", ref, apperrors.ErrValidation)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
