package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	appidentity "github.com/factura/backend/internal/application/identity"
)

// Ensure LocalObjectStorage implements the application port
var _ appidentity.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage stores objects on the local filesystem. Intended for
// development and tests; production uses S3ObjectStorage.
type LocalObjectStorage struct {
	basePath string
	baseURL  string
	logger   *zap.Logger
}

// NewLocalObjectStorage creates a filesystem-backed object storage rooted at
// basePath. Download URLs are baseURL + "/" + key.
func NewLocalObjectStorage(basePath, baseURL string, logger *zap.Logger) (*LocalObjectStorage, error) {
	if basePath == "" {
		return nil, errors.New("storage path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalObjectStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// resolve maps a storage key to a path under basePath, refusing traversal
func (s *LocalObjectStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// Upload writes the object to disk under the key
func (s *LocalObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write object: %w", err)
	}

	s.logger.Debug("object stored locally", zap.String("key", key), zap.String("path", path))
	return nil
}

// DownloadURL returns a stable URL under baseURL. Local files do not expire;
// the returned expiry mirrors the requested window for interface parity.
func (s *LocalObjectStorage) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", time.Time{}, fmt.Errorf("object not found: %s", key)
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return s.baseURL + "/" + key, time.Now().Add(expiresIn), nil
}

// Delete removes the object file; a missing key is not an error
func (s *LocalObjectStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
