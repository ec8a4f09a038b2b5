// Package storage provides file-based JSON persistence for Zenith
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/models"
)

// FileDataStore persists per-user AppData blobs as JSON files with optional
// version rotation. Layout: {basePath}/users/{userID}.json. A single mutex
// serializes Update calls so read-modify-write cycles from different
// services cannot overwrite each other.
type FileDataStore struct {
	basePath string
	versions int
	logger   *common.Logger

	mu sync.Mutex
}

// NewFileDataStore creates a FileDataStore rooted at basePath.
func NewFileDataStore(logger *common.Logger, basePath string, versions int) *FileDataStore {
	if versions < 0 {
		versions = 0
	}
	return &FileDataStore{
		basePath: basePath,
		versions: versions,
		logger:   logger,
	}
}

// Initialize ensures the backing directories exist.
func (fs *FileDataStore) Initialize() error {
	dir := filepath.Join(fs.basePath, "users")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	fs.logger.Debug().Str("path", fs.basePath).Int("versions", fs.versions).Msg("Data store opened")
	return nil
}

// sanitizeKey makes a key safe for use as a filename. Replaces /, \, : with
// _ and collapses ".." to "_" to prevent path traversal.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (fs *FileDataStore) userPath(userID string) string {
	return filepath.Join(fs.basePath, "users", sanitizeKey(userID)+".json")
}

// LoadData retrieves the data blob for a user. A missing or unreadable file
// yields (nil, nil): the storage contract requires tolerating an unavailable
// backend without failing the caller.
func (fs *FileDataStore) LoadData(ctx context.Context, userID string) (*models.AppData, error) {
	path := fs.userPath(userID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Warn().Err(err).Str("path", path).Msg("Data file unreadable, treating as empty")
		}
		return nil, nil
	}

	var data models.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		fs.logger.Warn().Err(err).Str("path", path).Msg("Data file corrupt, treating as empty")
		return nil, nil
	}

	data.EnsureBrokers()
	return &data, nil
}

// SaveData persists the data blob atomically: write to a temp file in the
// same directory, then rename. Previous versions rotate before overwrite.
func (fs *FileDataStore) SaveData(ctx context.Context, userID string, data *models.AppData) error {
	if data == nil {
		return fmt.Errorf("cannot save nil data for user '%s'", userID)
	}

	dir := filepath.Join(fs.basePath, "users")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	target := fs.userPath(userID)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if fs.versions > 0 {
		fs.rotateVersions(target)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Update applies mutate to the user's data under the store's write lock and
// persists the result. Absent data starts from a fresh document.
func (fs *FileDataStore) Update(ctx context.Context, userID string, mutate func(*models.AppData) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.LoadData(ctx, userID)
	if err != nil {
		return err
	}
	if data == nil {
		data = models.NewAppData()
	}
	if err := mutate(data); err != nil {
		return err
	}
	return fs.SaveData(ctx, userID, data)
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., v1 -> v2, current -> v1
func (fs *FileDataStore) rotateVersions(target string) {
	oldest := fmt.Sprintf("%s.v%d", target, fs.versions)
	os.Remove(oldest)

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // file may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}
