// Package storage persists uploaded fulfillment reports on the local disk.
// Names are generated per upload, so concurrent writers never collide.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore is the artifact byte store the order service writes into.
type BlobStore interface {
	// SavePDF stores the bytes under a fresh generated name for the order
	// and returns the stable path the artifact row should record.
	SavePDF(orderID uint64, data []byte) (string, error)

	// Exists reports whether the stored file is still present.
	Exists(path string) bool

	// Remove deletes a stored file. Used to undo an upload whose database
	// transaction failed.
	Remove(path string) error
}

// LocalStore is a BlobStore rooted at a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) SavePDF(orderID uint64, data []byte) (string, error) {
	name := fmt.Sprintf("order_%d_%s.pdf", orderID, uuid.New().String())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

func (s *LocalStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *LocalStore) Remove(path string) error {
	return os.Remove(path)
}
