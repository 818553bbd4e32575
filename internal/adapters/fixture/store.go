package fixture

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"botree/internal/domain"
	"botree/internal/ports"
)

// FileStore persists a graph as a single fixture file. A missing file
// loads as an empty graph.
type FileStore struct {
	path string
}

// Ensure FileStore implements ObjectStore
var _ ports.ObjectStore = (*FileStore)(nil)

// NewFileStore creates a store for the fixture at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Open switches the store to path
func (s *FileStore) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	s.path = abs
	return nil
}

// Close is a no-op; the file is only open while loading or saving
func (s *FileStore) Close() error {
	return nil
}

// Path returns the fixture file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the fixture
func (s *FileStore) Load(ctx context.Context) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := Load(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewGraph(), nil
	}
	return g, err
}

// Save writes g over the fixture
func (s *FileStore) Save(ctx context.Context, g *domain.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Write(s.path, g)
}
