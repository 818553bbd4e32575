package ports

import (
	"context"

	"botree/internal/domain"
)

// ObjectStore persists object graphs
type ObjectStore interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Load reads the whole graph. An empty store yields an empty graph.
	Load(ctx context.Context) (*domain.Graph, error)

	// Save replaces the stored graph in a single transaction
	Save(ctx context.Context, g *domain.Graph) error
}

// ObjectSource loads graphs from a declarative document
type ObjectSource interface {
	Load(path string) (*domain.Graph, error)
}
