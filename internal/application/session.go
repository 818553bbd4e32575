package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"botree/internal/domain"
	"botree/internal/logging"
	"botree/internal/ports"
	"botree/internal/treesync"
)

// Session ties an object graph to the tree controller showing it and the
// store it is persisted in. Hosts own one session each.
type Session struct {
	Graph *domain.Graph
	Tree  *treesync.Controller

	store ports.ObjectStore
	log   *slog.Logger
}

// NewSession creates a session driving view. store may be nil for graphs
// that are never persisted.
func NewSession(view ports.TreeView, store ports.ObjectStore, log *slog.Logger, opts ...treesync.Option) *Session {
	if log == nil {
		log = logging.Discard()
	}
	opts = append([]treesync.Option{treesync.WithLogger(log)}, opts...)
	return &Session{
		Graph: domain.NewGraph(),
		Tree:  treesync.New(view, opts...),
		store: store,
		log:   log,
	}
}

// Load replaces the graph with the stored one and clears the tree
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	g, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	s.SetGraph(g)
	return nil
}

// Fetch reads the stored graph without touching the session. Hosts that
// read off the tree's goroutine fetch there and call SetGraph afterwards.
func (s *Session) Fetch(ctx context.Context) (*domain.Graph, error) {
	if s.store == nil {
		return s.Graph, nil
	}
	start := time.Now()
	defer logging.Timing(s.log, "session.fetch", start)

	g, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	return g, nil
}

// HasStore reports whether changes can be saved
func (s *Session) HasStore() bool {
	return s.store != nil
}

// SetGraph replaces the graph and clears the tree
func (s *Session) SetGraph(g *domain.Graph) {
	s.Tree.Clear()
	s.Graph = g
}

// Save persists the graph when the session has a store
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.Graph); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	return nil
}
