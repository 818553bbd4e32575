package commands

import (
	"context"
	"errors"
	"testing"

	"botree/internal/application"
	"botree/internal/treesync"
)

func TestLoadTreeCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("all roots", func(t *testing.T) {
		g := sampleGraph()
		tree, view := newTree()
		result, err := NewLoadTreeCommand(g, tree, "", 1, treesync.Unlimited).Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.TopLevel()) != 2 {
			t.Errorf("expected 2 top-level nodes, got %d", len(view.TopLevel()))
		}
		if result.Root != application.BusinessObject(mustFind(g, "acme")) {
			t.Errorf("expected Acme as root object, got %v", result.Root)
		}
		if result.Stats.Objects != 2 {
			t.Errorf("expected 2 tracked objects, got %d", result.Stats.Objects)
		}
	})

	t.Run("single root", func(t *testing.T) {
		g := sampleGraph()
		tree, view := newTree()
		if _, err := NewLoadTreeCommand(g, tree, "bob", 2, treesync.Unlimited).Execute(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		top := view.TopLevel()
		if len(top) != 1 || top[0].Text != "Bob Baker" {
			t.Fatalf("expected Bob as the only top-level node, got %d", len(top))
		}
		addresses := top[0].Children[0]
		if addresses.HasPlaceholder() || len(addresses.Children) != 2 {
			t.Errorf("expected Bob's addresses loaded, got %d children", len(addresses.Children))
		}
	})

	t.Run("invalid levels", func(t *testing.T) {
		tree, _ := newTree()
		_, err := NewLoadTreeCommand(sampleGraph(), tree, "", -2, 0).Execute(ctx)
		var verr *application.ValidationError
		if !errors.As(err, &verr) || verr.Field != "expandLevels" {
			t.Errorf("expected expandLevels validation error, got %v", err)
		}
	})

	t.Run("unknown root", func(t *testing.T) {
		tree, _ := newTree()
		_, err := NewLoadTreeCommand(sampleGraph(), tree, "nobody", 0, 0).Execute(ctx)
		if !errors.Is(err, application.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
