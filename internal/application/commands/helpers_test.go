package commands

import (
	"botree/internal/adapters/fixture"
	"botree/internal/adapters/memtree"
	"botree/internal/domain"
	"botree/internal/treesync"
)

func sampleGraph() *domain.Graph {
	return fixture.Sample()
}

func newTree() (*treesync.Controller, *memtree.View) {
	view := memtree.New()
	return treesync.New(view), view
}

func mustFind(g *domain.Graph, id string) *domain.Object {
	obj, ok := g.Find(id)
	if !ok {
		panic("sample has no " + id)
	}
	return obj
}
