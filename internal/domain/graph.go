package domain

// Graph holds the root objects of an object graph and resolves objects by ID.
type Graph struct {
	Roots *ObjectCollection
}

// NewGraph creates a graph with the given roots
func NewGraph(roots ...*Object) *Graph {
	g := &Graph{Roots: NewCollection()}
	for _, r := range roots {
		g.Roots.Add(r)
	}
	return g
}

// Walk visits every object reachable from the roots once, depth first in
// collection order. fn returning false stops the walk.
func (g *Graph) Walk(fn func(obj *Object, depth int) bool) {
	seen := make(map[*Object]bool)
	var visit func(obj *Object, depth int) bool
	visit = func(obj *Object, depth int) bool {
		if seen[obj] {
			return true
		}
		seen[obj] = true
		if !fn(obj, depth) {
			return false
		}
		for _, rel := range obj.rels {
			for _, child := range rel.Collection().Objects() {
				if c, ok := child.(*Object); ok {
					if !visit(c, depth+1) {
						return false
					}
				}
			}
		}
		return true
	}
	for _, root := range g.Roots.Objects() {
		if r, ok := root.(*Object); ok {
			if !visit(r, 0) {
				return
			}
		}
	}
}

// Find returns the object with the given ID
func (g *Graph) Find(id string) (*Object, bool) {
	var found *Object
	g.Walk(func(obj *Object, _ int) bool {
		if obj.ID == id {
			found = obj
			return false
		}
		return true
	})
	return found, found != nil
}

// Locate returns the relationship whose collection holds obj. Root objects
// have no owning relationship and report false.
func (g *Graph) Locate(obj BusinessObject) (Relationship, bool) {
	var owner Relationship
	g.Walk(func(o *Object, _ int) bool {
		for _, rel := range o.rels {
			if rel.Collection().IndexOf(obj) >= 0 {
				owner = rel
				return false
			}
		}
		return true
	})
	return owner, owner != nil
}

// IsRoot reports whether obj is one of the graph roots
func (g *Graph) IsRoot(obj BusinessObject) bool {
	return g.Roots.Contains(obj)
}

// Count returns the number of distinct reachable objects
func (g *Graph) Count() int {
	n := 0
	g.Walk(func(*Object, int) bool {
		n++
		return true
	})
	return n
}
