package domain

import "fmt"

// BusinessObject is anything the tree can mirror: it has a display string
// and an ordered set of named relationships.
type BusinessObject interface {
	fmt.Stringer
	Relationships() []Relationship
	Relationship(name string) (Relationship, bool)
}

// Relationship groups the objects related to an owner under a name.
// Single relationships expose a collection of at most one object.
type Relationship interface {
	Name() string
	Owner() BusinessObject
	Collection() Collection
}

// Collection is an ordered, observable list of business objects.
type Collection interface {
	Len() int
	At(i int) BusinessObject
	IndexOf(obj BusinessObject) int
	Objects() []BusinessObject
	// Subscribe registers fn for structural changes. Calling the returned
	// function removes the subscription; it is safe to call more than once.
	Subscribe(fn func(CollectionEvent)) (cancel func())
}

// Notifier is implemented by objects that announce changes to their own
// properties.
type Notifier interface {
	OnUpdated(fn func(BusinessObject)) (cancel func())
}

// EventKind distinguishes collection events
type EventKind int

const (
	ObjectAdded EventKind = iota
	ObjectRemoved
)

func (k EventKind) String() string {
	switch k {
	case ObjectAdded:
		return "added"
	case ObjectRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// CollectionEvent describes a single structural change. Index is the
// position the object now occupies (added) or occupied (removed).
type CollectionEvent struct {
	Kind       EventKind
	Collection Collection
	Object     BusinessObject
	Index      int
}
