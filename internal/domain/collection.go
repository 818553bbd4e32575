package domain

import "slices"

type subscriber struct {
	fn     func(CollectionEvent)
	active bool
}

// ObjectCollection is the in-memory Collection. Events are raised
// synchronously on the goroutine that mutates the collection.
type ObjectCollection struct {
	objects []BusinessObject
	subs    []*subscriber
}

// Ensure ObjectCollection implements Collection
var _ Collection = (*ObjectCollection)(nil)

// NewCollection creates a collection holding objs in order
func NewCollection(objs ...BusinessObject) *ObjectCollection {
	return &ObjectCollection{objects: slices.Clone(objs)}
}

func (c *ObjectCollection) Len() int { return len(c.objects) }

func (c *ObjectCollection) At(i int) BusinessObject {
	if i < 0 || i >= len(c.objects) {
		return nil
	}
	return c.objects[i]
}

func (c *ObjectCollection) IndexOf(obj BusinessObject) int {
	return slices.Index(c.objects, obj)
}

// Contains reports whether obj is a member of the collection
func (c *ObjectCollection) Contains(obj BusinessObject) bool {
	return c.IndexOf(obj) >= 0
}

// Objects returns a copy of the members in order
func (c *ObjectCollection) Objects() []BusinessObject {
	return slices.Clone(c.objects)
}

// Add appends obj. Adding an object that is already present is a no-op.
func (c *ObjectCollection) Add(obj BusinessObject) {
	c.Insert(len(c.objects), obj)
}

// Insert places obj at index i, clamped to the collection bounds.
func (c *ObjectCollection) Insert(i int, obj BusinessObject) {
	if obj == nil || c.Contains(obj) {
		return
	}
	i = max(0, min(i, len(c.objects)))
	c.objects = slices.Insert(c.objects, i, obj)
	c.emit(CollectionEvent{Kind: ObjectAdded, Collection: c, Object: obj, Index: i})
}

// Remove deletes obj and reports whether it was present
func (c *ObjectCollection) Remove(obj BusinessObject) bool {
	i := c.IndexOf(obj)
	if i < 0 {
		return false
	}
	c.objects = slices.Delete(c.objects, i, i+1)
	c.emit(CollectionEvent{Kind: ObjectRemoved, Collection: c, Object: obj, Index: i})
	return true
}

// Move repositions the object at from to index to. Observers see a
// removal followed by an addition.
func (c *ObjectCollection) Move(from, to int) {
	obj := c.At(from)
	if obj == nil || from == to {
		return
	}
	c.Remove(obj)
	c.Insert(to, obj)
}

// Clear removes every member, raising one removed event per object from
// the back so indexes stay valid for observers.
func (c *ObjectCollection) Clear() {
	for i := len(c.objects) - 1; i >= 0; i-- {
		c.Remove(c.objects[i])
	}
}

func (c *ObjectCollection) Subscribe(fn func(CollectionEvent)) (cancel func()) {
	s := &subscriber{fn: fn, active: true}
	c.subs = append(c.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		c.subs = slices.DeleteFunc(c.subs, func(o *subscriber) bool { return o == s })
	}
}

// Subscribers returns the number of live subscriptions
func (c *ObjectCollection) Subscribers() int {
	return len(c.subs)
}

func (c *ObjectCollection) emit(ev CollectionEvent) {
	// handlers may cancel other subscriptions while we iterate
	for _, s := range slices.Clone(c.subs) {
		if s.active {
			s.fn(ev)
		}
	}
}
