package domain

import (
	"slices"

	"github.com/google/uuid"
)

// DefaultDisplayProperty is the property an Object uses for its display string
const DefaultDisplayProperty = "Name"

// Property is a single name/value pair of an Object
type Property struct {
	Name  string
	Value string
}

// Object is the in-memory business object: a class name, an ordered
// property bag and ordered relationships.
type Object struct {
	ID          string
	Class       string
	DisplayProp string

	props     []Property
	rels      []Relationship
	listeners []*updateListener
}

type updateListener struct {
	fn     func(BusinessObject)
	active bool
}

// Ensure Object implements BusinessObject and Notifier
var (
	_ BusinessObject = (*Object)(nil)
	_ Notifier       = (*Object)(nil)
)

// NewObject creates an object of the given class with a fresh ID
func NewObject(class string) *Object {
	return &Object{
		ID:          uuid.NewString(),
		Class:       class,
		DisplayProp: DefaultDisplayProperty,
	}
}

// NewNamedObject creates an object and sets its display property
func NewNamedObject(class, name string) *Object {
	o := NewObject(class)
	o.props = append(o.props, Property{Name: o.DisplayProp, Value: name})
	return o
}

// String returns the display property, falling back to "Class <short id>"
func (o *Object) String() string {
	if v, ok := o.Get(o.DisplayProp); ok && v != "" {
		return v
	}
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return o.Class + " " + id
}

// Get returns the value of a property
func (o *Object) Get(name string) (string, bool) {
	for _, p := range o.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Set assigns a property and notifies update listeners when the value changed
func (o *Object) Set(name, value string) {
	i := slices.IndexFunc(o.props, func(p Property) bool { return p.Name == name })
	switch {
	case i < 0:
		o.props = append(o.props, Property{Name: name, Value: value})
	case o.props[i].Value == value:
		return
	default:
		o.props[i].Value = value
	}
	for _, l := range slices.Clone(o.listeners) {
		if l.active {
			l.fn(o)
		}
	}
}

// Properties returns the properties in insertion order
func (o *Object) Properties() []Property {
	return slices.Clone(o.props)
}

// OnUpdated registers fn to run after every property change
func (o *Object) OnUpdated(fn func(BusinessObject)) (cancel func()) {
	l := &updateListener{fn: fn, active: true}
	o.listeners = append(o.listeners, l)
	return func() {
		if !l.active {
			return
		}
		l.active = false
		o.listeners = slices.DeleteFunc(o.listeners, func(x *updateListener) bool { return x == l })
	}
}

// Listeners returns the number of live update listeners
func (o *Object) Listeners() int {
	return len(o.listeners)
}

func (o *Object) Relationships() []Relationship {
	return slices.Clone(o.rels)
}

func (o *Object) Relationship(name string) (Relationship, bool) {
	for _, r := range o.rels {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// AddMultiple declares a one-to-many relationship. Declaring an existing
// name returns the existing relationship when it is a multiple one and
// replaces it, in place, when it is a single one.
func (o *Object) AddMultiple(name string) *MultipleRelationship {
	if r, ok := o.Relationship(name); ok {
		if m, ok := r.(*MultipleRelationship); ok {
			return m
		}
	}
	r := &MultipleRelationship{name: name, owner: o, objects: NewCollection()}
	o.declare(r)
	return r
}

// AddSingle declares a one-to-one relationship, replacing a multiple one
// of the same name
func (o *Object) AddSingle(name string) *SingleRelationship {
	if r, ok := o.Relationship(name); ok {
		if s, ok := r.(*SingleRelationship); ok {
			return s
		}
	}
	r := &SingleRelationship{name: name, owner: o, objects: NewCollection()}
	o.declare(r)
	return r
}

// declare adds r, or puts it in the slot of the relationship named like it
func (o *Object) declare(r Relationship) {
	for i, old := range o.rels {
		if old.Name() == r.Name() {
			o.rels[i] = r
			return
		}
	}
	o.rels = append(o.rels, r)
}

// Children returns the collection behind the relationship name, or nil
func (o *Object) Children(name string) *ObjectCollection {
	r, ok := o.Relationship(name)
	if !ok {
		return nil
	}
	switch r := r.(type) {
	case *MultipleRelationship:
		return r.objects
	case *SingleRelationship:
		return r.objects
	}
	return nil
}

// MultipleRelationship relates an owner to an ordered collection
type MultipleRelationship struct {
	name    string
	owner   BusinessObject
	objects *ObjectCollection
}

func (r *MultipleRelationship) Name() string               { return r.name }
func (r *MultipleRelationship) Owner() BusinessObject      { return r.owner }
func (r *MultipleRelationship) Collection() Collection     { return r.objects }
func (r *MultipleRelationship) Objects() *ObjectCollection { return r.objects }

// SingleRelationship relates an owner to at most one object. The related
// object is exposed as a collection of length zero or one.
type SingleRelationship struct {
	name    string
	owner   BusinessObject
	objects *ObjectCollection
}

func (r *SingleRelationship) Name() string           { return r.name }
func (r *SingleRelationship) Owner() BusinessObject  { return r.owner }
func (r *SingleRelationship) Collection() Collection { return r.objects }

// Related returns the related object, or nil
func (r *SingleRelationship) Related() BusinessObject {
	return r.objects.At(0)
}

// Set replaces the related object; nil clears it
func (r *SingleRelationship) Set(obj BusinessObject) {
	if cur := r.Related(); cur != nil {
		if cur == obj {
			return
		}
		r.objects.Remove(cur)
	}
	if obj != nil {
		r.objects.Add(obj)
	}
}
