// Package fixture reads and writes object graphs as YAML documents.
//
//	roots:
//	  - class: Organisation
//	    props:
//	      Name: Acme
//	    relationships:
//	      - name: ContactPeople
//	        objects:
//	          - class: ContactPerson
//	            props: {Name: Bob}
//
// An object that appears more than once is written in full the first time
// and as {ref: ID} afterwards, so shared and cyclic graphs survive a round
// trip.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"botree/internal/domain"
	"botree/internal/ports"
)

// Document is the top-level YAML document
type Document struct {
	Roots []ObjectSpec `yaml:"roots"`
}

// ObjectSpec describes one object or a reference to one
type ObjectSpec struct {
	Ref           string             `yaml:"ref,omitempty"`
	ID            string             `yaml:"id,omitempty"`
	Class         string             `yaml:"class,omitempty"`
	Display       string             `yaml:"display,omitempty"`
	Props         Props              `yaml:"props,omitempty"`
	Relationships []RelationshipSpec `yaml:"relationships,omitempty"`
}

// RelationshipSpec describes a relationship and its members
type RelationshipSpec struct {
	Name    string       `yaml:"name"`
	Single  bool         `yaml:"single,omitempty"`
	Objects []ObjectSpec `yaml:"objects,omitempty"`
}

// Props is a property mapping that keeps document order
type Props []domain.Property

// UnmarshalYAML reads a mapping node pair by pair
func (p *Props) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: props must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: property %s must be a scalar", v.Line, k.Value)
		}
		*p = append(*p, domain.Property{Name: k.Value, Value: v.Value})
	}
	return nil
}

// MarshalYAML writes the properties as a mapping in order
func (p Props) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, prop := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: prop.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: prop.Value},
		)
	}
	return node, nil
}

// Source implements ports.ObjectSource for YAML files
type Source struct{}

// Ensure Source implements ObjectSource
var _ ports.ObjectSource = Source{}

// Load reads the fixture at path
func (Source) Load(path string) (*domain.Graph, error) {
	return Load(path)
}

// Load reads and parses the fixture at path
func Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse builds a graph from a YAML document
func Parse(data []byte) (*domain.Graph, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return doc.Graph()
}

// Graph builds the object graph the document describes
func (d *Document) Graph() (*domain.Graph, error) {
	b := &builder{byID: make(map[string]*domain.Object)}
	roots := make([]*domain.Object, len(d.Roots))
	for i := range d.Roots {
		if d.Roots[i].Ref != "" {
			continue
		}
		obj, err := b.object(&d.Roots[i])
		if err != nil {
			return nil, err
		}
		roots[i] = obj
	}
	if err := b.resolve(); err != nil {
		return nil, err
	}
	// a root may already have been written in full below an earlier root
	for i, spec := range d.Roots {
		if spec.Ref == "" {
			continue
		}
		obj, ok := b.byID[spec.Ref]
		if !ok {
			return nil, fmt.Errorf("root %d: unknown reference %q", i, spec.Ref)
		}
		roots[i] = obj
	}
	return domain.NewGraph(roots...), nil
}

type pendingRef struct {
	coll *domain.ObjectCollection
	pos  int
	id   string
}

type builder struct {
	byID    map[string]*domain.Object
	pending []pendingRef
}

func (b *builder) object(spec *ObjectSpec) (*domain.Object, error) {
	if spec.Class == "" {
		return nil, fmt.Errorf("object %q: class is required", spec.ID)
	}
	obj := domain.NewObject(spec.Class)
	if spec.ID != "" {
		if _, dup := b.byID[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate object id %q", spec.ID)
		}
		obj.ID = spec.ID
	}
	if spec.Display != "" {
		obj.DisplayProp = spec.Display
	}
	for _, p := range spec.Props {
		obj.Set(p.Name, p.Value)
	}
	b.byID[obj.ID] = obj

	for _, rs := range spec.Relationships {
		if rs.Name == "" {
			return nil, fmt.Errorf("%s: relationship name is required", obj)
		}
		if _, exists := obj.Relationship(rs.Name); exists {
			return nil, fmt.Errorf("%s: duplicate relationship %q", obj, rs.Name)
		}
		if rs.Single && len(rs.Objects) > 1 {
			return nil, fmt.Errorf("%s.%s: single relationship holds %d objects", obj, rs.Name, len(rs.Objects))
		}
		if rs.Single {
			obj.AddSingle(rs.Name)
		} else {
			obj.AddMultiple(rs.Name)
		}
		coll := obj.Children(rs.Name)

		for i := range rs.Objects {
			member := &rs.Objects[i]
			if member.Ref != "" {
				// placeholder slot filled once every object exists
				b.pending = append(b.pending, pendingRef{coll: coll, pos: i, id: member.Ref})
				continue
			}
			child, err := b.object(member)
			if err != nil {
				return nil, err
			}
			coll.Add(child)
		}
	}
	return obj, nil
}

func (b *builder) resolve() error {
	for _, ref := range b.pending {
		obj, ok := b.byID[ref.id]
		if !ok {
			return fmt.Errorf("unknown reference %q", ref.id)
		}
		ref.coll.Insert(ref.pos, obj)
	}
	return nil
}

// Marshal encodes g as a YAML document
func Marshal(g *domain.Graph) ([]byte, error) {
	doc := FromGraph(g)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixture: %w", err)
	}
	return data, nil
}

// Write encodes g to path
func Write(path string, g *domain.Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	return nil
}

// FromGraph converts g into a document
func FromGraph(g *domain.Graph) *Document {
	written := make(map[domain.BusinessObject]bool)
	doc := &Document{}
	for _, r := range g.Roots.Objects() {
		if o, ok := r.(*domain.Object); ok {
			doc.Roots = append(doc.Roots, specFor(o, written))
		}
	}
	return doc
}

func specFor(o *domain.Object, written map[domain.BusinessObject]bool) ObjectSpec {
	if written[o] {
		return ObjectSpec{Ref: o.ID}
	}
	written[o] = true
	spec := ObjectSpec{ID: o.ID, Class: o.Class, Props: Props(o.Properties())}
	if o.DisplayProp != domain.DefaultDisplayProperty {
		spec.Display = o.DisplayProp
	}
	for _, rel := range o.Relationships() {
		rs := RelationshipSpec{Name: rel.Name()}
		if _, ok := rel.(*domain.SingleRelationship); ok {
			rs.Single = true
		}
		for _, m := range rel.Collection().Objects() {
			if child, ok := m.(*domain.Object); ok {
				rs.Objects = append(rs.Objects, specFor(child, written))
			}
		}
		spec.Relationships = append(spec.Relationships, rs)
	}
	return spec
}
