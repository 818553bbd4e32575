package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"botree/internal/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	if err := s.Open(filepath.Join(t.TempDir(), "nested", "botree.db")); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGraph() (*domain.Graph, *domain.Object) {
	org := domain.NewNamedObject("Organisation", "Acme")
	alice := domain.NewNamedObject("ContactPerson", "Alice")
	bob := domain.NewNamedObject("ContactPerson", "Bob")
	bob.Set("Email", "bob@example.com")
	home := domain.NewObject("Address")
	home.DisplayProp = "Street"
	home.Set("Street", "1 Home Street")

	org.AddMultiple("ContactPeople").Objects().Add(alice)
	org.Children("ContactPeople").Add(bob)
	alice.AddMultiple("Addresses")
	bob.AddMultiple("Addresses").Objects().Add(home)
	bob.AddSingle("Employer").Set(org)

	other := domain.NewNamedObject("Organisation", "Globex")
	return domain.NewGraph(org, other), bob
}

func outline(g *domain.Graph) []string {
	var lines []string
	g.Walk(func(o *domain.Object, depth int) bool {
		line := o.Class + ":" + o.String()
		for _, rel := range o.Relationships() {
			line += " " + rel.Name()
			for _, m := range rel.Collection().Objects() {
				line += "/" + m.String()
			}
		}
		lines = append(lines, line)
		return true
	})
	return lines
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, bob := sampleGraph()

	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	want, got := outline(g), outline(loaded)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	t.Run("ids and properties survive", func(t *testing.T) {
		found, ok := loaded.Find(bob.ID)
		if !ok {
			t.Fatalf("expected to find %s", bob.ID)
		}
		if v, _ := found.Get("Email"); v != "bob@example.com" {
			t.Errorf("expected bob@example.com, got %s", v)
		}
	})

	t.Run("single relationships stay single", func(t *testing.T) {
		found, _ := loaded.Find(bob.ID)
		rel, ok := found.Relationship("Employer")
		if !ok {
			t.Fatal("expected Employer relationship")
		}
		single, ok := rel.(*domain.SingleRelationship)
		if !ok {
			t.Fatalf("expected single relationship, got %T", rel)
		}
		if single.Related() != domain.BusinessObject(loaded.Roots.At(0)) {
			t.Error("expected the cycle back to the root to be restored")
		}
	})

	t.Run("custom display property", func(t *testing.T) {
		found, _ := loaded.Find(bob.ID)
		addr := found.Children("Addresses").At(0)
		if addr == nil || addr.String() != "1 Home Street" {
			t.Errorf("expected 1 Home Street, got %v", addr)
		}
	})
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, _ := sampleGraph()
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	only := domain.NewNamedObject("Organisation", "Initech")
	if err := s.Save(ctx, domain.NewGraph(only)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Count() != 1 || loaded.Roots.At(0).String() != "Initech" {
		t.Errorf("expected only Initech, got %v", outline(loaded))
	}
}

func TestStore_EmptyAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "botree.db")

	s := NewStore(nil)
	if err := s.Open(path); err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load empty store: %v", err)
	}
	if empty.Roots.Len() != 0 {
		t.Errorf("expected empty graph, got %d roots", empty.Roots.Len())
	}
	g, _ := sampleGraph()
	if err := s.Save(ctx, g); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	s.Close()

	reopened := NewStore(nil)
	if err := reopened.Open(path); err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer reopened.Close()

	version, err := reopened.SchemaVersion(ctx)
	if err != nil || version != schemaVersion {
		t.Errorf("expected schema version %s, got %s (%v)", schemaVersion, version, err)
	}
	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Count() != g.Count() {
		t.Errorf("expected %d objects, got %d", g.Count(), loaded.Count())
	}
	if reopened.Path() != path {
		t.Errorf("expected %s, got %s", path, reopened.Path())
	}
}
