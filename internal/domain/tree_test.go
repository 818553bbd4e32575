package domain

import (
	"testing"
)

func buildTree() (root, org, people, alice *TreeNode) {
	o := NewNamedObject("Organisation", "Acme")
	rel := o.AddMultiple("ContactPeople")
	root = NewContainer()
	org = NewObjectNode(o)
	people = NewRelationshipNode(rel)
	alice = NewObjectNode(NewNamedObject("Person", "Alice"))
	root.Append(org)
	org.Append(people)
	people.Append(alice)
	return root, org, people, alice
}

func TestTreeNode_Flatten(t *testing.T) {
	root, org, people, _ := buildTree()

	t.Run("collapsed nodes hide children", func(t *testing.T) {
		if got := len(root.Flatten()); got != 2 {
			t.Errorf("expected 2 nodes, got %d", got)
		}
	})

	t.Run("expanded nodes show children", func(t *testing.T) {
		org.Expand()
		people.Expand()
		if got := len(root.Flatten()); got != 4 {
			t.Errorf("expected 4 nodes, got %d", got)
		}
	})
}

func TestTreeNode_Structure(t *testing.T) {
	root, org, people, alice := buildTree()

	if alice.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", alice.Depth())
	}
	if !alice.IsDescendantOf(org) || org.IsDescendantOf(alice) {
		t.Error("unexpected ancestry")
	}

	path := alice.Path()
	want := []string{"Acme", "ContactPeople", "Alice"}
	if len(path) != len(want) {
		t.Fatalf("expected %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("expected %v, got %v", want, path)
			break
		}
	}

	visited := 0
	root.Walk(func(*TreeNode) { visited++ })
	if visited != 4 {
		t.Errorf("expected to visit 4 nodes, got %d", visited)
	}

	bob := NewObjectNode(NewNamedObject("Person", "Bob"))
	people.Insert(0, bob)
	if bob.Index() != 0 || alice.Index() != 1 {
		t.Errorf("expected Bob before Alice, got %d and %d", bob.Index(), alice.Index())
	}
	if bob.Parent != people {
		t.Error("expected Insert to set parent")
	}

	alice.Detach()
	if alice.Parent != nil || len(people.Children) != 1 {
		t.Error("expected Alice detached")
	}
	if alice.Index() != -1 {
		t.Errorf("expected -1 for detached node, got %d", alice.Index())
	}
	if people.Remove(alice) {
		t.Error("expected Remove of non-child to report false")
	}
}

func TestTreeNode_Placeholder(t *testing.T) {
	rel := NewNamedObject("Organisation", "Acme").AddMultiple("ContactPeople")
	node := NewRelationshipNode(rel)
	node.Append(NewPlaceholder())

	if !node.HasPlaceholder() {
		t.Error("expected placeholder")
	}
	if node.Children[0].Text != PlaceholderText {
		t.Errorf("expected %s, got %s", PlaceholderText, node.Children[0].Text)
	}

	node.ClearChildren()
	if node.HasPlaceholder() || len(node.Children) != 0 {
		t.Error("expected children cleared")
	}
}

func TestTreeNode_Equal(t *testing.T) {
	a, _, _, _ := buildTree()
	b, _, _, _ := buildTree()

	if a.Equal(b) {
		t.Error("expected trees over different objects to differ")
	}
	if !a.Equal(a) {
		t.Error("expected tree to equal itself")
	}

	o := NewNamedObject("Organisation", "Acme")
	x, y := NewContainer(), NewContainer()
	x.Append(NewObjectNode(o))
	y.Append(NewObjectNode(o))
	if !x.Equal(y) {
		t.Error("expected equal content to compare equal")
	}
	y.Children[0].Expand()
	if x.Equal(y) {
		t.Error("expected expansion state to matter")
	}

	var nilNode *TreeNode
	if !nilNode.Equal(nil) || x.Equal(nil) {
		t.Error("unexpected nil comparison")
	}
}
