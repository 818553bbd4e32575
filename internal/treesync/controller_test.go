package treesync

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botree/internal/adapters/memtree"
	"botree/internal/domain"
)

// sample is an organisation with two contact people: Alice has no
// addresses, Bob has two.
type sample struct {
	org      *domain.Object
	contacts *domain.ObjectCollection
	alice    *domain.Object
	bob      *domain.Object
	bobAddrs *domain.ObjectCollection
	home     *domain.Object
	work     *domain.Object
}

func newSample() sample {
	s := sample{
		org:   domain.NewNamedObject("Organisation", "Acme"),
		alice: domain.NewNamedObject("ContactPerson", "Alice"),
		bob:   domain.NewNamedObject("ContactPerson", "Bob"),
		home:  domain.NewNamedObject("Address", "1 Home Street"),
		work:  domain.NewNamedObject("Address", "2 Work Road"),
	}
	s.contacts = s.org.AddMultiple("ContactPeople").Objects()
	s.alice.AddMultiple("Addresses")
	s.bobAddrs = s.bob.AddMultiple("Addresses").Objects()
	s.bobAddrs.Add(s.home)
	s.bobAddrs.Add(s.work)
	s.contacts.Add(s.alice)
	s.contacts.Add(s.bob)
	return s
}

func newController(opts ...Option) (*Controller, *memtree.View) {
	view := memtree.New()
	return New(view, opts...), view
}

func texts(nodes []*domain.TreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}

func relNode(t *testing.T, c *Controller, obj *domain.Object, name string) *domain.TreeNode {
	t.Helper()
	rel, ok := obj.Relationship(name)
	require.True(t, ok, "relationship %s not declared", name)
	node, ok := c.RelationshipNode(rel)
	require.True(t, ok, "relationship %s of %s not in tree", name, obj)
	return node
}

// assertConsistent checks the lookup tables describe exactly the tree
func assertConsistent(t require.TestingT, c *Controller) {
	root := c.view.Root()
	var objects, rels, filled, updaters int
	for _, top := range root.Children {
		top.Walk(func(n *domain.TreeNode) {
			switch n.Kind {
			case domain.NodeObject:
				objects++
				require.True(t, slices.Contains(c.objectNodes[n.Object], n), "object node %s not indexed", n.Text)
				if _, ok := n.Object.(domain.Notifier); ok {
					updaters++
				}
				_, ok := c.levels[n]
				require.True(t, ok, "object node %s has no level", n.Text)
			case domain.NodeRelationship:
				rels++
				require.True(t, slices.Contains(c.relNodes[n.Relationship], n), "relationship node %s not indexed", n.Text)
				if !n.HasPlaceholder() {
					filled++
					coll := n.Relationship.Collection()
					require.True(t, c.attached[n] == coll, "collection of %s not attached", n.Text)
					require.True(t, slices.Contains(c.collNodes[coll], n), "collection of %s not indexed", n.Text)
				}
			case domain.NodePlaceholder:
				require.Len(t, n.Parent.Children, 1, "placeholder under %s has siblings", n.Parent.Text)
			}
		})
	}
	if _, ok := c.collNodes[nil]; ok {
		require.Fail(t, "nil collection mapped")
	}
	containerColls := 0
	if _, ok := c.attached[root]; ok {
		containerColls = 1
	}
	require.Equal(t, objects, c.objectNodes.count(), "object table size")
	require.Equal(t, rels, c.relNodes.count(), "relationship table size")
	require.Equal(t, filled+containerColls, len(c.attached), "attached collections")
	require.Equal(t, filled+containerColls, c.collNodes.count(), "collection table size")
	require.Equal(t, filled+containerColls+updaters, c.Stats().Subscriptions, "live subscriptions")
}

func TestLoadObject_RootIsFirstTopLevelNode(t *testing.T) {
	s := newSample()
	c, view := newController()

	c.LoadObject(s.org, 0, Unlimited)

	node, ok := c.NodeFor(s.org)
	require.True(t, ok)
	require.Len(t, view.TopLevel(), 1)
	assert.Same(t, view.TopLevel()[0], node)
	assert.Equal(t, "Acme", node.Text)
	assert.Same(t, s.org, c.RootObject())
	assertConsistent(t, c)
}

func TestLoadObject_OneLevelLeavesRelationshipUnloaded(t *testing.T) {
	s := newSample()
	c, _ := newController()

	c.LoadObject(s.org, 1, Unlimited)

	rel := relNode(t, c, s.org, "ContactPeople")
	assert.Equal(t, "ContactPeople", rel.Text)
	require.Len(t, rel.Children, 1)
	assert.True(t, rel.Children[0].IsPlaceholder())
	assert.False(t, rel.IsExpanded)
	assert.Equal(t, 0, s.contacts.Subscribers(), "unloaded relationship must not subscribe")

	_, ok := c.NodeFor(s.alice)
	assert.False(t, ok)
	assertConsistent(t, c)
}

func TestLoadObject_FourLevelsBuildsAddresses(t *testing.T) {
	s := newSample()
	c, _ := newController()

	c.LoadObject(s.org, 4, Unlimited)

	contacts := relNode(t, c, s.org, "ContactPeople")
	assert.Equal(t, []string{"Alice", "Bob"}, texts(contacts.Children))

	aliceAddrs := relNode(t, c, s.alice, "Addresses")
	assert.Empty(t, aliceAddrs.Children)
	assert.True(t, aliceAddrs.IsExpanded)

	bobAddrs := relNode(t, c, s.bob, "Addresses")
	assert.Equal(t, []string{"1 Home Street", "2 Work Road"}, texts(bobAddrs.Children))
	assertConsistent(t, c)
}

func TestLoadObject_DisplayLevels(t *testing.T) {
	tests := []struct {
		name          string
		displayLevels int
		rootChildren  int
		aliceChildren int
	}{
		{"root only", 0, 0, 0},
		{"one relationship level", 1, 1, 0},
		{"two relationship levels", 2, 1, 1},
		{"unlimited", Unlimited, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSample()
			c, view := newController()

			c.LoadObject(s.org, 4, tt.displayLevels)

			require.Len(t, view.TopLevel(), 1)
			assert.Len(t, view.TopLevel()[0].Children, tt.rootChildren)
			if alice, ok := c.NodeFor(s.alice); ok {
				assert.Len(t, alice.Children, tt.aliceChildren)
			}
			assertConsistent(t, c)
		})
	}
}

func TestLoadObject_NilProducesNoNodes(t *testing.T) {
	c, view := newController()

	c.LoadObject(nil, 3, Unlimited)
	c.LoadCollection(nil, 3, Unlimited)
	c.LoadRelationship(nil, 3, Unlimited)

	assert.Empty(t, view.TopLevel())
	assert.Nil(t, c.RootObject())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestLoadObject_ReloadReleasesSubscriptions(t *testing.T) {
	s := newSample()
	c, _ := newController()

	c.LoadObject(s.org, 4, Unlimited)
	c.LoadObject(s.org, 4, Unlimited)

	assert.Equal(t, 1, s.contacts.Subscribers())
	assert.Equal(t, 1, s.bobAddrs.Subscribers())
	assert.Equal(t, 1, s.bob.Listeners())
	assertConsistent(t, c)

	c.Clear()
	assert.Equal(t, 0, s.contacts.Subscribers())
	assert.Equal(t, 0, s.bob.Listeners())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestExpandNode_ReplacesPlaceholder(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 1, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")

	view.Expand(contacts)

	assert.Equal(t, []string{"Alice", "Bob"}, texts(contacts.Children))
	assert.Equal(t, s.contacts.Len(), len(contacts.Children))
	assert.True(t, contacts.IsExpanded)

	// grandchildren relationships arrive unloaded
	bobAddrs := relNode(t, c, s.bob, "Addresses")
	assert.True(t, bobAddrs.HasPlaceholder())
	assertConsistent(t, c)

	before := append([]*domain.TreeNode(nil), contacts.Children...)
	view.Expand(contacts)
	assert.Equal(t, before, contacts.Children, "second expansion must be a no-op")
	assert.Equal(t, 1, s.contacts.Subscribers())
}

func TestExpandNode_IgnoresUntrackedNodes(t *testing.T) {
	s := newSample()
	c, _ := newController()
	c.LoadObject(s.org, 1, Unlimited)

	rel, _ := s.org.Relationship("ContactPeople")
	stray := domain.NewRelationshipNode(rel)
	stray.Append(domain.NewPlaceholder())

	c.ExpandNode(stray)
	c.ExpandNode(nil)

	assert.True(t, stray.HasPlaceholder())
	assertConsistent(t, c)
}

func TestExpandNode_EmptyCollection(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 2, Unlimited)
	aliceAddrs := relNode(t, c, s.alice, "Addresses")
	require.True(t, aliceAddrs.HasPlaceholder())

	view.Expand(aliceAddrs)

	assert.Empty(t, aliceAddrs.Children)
	addr := domain.NewNamedObject("Address", "3 New Lane")
	aliceAddrs.Relationship.Collection().(*domain.ObjectCollection).Add(addr)
	assert.Equal(t, []string{"3 New Lane"}, texts(aliceAddrs.Children))
	assertConsistent(t, c)
}

func TestObjectAdded_InsertsAtCollectionIndex(t *testing.T) {
	s := newSample()
	c, _ := newController()
	c.LoadObject(s.org, 4, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")

	carol := domain.NewNamedObject("ContactPerson", "Carol")
	carol.AddMultiple("Addresses")
	s.contacts.Insert(0, carol)
	dave := domain.NewNamedObject("ContactPerson", "Dave")
	s.contacts.Insert(2, dave)

	assert.Equal(t, []string{"Carol", "Alice", "Dave", "Bob"}, texts(contacts.Children))
	node, ok := c.NodeFor(carol)
	require.True(t, ok)
	assert.Equal(t, "Carol", node.Text)

	// the new object's relationships follow the remaining depth budget
	carolAddrs := relNode(t, c, carol, "Addresses")
	assert.False(t, carolAddrs.HasPlaceholder())
	assertConsistent(t, c)
}

func TestObjectAdded_IncrementsChildCountByOne(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 1, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")
	view.Expand(contacts)
	before := len(contacts.Children)

	erin := domain.NewNamedObject("ContactPerson", "Erin")
	s.contacts.Add(erin)

	require.Len(t, contacts.Children, before+1)
	assert.Equal(t, "Erin", contacts.Children[before].Text)
	assertConsistent(t, c)
}

func TestObjectAdded_UnloadedRelationshipIsNotTouched(t *testing.T) {
	s := newSample()
	c, _ := newController()
	c.LoadObject(s.org, 1, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")

	s.contacts.Add(domain.NewNamedObject("ContactPerson", "Frank"))

	assert.True(t, contacts.HasPlaceholder())
	assertConsistent(t, c)
}

func TestObjectRemoved_UnregistersSubtree(t *testing.T) {
	s := newSample()
	c, _ := newController()
	c.LoadObject(s.org, 4, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")
	before := c.Stats()

	s.contacts.Remove(s.bob)

	assert.Equal(t, []string{"Alice"}, texts(contacts.Children))
	for _, obj := range []*domain.Object{s.bob, s.home, s.work} {
		_, ok := c.NodeFor(obj)
		assert.False(t, ok, "%s still tracked", obj)
	}
	bobRel, _ := s.bob.Relationship("Addresses")
	_, ok := c.RelationshipNode(bobRel)
	assert.False(t, ok)

	assert.Equal(t, 0, s.bobAddrs.Subscribers())
	assert.Equal(t, 0, s.bob.Listeners())
	assert.Equal(t, 0, s.home.Listeners())

	after := c.Stats()
	assert.Equal(t, before.Objects-3, after.Objects)
	assert.Equal(t, before.Collections-1, after.Collections)
	assertConsistent(t, c)

	// events on the detached collection no longer reach the tree
	s.bobAddrs.Add(domain.NewNamedObject("Address", "4 Gone Avenue"))
	assertConsistent(t, c)
}

func TestObjectRemoved_ClearsSelection(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)

	c.SelectObject(s.bob)
	require.NotNil(t, view.SelectedNode())

	s.contacts.Remove(s.bob)

	assert.Nil(t, view.SelectedNode())
}

func TestObjectRemoved_ClearsSelectionInsideSubtree(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)

	c.SelectObject(s.work)
	s.contacts.Remove(s.bob)

	assert.Nil(t, view.SelectedNode())
}

func TestObjectRemoved_KeepsUnrelatedSelection(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)

	c.SelectObject(s.alice)
	s.contacts.Remove(s.bob)

	node, _ := c.NodeFor(s.alice)
	assert.Same(t, node, view.SelectedNode())
}

func TestRemoveThenAdd_RestoresContent(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)
	before := view.String()

	s.contacts.Remove(s.bob)
	s.contacts.Add(s.bob)

	assert.Equal(t, before, view.String())

	fresh, freshView := newController()
	fresh.LoadObject(s.org, 4, Unlimited)
	assert.True(t, freshView.Root().Equal(view.Root()))
	assertConsistent(t, c)
}

func TestMoveBetweenParentsAndBack(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)
	before := view.String()
	aliceAddrs := s.alice.Children("Addresses")

	s.bobAddrs.Remove(s.home)
	aliceAddrs.Add(s.home)

	aliceNode := relNode(t, c, s.alice, "Addresses")
	assert.Equal(t, []string{"1 Home Street"}, texts(aliceNode.Children))
	homeNode, ok := c.NodeFor(s.home)
	require.True(t, ok)
	assert.Same(t, aliceNode, homeNode.Parent)
	assertConsistent(t, c)

	aliceAddrs.Remove(s.home)
	s.bobAddrs.Insert(0, s.home)

	assert.Equal(t, before, view.String())
	assertConsistent(t, c)
}

func TestSetVisibility_HideAndShow(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)
	before := view.String()

	c.SetVisibility(s.bob, false)

	_, ok := c.NodeFor(s.bob)
	assert.False(t, ok)
	_, ok = c.NodeFor(s.home)
	assert.False(t, ok)
	assert.Equal(t, 2, s.contacts.Len(), "hiding must not touch the collection")
	assert.True(t, c.IsHidden(s.bob))
	assertConsistent(t, c)

	c.SetVisibility(s.bob, true)

	node, ok := c.NodeFor(s.bob)
	require.True(t, ok)
	assert.Equal(t, 1, node.Index())
	assert.Equal(t, before, view.String())
	assertConsistent(t, c)
}

func TestSetVisibility_ShowRestoresExpandedSubtree(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 1, Unlimited)
	view.Expand(relNode(t, c, s.org, "ContactPeople"))
	view.Expand(relNode(t, c, s.bob, "Addresses"))
	bob, _ := c.NodeFor(s.bob)
	view.Expand(bob)
	alice, _ := c.NodeFor(s.alice)
	view.Collapse(alice)
	before := view.String()

	c.SetVisibility(s.bob, false)
	c.SetVisibility(s.bob, true)

	assert.Equal(t, before, view.String())
	addrs := relNode(t, c, s.bob, "Addresses")
	assert.Equal(t, []string{"1 Home Street", "2 Work Road"}, texts(addrs.Children))
	assert.True(t, addrs.IsExpanded)
	assertConsistent(t, c)

	t.Run("collapsed state survives", func(t *testing.T) {
		bob, _ := c.NodeFor(s.bob)
		view.Collapse(bob)
		before := view.String()

		c.SetVisibility(s.bob, false)
		c.SetVisibility(s.bob, true)

		assert.Equal(t, before, view.String())
	})

	t.Run("members added while hidden are shown", func(t *testing.T) {
		c.SetVisibility(s.bob, false)
		s.bobAddrs.Add(domain.NewNamedObject("Address", "3 New Lane"))
		c.SetVisibility(s.bob, true)

		addrs := relNode(t, c, s.bob, "Addresses")
		assert.Equal(t, []string{"1 Home Street", "2 Work Road", "3 New Lane"}, texts(addrs.Children))
		assertConsistent(t, c)
	})

	t.Run("reload forgets saved state", func(t *testing.T) {
		c.SetVisibility(s.bob, false)
		c.LoadObject(s.org, 1, Unlimited)
		assert.Empty(t, c.expansions)
	})
}

func TestSetVisibility_ShowKeepsCollectionOrder(t *testing.T) {
	s := newSample()
	c, _ := newController()
	c.LoadObject(s.org, 4, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")

	c.SetVisibility(s.alice, false)
	s.contacts.Add(domain.NewNamedObject("ContactPerson", "Grace"))
	c.SetVisibility(s.alice, true)

	assert.Equal(t, []string{"Alice", "Bob", "Grace"}, texts(contacts.Children))
	assertConsistent(t, c)
}

func TestSetVisibility_HiddenObjectSkippedOnExpandAndAdd(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 1, Unlimited)
	contacts := relNode(t, c, s.org, "ContactPeople")

	c.SetVisibility(s.alice, false)
	view.Expand(contacts)
	assert.Equal(t, []string{"Bob"}, texts(contacts.Children))

	s.contacts.Remove(s.alice)
	s.contacts.Insert(0, s.alice)
	assert.Equal(t, []string{"Bob"}, texts(contacts.Children))
	assertConsistent(t, c)
}

func TestSetVisibility_RootObject(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 2, Unlimited)
	before := view.String()

	c.SetVisibility(s.org, false)
	assert.Empty(t, view.TopLevel())
	assert.Nil(t, c.RootObject())
	assert.Equal(t, 0, s.contacts.Subscribers())

	c.SetVisibility(s.org, true)
	assert.Same(t, s.org, c.RootObject())
	assert.Equal(t, before, view.String())
	assertConsistent(t, c)
}

func TestSetVisibility_UnknownObjectIsNoop(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)
	before := view.String()

	c.SetVisibility(domain.NewNamedObject("ContactPerson", "Nobody"), true)
	c.SetVisibility(nil, false)

	assert.Equal(t, before, view.String())
}

func TestSelectObject(t *testing.T) {
	s := newSample()
	c, view := newController()
	c.LoadObject(s.org, 4, Unlimited)

	c.SelectObject(s.work)
	node, _ := c.NodeFor(s.work)
	assert.Same(t, node, view.SelectedNode())
	assert.Same(t, s.work, c.SelectedObject())

	c.SelectObject(domain.NewNamedObject("Address", "Elsewhere"))
	assert.Nil(t, view.SelectedNode())
	assert.Nil(t, c.SelectedObject())
}

func TestSetupNode_OverridesTextAndFollowsUpdates(t *testing.T) {
	s := newSample()
	c, _ := newController(WithSetupNode(func(node *domain.TreeNode, obj domain.BusinessObject) {
		if o, ok := obj.(*domain.Object); ok {
			node.Text = o.Class + ": " + node.Text
		}
	}))

	c.LoadObject(s.org, 4, Unlimited)
	node, _ := c.NodeFor(s.bob)
	assert.Equal(t, "ContactPerson: Bob", node.Text)

	s.bob.Set("Name", "Robert")
	assert.Equal(t, "ContactPerson: Robert", node.Text)

	s.contacts.Remove(s.bob)
	s.bob.Set("Name", "Bobby")
	assert.Equal(t, "ContactPerson: Robert", node.Text, "detached node must not follow updates")
}

func TestLoadCollection_MirrorsTopLevel(t *testing.T) {
	s := newSample()
	c, view := newController()

	c.LoadCollection(s.contacts, 2, Unlimited)

	assert.Equal(t, []string{"Alice", "Bob"}, texts(view.TopLevel()))
	assert.Same(t, s.alice, c.RootObject())
	bobAddrs := relNode(t, c, s.bob, "Addresses")
	assert.Len(t, bobAddrs.Children, 2)

	s.contacts.Insert(1, domain.NewNamedObject("ContactPerson", "Heidi"))
	assert.Equal(t, []string{"Alice", "Heidi", "Bob"}, texts(view.TopLevel()))

	s.contacts.Remove(s.alice)
	assert.Equal(t, []string{"Heidi", "Bob"}, texts(view.TopLevel()))
	assertConsistent(t, c)

	c.Clear()
	assert.Equal(t, 0, s.contacts.Subscribers())
}

func TestLoadRelationship(t *testing.T) {
	tests := []struct {
		name         string
		expand       int
		display      int
		placeholder  bool
		bobRelations int
	}{
		{"unloaded", 0, Unlimited, true, 0},
		{"children loaded", 1, Unlimited, false, 1},
		{"display cut off below children", 3, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSample()
			c, view := newController()
			rel, _ := s.org.Relationship("ContactPeople")

			c.LoadRelationship(rel, tt.expand, tt.display)

			require.Len(t, view.TopLevel(), 1)
			top := view.TopLevel()[0]
			assert.Equal(t, "ContactPeople", top.Text)
			assert.Nil(t, c.RootObject())
			assert.Equal(t, tt.placeholder, top.HasPlaceholder())
			if bob, ok := c.NodeFor(s.bob); ok {
				assert.Len(t, bob.Children, tt.bobRelations)
			}
			assertConsistent(t, c)
		})
	}
}

func TestSingleRelationship(t *testing.T) {
	person := domain.NewNamedObject("ContactPerson", "Ivan")
	partner := person.AddSingle("Partner")
	c, _ := newController()
	c.LoadObject(person, 2, Unlimited)
	node := relNode(t, c, person, "Partner")
	assert.Empty(t, node.Children)

	judy := domain.NewNamedObject("ContactPerson", "Judy")
	partner.Set(judy)
	assert.Equal(t, []string{"Judy"}, texts(node.Children))

	partner.Set(domain.NewNamedObject("ContactPerson", "Ken"))
	assert.Equal(t, []string{"Ken"}, texts(node.Children))
	_, ok := c.NodeFor(judy)
	assert.False(t, ok)
	assertConsistent(t, c)
}

func TestCyclicGraphTerminates(t *testing.T) {
	org := domain.NewNamedObject("Organisation", "Loop Ltd")
	person := domain.NewNamedObject("ContactPerson", "Mallory")
	org.AddMultiple("ContactPeople").Objects().Add(person)
	person.AddSingle("Employer").Set(org)

	c, view := newController()
	c.LoadObject(org, Unlimited, Unlimited)

	mallory, ok := c.NodeFor(person)
	require.True(t, ok)
	employer := mallory.Children[0]
	require.Len(t, employer.Children, 1)
	inner := employer.Children[0]
	assert.Equal(t, "Loop Ltd", inner.Text)
	assert.True(t, inner.Children[0].HasPlaceholder(), "repeated object must not be filled eagerly")

	view.Expand(inner.Children[0])
	assert.Len(t, inner.Children[0].Children, 1)
}

func TestSharedObject_EachOccurrenceTracked(t *testing.T) {
	s := newSample()
	s.bob.AddSingle("Manager").Set(s.alice)
	c, view := newController()
	c.LoadObject(s.org, Unlimited, Unlimited)

	nodes := c.NodesFor(s.alice)
	require.Len(t, nodes, 2)
	contacts := relNode(t, c, s.org, "ContactPeople")
	assert.Same(t, contacts, nodes[0].Parent)
	assertConsistent(t, c)

	t.Run("removing one occurrence keeps the other", func(t *testing.T) {
		s.contacts.Remove(s.bob)
		node, ok := c.NodeFor(s.alice)
		require.True(t, ok)
		assert.Same(t, nodes[0], node)
		assert.Len(t, c.NodesFor(s.alice), 1)
		assertConsistent(t, c)
	})

	t.Run("hiding removes every occurrence", func(t *testing.T) {
		s.contacts.Add(s.bob)
		require.Len(t, c.NodesFor(s.alice), 2)
		c.SetVisibility(s.alice, false)
		assert.Empty(t, c.NodesFor(s.alice))
		assertConsistent(t, c)

		c.SetVisibility(s.alice, true)
		assert.Len(t, c.NodesFor(s.alice), 2)
		assert.Equal(t, []string{"Alice", "Bob"}, texts(contacts.Children))
		assertConsistent(t, c)
	})

	t.Run("showing keeps the oldest occurrence first", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			c.SetVisibility(s.alice, false)
			c.SetVisibility(s.alice, true)

			node, ok := c.NodeFor(s.alice)
			require.True(t, ok)
			require.Same(t, contacts, node.Parent, "round %d", i)
		}
		c.SelectObject(s.alice)
		assert.Same(t, contacts, view.SelectedNode().Parent)
	})
}

func TestRefresh_UpdatesEveryOccurrence(t *testing.T) {
	s := newSample()
	s.bob.AddSingle("Manager").Set(s.alice)
	c, _ := newController()
	c.LoadObject(s.org, Unlimited, Unlimited)

	s.alice.Set("Name", "Alicia")
	c.Refresh(s.alice)

	nodes := c.NodesFor(s.alice)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.Equal(t, "Alicia", n.Text)
	}

	// objects without nodes are ignored
	c.Refresh(domain.NewNamedObject("ContactPerson", "Nobody"))
}
