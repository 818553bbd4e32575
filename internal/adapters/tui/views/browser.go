package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/adapters/tui/styles"
	"botree/internal/application"
	"botree/internal/application/commands"
	"botree/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Add     key.Binding
	Rename  key.Binding
	Remove  key.Binding
	Hide    key.Binding
	ShowAll key.Binding
	Copy    key.Binding
	Open    key.Binding
	Reload  key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Rename: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "rename"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Hide: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "hide"),
	),
	ShowAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "show all"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "edit fixture"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserOptions selects what the browser loads
type BrowserOptions struct {
	Source        string // shown under the title
	RootID        string // empty shows every root
	ExpandLevels  int
	DisplayLevels int
}

// BrowserModel is the main view: the tree plus the actions on it. Every
// change to the graph or the tree happens inside Update.
type BrowserModel struct {
	ViewState
	session *application.Session
	tree    *TreeModel
	opts    BrowserOptions
	hidden  []*domain.Object
	loaded  bool
}

// NewBrowserModel creates a browser over session, whose controller must
// drive tree
func NewBrowserModel(session *application.Session, tree *TreeModel, opts BrowserOptions) *BrowserModel {
	return &BrowserModel{
		session: session,
		tree:    tree,
		opts:    opts,
	}
}

// Tree returns the tree widget
func (m *BrowserModel) Tree() *TreeModel {
	return m.tree
}

// Init loads the graph
func (m *BrowserModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload reads the graph from the session's store in the background
func (m *BrowserModel) Reload() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		g, err := session.Fetch(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return GraphLoadedMsg{Graph: g}
	}
}

// GraphLoadedMsg carries a freshly read graph
type GraphLoadedMsg struct {
	Graph *domain.Graph
}

// ActionErrMsg reports a failed action
type ActionErrMsg struct {
	Err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case GraphLoadedMsg:
		m.apply(ctx, msg.Graph)
		return m, nil

	case ActionErrMsg:
		m.SetError(msg.Err)
		return m, nil

	case RemoveRequestMsg:
		m.report(removeObject(ctx, m.session, msg.ObjectID))
		if m.tree.SelectedNode() == nil {
			m.tree.Down()
		}
		return m, nil

	case RenameRequestMsg:
		m.report(m.rename(ctx, msg))
		return m, nil

	case AddRequestMsg:
		m.report(m.add(ctx, msg))
		return m, nil

	case SearchSelectMsg:
		m.goTo(msg.Object)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(ctx, msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	node := m.tree.SelectedNode()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.tree.Up()

	case key.Matches(msg, BrowserKeys.Down):
		m.tree.Down()

	case key.Matches(msg, BrowserKeys.Left):
		if node != nil && node.IsExpanded {
			m.tree.Collapse(node)
		} else {
			m.tree.Parent()
		}

	case key.Matches(msg, BrowserKeys.Right):
		if node != nil && !node.IsExpanded {
			m.tree.Expand(node)
		}

	case key.Matches(msg, BrowserKeys.Enter):
		m.tree.Toggle(node)

	case key.Matches(msg, BrowserKeys.Add):
		return m.startAdd(node)

	case key.Matches(msg, BrowserKeys.Rename):
		if obj := selectedObject(node); obj != nil {
			return func() tea.Msg { return SwitchToEditMsg{Mode: EditRename, Target: obj} }
		}

	case key.Matches(msg, BrowserKeys.Remove):
		if obj := selectedObject(node); obj != nil {
			return func() tea.Msg { return SwitchToRemoveMsg{Object: obj} }
		}

	case key.Matches(msg, BrowserKeys.Hide):
		m.hide(ctx, selectedObject(node))

	case key.Matches(msg, BrowserKeys.ShowAll):
		m.showAll(ctx)

	case key.Matches(msg, BrowserKeys.Copy):
		if node != nil {
			if err := clipboard.WriteAll(node.Text); err != nil {
				m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			} else {
				m.SetMessage(fmt.Sprintf("Copied %q", node.Text), false)
			}
		}

	case key.Matches(msg, BrowserKeys.Open):
		return func() tea.Msg { return OpenEditorMsg{} }

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

// apply installs g and reloads the tree, keeping the selected object
// selected when it still exists
func (m *BrowserModel) apply(ctx context.Context, g *domain.Graph) {
	var selectedID string
	if obj, ok := m.session.Tree.SelectedObject().(*domain.Object); ok {
		selectedID = obj.ID
	}

	m.session.SetGraph(g)
	m.hidden = nil
	load := commands.NewLoadTreeCommand(g, m.session.Tree, m.opts.RootID, m.opts.ExpandLevels, m.opts.DisplayLevels)
	result, err := load.Execute(ctx)
	if err != nil {
		m.SetError(err)
		return
	}
	m.loaded = true
	m.SetMessage(result.Message, false)

	if obj, ok := g.Find(selectedID); ok {
		m.session.Tree.SelectObject(obj)
	}
	if m.tree.SelectedNode() == nil {
		m.tree.Down()
	}
}

func (m *BrowserModel) report(message string, err error) {
	if err != nil {
		m.SetError(err)
		return
	}
	m.SetMessage(message, false)
}

func (m *BrowserModel) rename(ctx context.Context, req RenameRequestMsg) (string, error) {
	result, err := commands.NewRenameObjectCommand(m.session.Graph, req.ObjectID, req.Name).Execute(ctx)
	if err != nil {
		return "", err
	}
	m.session.Tree.Refresh(result.Object)
	return result.Message, m.session.Save(ctx)
}

func (m *BrowserModel) add(ctx context.Context, req AddRequestMsg) (string, error) {
	cmd := commands.NewAddObjectCommand(m.session.Graph, req.OwnerID, req.Relationship, req.Class, req.Name)
	if owner, ok := m.session.Graph.Find(req.OwnerID); ok {
		// new objects declare the same relationships as their siblings
		if sibling, ok := firstMember(owner, req.Relationship); ok {
			for _, rel := range sibling.Relationships() {
				cmd.Relationships = append(cmd.Relationships, rel.Name())
			}
		}
	}
	result, err := cmd.Execute(ctx)
	if err != nil {
		return "", err
	}
	if err := m.session.Save(ctx); err != nil {
		return "", err
	}
	m.goTo(result.Object)
	return result.Message, nil
}

func (m *BrowserModel) startAdd(node *domain.TreeNode) tea.Cmd {
	if node == nil {
		return nil
	}
	var owner *domain.Object
	var relationship, class string
	switch node.Kind {
	case domain.NodeRelationship:
		owner, _ = node.Relationship.Owner().(*domain.Object)
		relationship = node.Relationship.Name()
		if sibling, ok := firstMember(owner, relationship); ok {
			class = sibling.Class
		}
	case domain.NodeObject:
		owner, _ = node.Object.(*domain.Object)
	}
	if owner == nil {
		return nil
	}
	return func() tea.Msg {
		return SwitchToEditMsg{Mode: EditAdd, Target: owner, Relationship: relationship, Class: class}
	}
}

func (m *BrowserModel) hide(ctx context.Context, obj *domain.Object) {
	if obj == nil {
		return
	}
	result, err := commands.NewSetVisibilityCommand(m.session.Graph, m.session.Tree, obj.ID, false).Execute(ctx)
	if err != nil {
		m.SetError(err)
		return
	}
	m.hidden = append(m.hidden, obj)
	m.SetMessage(result.Message, false)
	if m.tree.SelectedNode() == nil {
		m.tree.Down()
	}
}

func (m *BrowserModel) showAll(ctx context.Context) {
	if len(m.hidden) == 0 {
		m.SetMessage("Nothing is hidden", false)
		return
	}
	for _, obj := range m.hidden {
		commands.NewSetVisibilityCommand(m.session.Graph, m.session.Tree, obj.ID, true).Execute(ctx)
	}
	m.SetMessage(fmt.Sprintf("Showed %d objects", len(m.hidden)), false)
	m.hidden = nil
}

// goTo selects obj's node, loading and expanding its ancestors
func (m *BrowserModel) goTo(obj *domain.Object) {
	node, ok := m.locate(obj, make(map[domain.BusinessObject]bool))
	if !ok {
		m.SetMessage(fmt.Sprintf("%s is not in the loaded tree", obj), true)
		return
	}
	m.tree.Reveal(node)
}

// locate finds obj's node, expanding the relationship that holds it when
// the owner is shown but not yet filled
func (m *BrowserModel) locate(obj domain.BusinessObject, seen map[domain.BusinessObject]bool) (*domain.TreeNode, bool) {
	if node, ok := m.session.Tree.NodeFor(obj); ok {
		return node, true
	}
	if seen[obj] {
		return nil, false
	}
	seen[obj] = true

	rel, ok := m.session.Graph.Locate(obj)
	if !ok {
		return nil, false
	}
	if _, ok := m.locate(rel.Owner(), seen); !ok {
		return nil, false
	}
	relNode, ok := m.session.Tree.RelationshipNode(rel)
	if !ok {
		return nil, false
	}
	m.tree.Expand(relNode)
	return m.session.Tree.NodeFor(obj)
}

func selectedObject(node *domain.TreeNode) *domain.Object {
	if node == nil || node.Kind != domain.NodeObject {
		return nil
	}
	obj, _ := node.Object.(*domain.Object)
	return obj
}

func firstMember(owner *domain.Object, relationship string) (*domain.Object, bool) {
	if owner == nil {
		return nil, false
	}
	coll := owner.Children(relationship)
	if coll == nil || coll.Len() == 0 {
		return nil, false
	}
	obj, ok := coll.At(0).(*domain.Object)
	return obj, ok
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// title, subtitle, message and help lines plus the app padding
	m.tree.SetSize(width-4, height-10)
}

// View renders the browser
func (m *BrowserModel) View() string {
	if !m.loaded && m.Message == "" {
		return styles.App.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("botree"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(m.subtitle()))
	b.WriteString("\n\n")
	b.WriteString(m.tree.View())
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}
	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Up, BrowserKeys.Right, BrowserKeys.Add, BrowserKeys.Remove,
		BrowserKeys.Hide, BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) subtitle() string {
	stats := m.session.Tree.Stats()
	parts := []string{fmt.Sprintf("%d objects", m.session.Graph.Count())}
	if m.opts.Source != "" {
		parts = append([]string{m.opts.Source}, parts...)
	}
	parts = append(parts, fmt.Sprintf("%d nodes", stats.Objects+stats.Relationships))
	if stats.Hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d hidden", stats.Hidden))
	}
	return strings.Join(parts, " · ")
}

// Messages for view switching
type SwitchToEditMsg struct {
	Mode         EditMode
	Target       *domain.Object
	Relationship string
	Class        string
}

type SwitchToRemoveMsg struct {
	Object *domain.Object
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// OpenEditorMsg asks the app to open the fixture in an external editor
type OpenEditorMsg struct{}
