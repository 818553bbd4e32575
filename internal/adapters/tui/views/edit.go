package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/domain"
)

// EditMode selects what the edit view submits
type EditMode int

const (
	EditRename EditMode = iota
	EditAdd
)

// EditModel collects the input for renaming an object or adding one to a
// relationship
type EditModel struct {
	ViewState
	mode   EditMode
	target *domain.Object
	form   *InputForm
}

// NewEditModel creates an edit view
func NewEditModel() *EditModel {
	return &EditModel{}
}

// StartRename prepares the view to rename obj
func (m *EditModel) StartRename(obj *domain.Object) tea.Cmd {
	m.mode, m.target = EditRename, obj
	m.ClearMessage()
	m.form = NewInputForm(NewInputField(obj.DisplayProp, "new value", 120))
	m.form.SetValue(0, obj.String())
	return m.form.Init()
}

// StartAdd prepares the view to add an object to one of owner's
// relationships. relationship preselects the relationship field.
func (m *EditModel) StartAdd(owner *domain.Object, relationship, class string) tea.Cmd {
	m.mode, m.target = EditAdd, owner
	m.ClearMessage()
	m.form = NewInputForm(
		NewInputField("Name", "display name", 120),
		NewInputField("Class", "e.g. ContactPerson", 60),
		NewInputField("Relationship", "relationship of "+owner.String(), 60),
	)
	m.form.SetValue(1, class)
	m.form.SetValue(2, relationship)
	return m.form.Init()
}

// Init initializes the edit view
func (m *EditModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the edit view
func (m *EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			if err := m.form.Validate(); err != nil {
				m.SetError(err)
				return m, nil
			}
			req := m.request()
			return m, func() tea.Msg { return req }
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *EditModel) request() tea.Msg {
	if m.mode == EditRename {
		return RenameRequestMsg{ObjectID: m.target.ID, Name: m.form.Value(0)}
	}
	return AddRequestMsg{
		OwnerID:      m.target.ID,
		Name:         m.form.Value(0),
		Class:        m.form.Value(1),
		Relationship: m.form.Value(2),
	}
}

// RenameRequestMsg asks the browser to rename an object
type RenameRequestMsg struct {
	ObjectID string
	Name     string
}

// AddRequestMsg asks the browser to add an object
type AddRequestMsg struct {
	OwnerID      string
	Relationship string
	Class        string
	Name         string
}

// View renders the edit view
func (m *EditModel) View() string {
	if m.form == nil {
		return ""
	}
	title, action, submit := "Rename Object", "Rename", "rename"
	if m.mode == EditAdd {
		title, action, submit = "Add Object", "Add to", "add"
	}
	return NewViewBuilder().
		Title(title).
		Line(RenderObjectInfo(m.target, action)).
		BlankLine().
		Line(m.form.View()).
		Message(m.Message, m.MessageErr).
		Line(m.form.RenderHelp(submit)).
		String()
}
