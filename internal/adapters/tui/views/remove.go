package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/application"
	"botree/internal/application/commands"
	"botree/internal/domain"
)

// RemoveModel asks before removing an object from the relationship that
// holds it
type RemoveModel struct {
	ConfirmationModel
	session *application.Session
}

// NewRemoveModel creates a new remove view model
func NewRemoveModel(session *application.Session) *RemoveModel {
	return &RemoveModel{
		ConfirmationModel: NewConfirmationModel(),
		session:           session,
	}
}

// Init initializes the remove view
func (m *RemoveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the remove view
func (m *RemoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doRemove,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

// doRemove only builds the request. Commands run off the update loop and
// the tree is changed when the browser handles the message.
func (m *RemoveModel) doRemove() tea.Msg {
	obj, ok := m.Target.(*domain.Object)
	if !ok {
		return ActionErrMsg{Err: fmt.Errorf("no object selected")}
	}
	return RemoveRequestMsg{ObjectID: obj.ID}
}

// RemoveRequestMsg asks the browser to remove an object
type RemoveRequestMsg struct {
	ObjectID string
}

// View renders the remove confirmation view
func (m *RemoveModel) View() string {
	vb := NewViewBuilder().
		Title("Remove Object").
		Line(RenderObjectInfo(m.Target, "Remove")).
		BlankLine()

	if m.Target != nil && len(m.Target.Relationships()) > 0 {
		vb.Muted("  Objects reachable only through it leave the graph too.").BlankLine()
	}
	return vb.
		Message(m.Message, m.MessageErr).
		Line(RenderConfirmPrompt("Are you sure?")).
		String()
}

// removeObject executes the remove command against the session
func removeObject(ctx context.Context, session *application.Session, id string) (string, error) {
	result, err := commands.NewRemoveObjectCommand(session.Graph, id).Execute(ctx)
	if err != nil {
		return "", err
	}
	if err := session.Save(ctx); err != nil {
		return "", err
	}
	return result.Message, nil
}
