package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/adapters/tui/styles"
	"botree/internal/application"
	"botree/internal/application/commands"
	"botree/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxSearchResults = 10

// SearchModel finds objects in the session's graph. Queries run inside
// Update: the graph is only ever read on the update loop.
type SearchModel struct {
	ViewState
	session *application.Session
	input   textinput.Model
	results []commands.FindResult
	cursor  int
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search objects..."
	input.Focus()

	return &SearchModel{
		session: session,
		input:   input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				obj := m.results[m.cursor].Object
				clipboard.WriteAll(obj.ID)
				return m, func() tea.Msg { return SearchSelectMsg{Object: obj} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search(m.input.Value())
	return m, cmd
}

func (m *SearchModel) search(query string) {
	find := commands.NewFindObjectsCommand(m.session.Graph, query)
	results, err := find.Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return
	}
	m.results = results
	if m.cursor >= len(results) {
		m.cursor = max(0, len(results)-1)
	}
}

// SearchSelectMsg is sent when a search result is chosen
type SearchSelectMsg struct {
	Object *domain.Object
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case len(m.results) > 0:
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")
		for i, r := range m.results[:min(len(m.results), maxSearchResults)] {
			b.WriteString(m.renderResult(r, i == m.cursor))
			b.WriteString("\n")
		}
		if len(m.results) > maxSearchResults {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(m.results)-maxSearchResults)))
		}
	case len(strings.TrimSpace(m.input.Value())) >= 2:
		b.WriteString(styles.MutedText.Render("No results found"))
	default:
		b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
	}

	b.WriteString("\n\n")
	b.WriteString(RenderHelpLine(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel))
	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}
	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(r commands.FindResult, selected bool) string {
	text := fmt.Sprintf("[%s] %s", r.Object.Class, r.Object)
	path := strings.Join(r.Path[:len(r.Path)-1], " > ")
	if selected {
		text = styles.NodeSelected.Render(text)
	}
	if path == "" {
		return text
	}
	return text + "  " + styles.MutedText.Render(Truncate(path, max(10, m.Width-len(text)-8), "…"))
}
