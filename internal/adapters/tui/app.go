// Package tui is the terminal browser for object trees.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/adapters/fixture"
	"botree/internal/adapters/tui/views"
	"botree/internal/application"
	"botree/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewSearch
	ViewEdit
	ViewRemove
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *application.Session
	watcher *fixture.Watcher
	editor  ports.EditorOpener
	file    string

	state   ViewState
	browser *views.BrowserModel
	search  *views.SearchModel
	edit    *views.EditModel
	remove  *views.RemoveModel
	help    *views.HelpModel

	width  int
	height int
}

// Option configures an App
type Option func(*App)

// WithWatcher reloads the tree whenever w reports a change
func WithWatcher(w *fixture.Watcher) Option {
	return func(a *App) {
		a.watcher = w
	}
}

// WithEditor lets the o key open file in an external editor
func WithEditor(e ports.EditorOpener, file string) Option {
	return func(a *App) {
		a.editor = e
		a.file = file
	}
}

// NewApp creates the application. The session's controller must drive tree.
func NewApp(session *application.Session, tree *views.TreeModel, opts views.BrowserOptions, options ...Option) *App {
	a := &App{
		session: session,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(session, tree, opts),
		search:  views.NewSearchModel(session),
		edit:    views.NewEditModel(),
		remove:  views.NewRemoveModel(session),
		help:    views.NewHelpModel(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// FileChangedMsg is sent when the watched fixture changes on disk
type FileChangedMsg struct{}

// WatchFileCmd waits for the next settled change of w
func WatchFileCmd(w *fixture.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// EditorClosedMsg is sent when the external editor exits
type EditorClosedMsg struct {
	Err error
}

func (a *App) openEditor() tea.Cmd {
	if a.editor == nil || a.file == "" {
		return func() tea.Msg {
			return views.ActionErrMsg{Err: errors.New("only fixtures can be edited")}
		}
	}
	cmd, err := a.editor.Command(a.file)
	if err != nil {
		return func() tea.Msg { return views.ActionErrMsg{Err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return EditorClosedMsg{Err: err}
	})
}

// Init loads the tree and starts watching
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.browser.Init()}
	if a.watcher != nil {
		cmds = append(cmds, WatchFileCmd(a.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.edit.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case FileChangedMsg:
		return a, tea.Batch(a.browser.Reload(), WatchFileCmd(a.watcher))

	case views.OpenEditorMsg:
		return a, a.openEditor()

	case EditorClosedMsg:
		if msg.Err != nil {
			_, cmd := a.browser.Update(views.ActionErrMsg{Err: msg.Err})
			return a, cmd
		}
		// a watcher reloads on its own
		if a.watcher != nil {
			return a, nil
		}
		return a, a.browser.Reload()

	// View switching messages
	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToEditMsg:
		a.state = ViewEdit
		if msg.Mode == views.EditAdd {
			return a, a.edit.StartAdd(msg.Target, msg.Relationship, msg.Class)
		}
		return a, a.edit.StartRename(msg.Target)

	case views.SwitchToRemoveMsg:
		a.state = ViewRemove
		a.remove.SetTarget(msg.Object)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	// Requests from the other views are carried out by the browser
	case views.RemoveRequestMsg, views.RenameRequestMsg, views.AddRequestMsg, views.SearchSelectMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.ActionErrMsg:
		if a.state == ViewRemove {
			a.remove.SetError(msg.Err)
			return a, nil
		}
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewEdit:
		_, cmd = a.edit.Update(msg)
	case ViewRemove:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewEdit:
		return a.edit.View()
	case ViewRemove:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}

// State returns the current view
func (a *App) State() ViewState {
	return a.state
}
