package tui

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"botree/internal/adapters/fixture"
	"botree/internal/adapters/tui/views"
	"botree/internal/application"
	"botree/internal/domain"
)

func newApp(t *testing.T) (*App, *application.Session) {
	t.Helper()
	tree := views.NewTreeModel()
	session := application.NewSession(tree, nil, nil)
	a := NewApp(session, tree, views.BrowserOptions{ExpandLevels: 2, DisplayLevels: -1})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a.Update(views.GraphLoadedMsg{Graph: fixture.Sample()})
	return a, session
}

func find(t *testing.T, s *application.Session, id string) *domain.Object {
	t.Helper()
	obj, ok := s.Graph.Find(id)
	if !ok {
		t.Fatalf("no object %s", id)
	}
	return obj
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestApp_SwitchesViews(t *testing.T) {
	a, s := newApp(t)
	alice := find(t, s, "alice")

	tests := []struct {
		name string
		msg  tea.Msg
		want ViewState
	}{
		{"search", views.SwitchToSearchMsg{}, ViewSearch},
		{"back", views.SwitchToBrowserMsg{}, ViewBrowser},
		{"help", views.SwitchToHelpMsg{}, ViewHelp},
		{"rename", views.SwitchToEditMsg{Mode: views.EditRename, Target: alice}, ViewEdit},
		{"remove", views.SwitchToRemoveMsg{Object: alice}, ViewRemove},
		{"request returns to browser", views.SearchSelectMsg{Object: alice}, ViewBrowser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Update(tt.msg)
			if a.State() != tt.want {
				t.Errorf("expected state %d, got %d", tt.want, a.State())
			}
		})
	}
}

func TestApp_RenameFlow(t *testing.T) {
	a, s := newApp(t)
	alice := find(t, s, "alice")

	a.Update(views.SwitchToEditMsg{Mode: views.EditRename, Target: alice})
	if !strings.Contains(a.View(), "Alice Archer") {
		t.Error("expected the form prefilled with the current name")
	}

	_, cmd := a.Update(enter())
	if cmd == nil {
		t.Fatal("expected submit to produce a request")
	}
	req, ok := cmd().(views.RenameRequestMsg)
	if !ok || req.ObjectID != "alice" || req.Name != "Alice Archer" {
		t.Fatalf("expected rename request for alice, got %+v", req)
	}

	a.Update(req)
	if a.State() != ViewBrowser {
		t.Errorf("expected browser after the request, got %d", a.State())
	}
	if !strings.Contains(a.View(), "Renamed Alice Archer") {
		t.Error("expected rename message in the browser")
	}
}

func TestApp_AddRequiresName(t *testing.T) {
	a, s := newApp(t)
	acme := find(t, s, "acme")

	a.Update(views.SwitchToEditMsg{Mode: views.EditAdd, Target: acme, Relationship: "ContactPeople", Class: "ContactPerson"})
	_, cmd := a.Update(enter())

	if cmd != nil {
		t.Error("expected no request without a name")
	}
	if a.State() != ViewEdit {
		t.Errorf("expected to stay in the edit view, got %d", a.State())
	}
	if !strings.Contains(a.View(), "name is required") {
		t.Error("expected validation message")
	}
}

func TestApp_RemoveFlow(t *testing.T) {
	a, s := newApp(t)
	bob := find(t, s, "bob")

	a.Update(views.SwitchToRemoveMsg{Object: bob})
	if !strings.Contains(a.View(), "leave the graph too") {
		t.Error("expected warning for an object with relationships")
	}

	a.Update(views.ActionErrMsg{Err: errors.New("boom")})
	if a.State() != ViewRemove || !strings.Contains(a.View(), "boom") {
		t.Error("expected the error shown in the remove view")
	}

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected confirm to produce a request")
	}
	a.Update(cmd())

	if a.State() != ViewBrowser {
		t.Errorf("expected browser after removal, got %d", a.State())
	}
	if _, ok := s.Graph.Find("bob"); ok {
		t.Error("expected bob removed from the graph")
	}
	if _, ok := s.Tree.NodeFor(bob); ok {
		t.Error("expected bob's node removed")
	}
}

func TestApp_FileChangeReloads(t *testing.T) {
	a, _ := newApp(t)
	dir := t.TempDir()
	w, err := fixture.NewWatcher(dir + "/graph.yaml")
	if err != nil {
		t.Fatal(err)
	}
	a = NewApp(a.session, a.browser.Tree(), views.BrowserOptions{}, WithWatcher(w))

	_, cmd := a.Update(FileChangedMsg{})
	if cmd == nil {
		t.Error("expected a reload and a new watch")
	}
}

type fakeEditor struct {
	err  error
	path string
}

func (f *fakeEditor) Command(path string) (*exec.Cmd, error) {
	f.path = path
	if f.err != nil {
		return nil, f.err
	}
	return exec.Command("true"), nil
}

func TestApp_OpenEditor(t *testing.T) {
	t.Run("without a fixture", func(t *testing.T) {
		a, _ := newApp(t)
		_, cmd := a.Update(views.OpenEditorMsg{})
		if _, ok := cmd().(views.ActionErrMsg); !ok {
			t.Error("expected an error when there is no fixture")
		}
	})

	t.Run("editor lookup fails", func(t *testing.T) {
		a, s := newApp(t)
		ed := &fakeEditor{err: errors.New("no editor found")}
		a = NewApp(s, a.browser.Tree(), views.BrowserOptions{}, WithEditor(ed, "graph.yaml"))

		_, cmd := a.Update(views.OpenEditorMsg{})
		msg, ok := cmd().(views.ActionErrMsg)
		if !ok || msg.Err != ed.err {
			t.Errorf("expected lookup error, got %v", msg)
		}
		if ed.path != "graph.yaml" {
			t.Errorf("expected graph.yaml, got %q", ed.path)
		}
	})

	t.Run("closing reloads", func(t *testing.T) {
		a, _ := newApp(t)
		_, cmd := a.Update(EditorClosedMsg{})
		if cmd == nil {
			t.Error("expected a reload")
		}

		a.Update(EditorClosedMsg{Err: errors.New("exit status 1")})
		if !strings.Contains(a.View(), "exit status 1") {
			t.Error("expected the editor error in the browser")
		}
	})
}
