// Package editor hands fixture files to the user's editor.
package editor

import (
	"errors"
	"os"
	"os/exec"

	"botree/internal/ports"
)

// ErrNoEditor is returned when neither the environment nor PATH names an
// editor
var ErrNoEditor = errors.New("no editor found: set $EDITOR")

// fallbacks are tried in order when $EDITOR and $VISUAL are unset
var fallbacks = []string{"nvim", "vim", "vi", "nano"}

// Opener implements ports.EditorOpener
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates an opener reading the process environment
func NewOpener() *Opener {
	return &Opener{getenv: os.Getenv, lookPath: exec.LookPath}
}

// Editor returns the editor that would be started
func (o *Opener) Editor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := o.getenv(env); editor != "" {
			return editor, nil
		}
	}
	for _, name := range fallbacks {
		if path, err := o.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoEditor
}

// Command returns the command editing path, wired to the terminal so it
// can be run with tea.ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor, err := o.Editor()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}
