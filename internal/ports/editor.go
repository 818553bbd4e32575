package ports

import "os/exec"

// EditorOpener builds the command that opens a file in an external editor
type EditorOpener interface {
	Command(path string) (*exec.Cmd, error)
}
