package views

import (
	"errors"

	"botree/internal/application"
)

// ViewState holds what every view shares: its size and the status line
// shown under it.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err on the status line. Validation failures show only
// their message, without the field prefix.
func (s *ViewState) SetError(err error) {
	var ve *application.ValidationError
	if errors.As(err, &ve) {
		s.SetMessage(ve.Message, true)
		return
	}
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the status line
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}
