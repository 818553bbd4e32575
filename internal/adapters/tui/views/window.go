package views

// Window tracks which rows of a long list fit on screen. It scrolls just
// enough to keep the cursor row visible.
type Window struct {
	height int
	offset int
	total  int
}

// NewWindow creates a window showing height rows
func NewWindow(height int) *Window {
	w := &Window{}
	w.SetHeight(height)
	return w
}

// SetHeight changes the number of visible rows
func (w *Window) SetHeight(height int) {
	if height <= 0 {
		height = 10
	}
	w.height = height
	w.clamp()
}

// Height returns the number of visible rows
func (w *Window) Height() int {
	return w.height
}

// SetTotal sets the number of rows in the list
func (w *Window) SetTotal(total int) {
	w.total = total
	w.clamp()
}

// Follow scrolls so row cursor is visible
func (w *Window) Follow(cursor int) {
	if cursor < 0 {
		return
	}
	if cursor < w.offset {
		w.offset = cursor
	} else if cursor >= w.offset+w.height {
		w.offset = cursor - w.height + 1
	}
	w.clamp()
}

// Offset returns the first visible row
func (w *Window) Offset() int {
	return w.offset
}

// VisibleRange returns the start and end indices of the visible rows
func (w *Window) VisibleRange() (start, end int) {
	start = w.offset
	end = min(w.offset+w.height, w.total)
	return
}

// Above and Below count the rows scrolled out of view
func (w *Window) Above() int { return w.offset }
func (w *Window) Below() int { return max(0, w.total-w.offset-w.height) }

func (w *Window) clamp() {
	if w.offset > w.total-w.height {
		w.offset = w.total - w.height
	}
	if w.offset < 0 {
		w.offset = 0
	}
}
