package views

// Window keeps a cursor visible in a list taller than the screen
type Window struct {
	offset int
}

// Visible returns the [start, end) range of rows to draw for a list of total
// rows, size rows high, scrolled so that cursor is on screen
func (w *Window) Visible(cursor, total, size int) (start, end int) {
	if size < 1 {
		size = 1
	}
	if cursor < w.offset {
		w.offset = cursor
	}
	if cursor >= w.offset+size {
		w.offset = cursor - size + 1
	}
	if w.offset > total-size {
		w.offset = max(total-size, 0)
	}
	return w.offset, min(w.offset+size, total)
}

// Reset scrolls back to the top
func (w *Window) Reset() {
	w.offset = 0
}
