package session

import "github.com/rcliao/prompt-canvas/internal/model"

// History holds undo and redo snapshots of a canvas's drawing sequence.
// Snapshots are never modified after they are pushed.
type History struct {
	undo [][]model.Drawing
	redo [][]model.Drawing // front is the next redo
}

// Push records snap as the state before an edit and clears redo.
func (h *History) Push(snap []model.Drawing) {
	h.undo = append(h.undo, snap)
	h.redo = nil
}

// Undo pops the last snapshot and pushes current onto the front of redo.
// It reports false, returning current, when there is nothing to undo.
func (h *History) Undo(current []model.Drawing) ([]model.Drawing, bool) {
	n := len(h.undo)
	if n == 0 {
		return current, false
	}
	prev := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append([][]model.Drawing{current}, h.redo...)
	return prev, true
}

// Redo pops the front of redo and pushes current onto undo.
func (h *History) Redo(current []model.Drawing) ([]model.Drawing, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[0]
	h.redo = h.redo[1:]
	h.undo = append(h.undo, current)
	return next, true
}

// Reset drops both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// Len returns the depth of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
