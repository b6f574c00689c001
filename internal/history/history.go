// Package history implements local undo/redo over document snapshots.
//
// History never produces sync events: undo and redo only restore prior local
// state. Remote edits are not recorded.
package history

import "github.com/artdeck/artdeck-go/internal/document"

// DefaultDepth bounds the undo stack when New is given a non-positive depth.
const DefaultDepth = 100

// Manager holds the undo and redo stacks.
type Manager struct {
	undo  []document.Snapshot
	redo  []document.Snapshot
	depth int
}

// New returns a Manager keeping at most depth undo steps.
func New(depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{depth: depth}
}

// Record pushes the current state of doc onto the undo stack and clears the
// redo stack. Call it before the mutation, never after.
func (m *Manager) Record(doc *document.Document) {
	m.undo = append(m.undo, doc.Snapshot())
	if len(m.undo) > m.depth {
		m.undo = m.undo[len(m.undo)-m.depth:]
	}
	m.redo = nil
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (m *Manager) Undo(doc *document.Document) bool {
	if len(m.undo) == 0 {
		return false
	}
	m.redo = append(m.redo, doc.Snapshot())
	last := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	doc.Restore(last)
	return true
}

// Redo re-applies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (m *Manager) Redo(doc *document.Document) bool {
	if len(m.redo) == 0 {
		return false
	}
	m.undo = append(m.undo, doc.Snapshot())
	last := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	doc.Restore(last)
	return true
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Reset drops both stacks.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}
