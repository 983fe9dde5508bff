package engine

// appliedEdit records one edit that has already been applied to the text.
// Undo replaces inserted with removed at offset; redo does the reverse.
type appliedEdit struct {
	offset      int
	removed     string
	inserted    string
	caretBefore ByteOffset
	caretAfter  ByteOffset
}

// undoEntry is the unit of undo: every edit made by one keystroke.
type undoEntry struct {
	name  string
	edits []appliedEdit
}

// history manages undo/redo state. It is not safe for concurrent use;
// the Engine serializes access.
type history struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	grouping  int
	groupName string
	groupEdit []appliedEdit

	maxEntries int
}

func newHistory(maxEntries int) *history {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxUndoEntries
	}
	return &history{maxEntries: maxEntries}
}

// push records an edit and clears the redo stack.
func (h *history) push(edit appliedEdit) {
	if h.grouping > 0 {
		h.groupEdit = append(h.groupEdit, edit)
		return
	}
	h.pushEntry(&undoEntry{name: "edit", edits: []appliedEdit{edit}})
}

func (h *history) pushEntry(entry *undoEntry) {
	h.undoStack = append(h.undoStack, entry)
	if len(h.undoStack) > h.maxEntries {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxEntries:]
	}
	h.redoStack = nil
}

// beginGroup starts collecting edits into one entry. Groups nest; only the
// outermost name is kept.
func (h *history) beginGroup(name string) {
	if h.grouping == 0 {
		h.groupName = name
		h.groupEdit = nil
	}
	h.grouping++
}

// endGroup closes a group and pushes it if it holds any edit.
func (h *history) endGroup() {
	if h.grouping == 0 {
		return
	}
	h.grouping--
	if h.grouping > 0 {
		return
	}
	if len(h.groupEdit) > 0 {
		h.pushEntry(&undoEntry{name: h.groupName, edits: h.groupEdit})
	}
	h.groupName = ""
	h.groupEdit = nil
}

func (h *history) popUndo() (*undoEntry, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return entry, true
}

func (h *history) popRedo() (*undoEntry, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return entry, true
}

func (h *history) clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = 0
	h.groupName = ""
	h.groupEdit = nil
}
