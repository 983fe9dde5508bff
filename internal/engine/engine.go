package engine

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/dshills/bracer/internal/indent"
)

// ByteOffset is a byte position in the buffer.
type ByteOffset int

// LineEnding specifies the line ending style.
type LineEnding int

const (
	// LineEndingLF is Unix-style "\n".
	LineEndingLF LineEnding = iota
	// LineEndingCRLF is Windows-style "\r\n".
	LineEndingCRLF
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "CRLF"
	default:
		return "LF"
	}
}

// Sequence returns the bytes written for a newline.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Engine is the host document for auto-indented editing.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	text    []byte
	history *history
	log     logr.Logger

	// Configuration
	lineEnding     LineEnding
	maxUndoEntries int
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
		log:            logr.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	content, ending := normalizeLineEndings(e.initContent)
	e.text = []byte(content)
	e.lineEnding = ending
	e.initContent = ""
	e.history = newHistory(e.maxUndoEntries)

	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

// normalizeLineEndings converts CRLF to LF. The ending reported is CRLF
// when any CRLF pair was found.
func normalizeLineEndings(s string) (string, LineEnding) {
	if !strings.Contains(s, "\r\n") {
		return s, LineEndingLF
	}
	return strings.ReplaceAll(s, "\r\n", "\n"), LineEndingCRLF
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return string(e.text)
}

// TextRange returns the text in [start, end).
func (e *Engine) TextRange(start, end ByteOffset) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkRange(start, end); err != nil {
		return "", err
	}
	return string(e.text[start:end]), nil
}

// Len returns the length of the buffer in bytes.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ByteOffset(len(e.text))
}

// LineEnding returns the line ending written by WriteTo.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lineEnding
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// WriteTo writes the buffer with its original line endings.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	e.mu.RLock()
	out := string(e.text)
	ending := e.lineEnding
	e.mu.RUnlock()

	if ending != LineEndingLF {
		out = strings.ReplaceAll(out, "\n", ending.Sequence())
	}
	n, err := io.WriteString(w, out)
	return int64(n), err
}

// RequiredIndent returns the indentation a newline typed at offset would
// receive.
func (e *Engine) RequiredIndent(offset ByteOffset) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}
	return indent.NewlineIndent(string(e.text[:offset]), int(offset)), nil
}

// CloseDedent returns how many bytes before offset typing close would
// remove.
func (e *Engine) CloseDedent(offset ByteOffset, close byte) (int, error) {
	if !indent.IsCloser(close) {
		return 0, fmt.Errorf("%w: %q", ErrNotCloser, close)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}
	return indent.CloseDedent(string(e.text[:offset]), int(offset), close), nil
}

func (e *Engine) checkOffset(offset ByteOffset) error {
	if offset < 0 || int(offset) > len(e.text) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, len(e.text))
	}
	return nil
}

func (e *Engine) checkRange(start, end ByteOffset) error {
	if end < start {
		return fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, start, end)
	}
	if err := e.checkOffset(start); err != nil {
		return err
	}
	return e.checkOffset(end)
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	return e.insertLocked(offset, text)
}

// insertLocked performs insertion without acquiring the lock.
func (e *Engine) insertLocked(offset ByteOffset, text string) (ByteOffset, error) {
	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}
	if text == "" {
		return offset, nil
	}

	e.text = slices.Insert(e.text, int(offset), []byte(text)...)
	end := offset + ByteOffset(len(text))
	e.history.push(appliedEdit{
		offset:      int(offset),
		inserted:    text,
		caretBefore: offset,
		caretAfter:  end,
	})
	return end, nil
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end ByteOffset) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.deleteLocked(start, end)
}

// deleteLocked performs deletion without acquiring the lock.
func (e *Engine) deleteLocked(start, end ByteOffset) error {
	if err := e.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}

	removed := string(e.text[start:end])
	e.text = slices.Delete(e.text, int(start), int(end))
	e.history.push(appliedEdit{
		offset:      int(start),
		removed:     removed,
		caretBefore: end,
		caretAfter:  start,
	})
	return nil
}

// Newline inserts a newline at offset followed by the indentation the
// line requires. Returns the caret position after the indentation.
func (e *Engine) Newline(offset ByteOffset) (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}

	n := indent.NewlineIndent(string(e.text[:offset]), int(offset))
	e.log.V(1).Info("newline", "offset", int(offset), "indent", n)

	return e.insertLocked(offset, "\n"+strings.Repeat(" ", n))
}

// TypeClose inserts the closing bracket close at offset after removing the
// indentation that would leave it deeper than its block. Returns the caret
// position after the bracket. The removal and insertion undo as one step.
func (e *Engine) TypeClose(offset ByteOffset, close byte) (ByteOffset, error) {
	if !indent.IsCloser(close) {
		return 0, fmt.Errorf("%w: %q", ErrNotCloser, close)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}

	remove := indent.CloseDedent(string(e.text[:offset]), int(offset), close)
	e.log.V(1).Info("close", "offset", int(offset), "char", string(close), "remove", remove)

	e.history.beginGroup("typeClose")
	defer e.history.endGroup()

	start := offset - ByteOffset(remove)
	if err := e.deleteLocked(start, offset); err != nil {
		return 0, err
	}
	return e.insertLocked(start, string(close))
}

// ============================================================================
// Undo/Redo
// ============================================================================

// BeginUndoGroup starts grouping edits so they undo as one step.
func (e *Engine) BeginUndoGroup(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.beginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.endGroup()
}

// Undo reverses the last undo step and returns the caret position from
// before it.
func (e *Engine) Undo() (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	entry, ok := e.history.popUndo()
	if !ok {
		return 0, ErrNothingToUndo
	}

	for i := len(entry.edits) - 1; i >= 0; i-- {
		ed := entry.edits[i]
		e.replaceRaw(ed.offset, len(ed.inserted), ed.removed)
	}
	return entry.edits[0].caretBefore, nil
}

// Redo reapplies the last undone step and returns the caret position after
// it.
func (e *Engine) Redo() (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	entry, ok := e.history.popRedo()
	if !ok {
		return 0, ErrNothingToRedo
	}

	for _, ed := range entry.edits {
		e.replaceRaw(ed.offset, len(ed.removed), ed.inserted)
	}
	return entry.edits[len(entry.edits)-1].caretAfter, nil
}

// replaceRaw swaps n bytes at offset for text without recording history.
func (e *Engine) replaceRaw(offset, n int, text string) {
	e.text = slices.Replace(e.text, offset, offset+n, []byte(text)...)
}

// CanUndo returns true if there are steps to undo.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history.undoStack) > 0
}

// CanRedo returns true if there are steps to redo.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (e *Engine) UndoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history.undoStack)
}

// ClearHistory drops all undo and redo steps.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.clear()
}
