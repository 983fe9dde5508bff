package replay

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/dshills/bracer/internal/engine"
	"github.com/dshills/bracer/internal/indent"
)

// DefaultTabWidth is the column width of a tab in existing indentation.
const DefaultTabWidth = 4

// Typist retypes source text through an engine.
type Typist struct {
	tabWidth int
	log      logr.Logger
}

// Option configures a Typist.
type Option func(*Typist)

// WithTabWidth sets the width used to measure tabs in existing indentation.
func WithTabWidth(width int) Option {
	return func(t *Typist) {
		if width > 0 {
			t.tabWidth = width
		}
	}
}

// WithLogger sets the logger. The engine receives a child named "engine".
func WithLogger(log logr.Logger) Option {
	return func(t *Typist) {
		t.log = log
	}
}

// NewTypist creates a typist.
func NewTypist(opts ...Option) *Typist {
	t := &Typist{
		tabWidth: DefaultTabWidth,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reindent returns src as the engine would have indented it while typing.
// Line endings in src are preserved.
func (t *Typist) Reindent(src string) (string, error) {
	return t.ReindentContext(context.Background(), src)
}

// ReindentContext is Reindent with cancellation checked between lines.
func (t *Typist) ReindentContext(ctx context.Context, src string) (string, error) {
	doc := engine.New(engine.WithContent(src), engine.WithReadOnly(true))
	text := doc.Text()

	e := engine.New(
		engine.WithMaxUndoEntries(1),
		engine.WithLogger(t.log.WithName("engine")),
	)
	if err := t.retype(ctx, e, text); err != nil {
		return "", err
	}

	out := stripBlankLines(e.Text())
	if ending := doc.LineEnding(); ending != engine.LineEndingLF {
		out = strings.ReplaceAll(out, "\n", ending.Sequence())
	}
	return out, nil
}

// retype types text into the empty engine e, one line at a time. Lines that
// are blank in text keep the indentation Newline gave them, so the lines
// after them are placed as if the user had typed through.
func (t *Typist) retype(ctx context.Context, e *engine.Engine, text string) error {
	caret := engine.ByteOffset(0)

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			next, err := e.Newline(caret)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			caret = next
		}

		body := strings.TrimLeft(line, " \t")
		if body == "" {
			continue
		}

		var err error
		if c := body[0]; indent.IsCloser(c) {
			if caret, err = e.TypeClose(caret, c); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			body = body[1:]
		}
		if caret, err = e.Insert(caret, body); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// stripBlankLines empties every line of text that holds only spaces.
func stripBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" && strings.Trim(line, " ") == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
