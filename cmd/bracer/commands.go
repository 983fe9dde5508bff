package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dshills/bracer/internal/engine"
	"github.com/dshills/bracer/internal/source"
	"github.com/dshills/bracer/internal/watch"
)

// errDiagnostics is returned by check when any line is mis-indented. The
// diagnostics have already been printed.
var errDiagnostics = errors.New("indentation diagnostics reported")

// NewlineCmd prints the indent for a newline typed at an offset.
type NewlineCmd struct {
	File   string `arg:"" type:"existingfile" help:"Source file."`
	Offset int    `required:"" short:"o" help:"Byte offset of the cursor in the LF-normalized text."`
}

// Run executes the command.
func (c *NewlineCmd) Run(a *app) error {
	e, err := a.open(c.File)
	if err != nil {
		return err
	}
	n, err := e.RequiredIndent(engine.ByteOffset(c.Offset))
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	fmt.Fprintln(a.stdout, n)
	return nil
}

// CloseCmd prints how many bytes typing a closing bracket removes.
type CloseCmd struct {
	File   string `arg:"" type:"existingfile" help:"Source file."`
	Offset int    `required:"" short:"o" help:"Byte offset of the cursor in the LF-normalized text."`
	Char   string `default:"}" enum:"},),]" help:"Closing bracket typed (${enum})."`
}

// Run executes the command.
func (c *CloseCmd) Run(a *app) error {
	e, err := a.open(c.File)
	if err != nil {
		return err
	}
	n, err := e.CloseDedent(engine.ByteOffset(c.Offset), c.Char[0])
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	fmt.Fprintln(a.stdout, n)
	return nil
}

// ReindentCmd retypes files and prints or rewrites the result.
type ReindentCmd struct {
	Paths []string `arg:"" name:"path" help:"Files, directories or glob patterns."`
	Write bool     `short:"w" help:"Rewrite files in place instead of printing."`
}

// Run executes the command.
func (c *ReindentCmd) Run(a *app) error {
	files, err := source.Expand(c.Paths, a.matcher)
	if err != nil {
		return err
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out, err := a.typist.ReindentContext(a.ctx, string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if !c.Write {
			if len(files) > 1 {
				fmt.Fprintf(a.stdout, "==> %s <==\n", path)
			}
			fmt.Fprint(a.stdout, out)
			continue
		}

		if out == string(data) {
			a.log.V(1).Info("unchanged", "file", path)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return err
		}
		a.log.Info("reindented", "file", path)
	}
	return nil
}

// CheckCmd reports mis-indented lines.
type CheckCmd struct {
	Paths []string `arg:"" name:"path" help:"Files, directories or glob patterns."`
}

// Run executes the command. It returns errDiagnostics when any line is
// reported.
func (c *CheckCmd) Run(a *app) error {
	files, err := source.Expand(c.Paths, a.matcher)
	if err != nil {
		return err
	}

	total := 0
	for _, path := range files {
		n, err := a.checkFile(a.ctx, path)
		if err != nil {
			return err
		}
		total += n
	}

	a.log.V(1).Info("checked", "files", len(files), "diagnostics", total)
	if total > 0 {
		return errDiagnostics
	}
	return nil
}

// WatchCmd checks files whenever they change.
type WatchCmd struct {
	Paths []string `arg:"" name:"path" help:"Files or directories to watch."`
}

// Run executes the command until interrupted.
func (c *WatchCmd) Run(a *app) error {
	w, err := watch.New(a.onChange,
		watch.WithDebounce(a.cfg.Watch.Debounce.Std()),
		watch.WithMatcher(a.matcher),
		watch.WithLogger(a.log.WithName("watch")),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range c.Paths {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	a.log.Info("watching", "paths", c.Paths, "debounce", a.cfg.Watch.Debounce.String())
	return w.Run(a.ctx)
}

// onChange checks a file reported by the watcher.
func (a *app) onChange(ctx context.Context, ev watch.Event) error {
	n, err := a.checkFile(ctx, ev.Path)
	if err != nil {
		return err
	}
	a.log.Info("checked", "file", ev.Path, "op", ev.Op.String(), "diagnostics", n)
	return nil
}

// checkFile prints the diagnostics for one file and returns their count.
func (a *app) checkFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	diags, err := a.typist.CheckContext(ctx, path, string(data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	for _, d := range diags {
		fmt.Fprintln(a.stdout, d.String())
	}
	return len(diags), nil
}

// open loads a file into a read-only engine.
func (a *app) open(path string) (*engine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return engine.NewFromReader(f,
		engine.WithReadOnly(true),
		engine.WithLogger(a.log.WithName("engine")),
	)
}
