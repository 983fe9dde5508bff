package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/go-logr/logr"

	"github.com/dshills/bracer/internal/config"
	"github.com/dshills/bracer/internal/logging"
	"github.com/dshills/bracer/internal/replay"
	"github.com/dshills/bracer/internal/source"
)

// app holds what commands share once flags and configuration are resolved.
type app struct {
	ctx     context.Context
	cfg     config.Config
	log     logr.Logger
	typist  *replay.Typist
	matcher *source.Matcher
	stdout  io.Writer

	sync func() error
}

func newApp(ctx context.Context, g Globals, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.NewLoader().Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	zl, err := logging.NewZap(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
		Name:   "bracer",
	})
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	log := logging.FromZap(zl)

	matcher, err := source.NewMatcher(cfg.Files.Include, cfg.Files.Exclude)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}

	log.V(1).Info("configured",
		"config", g.Config,
		"tabWidth", cfg.Indent.TabWidth,
		"include", cfg.Files.Include,
		"exclude", cfg.Files.Exclude,
	)

	return &app{
		ctx: ctx,
		cfg: cfg,
		log: log,
		typist: replay.NewTypist(
			replay.WithTabWidth(cfg.Indent.TabWidth),
			replay.WithLogger(log.WithName("replay")),
		),
		matcher: matcher,
		stdout:  stdout,
		sync:    zl.Sync,
	}, nil
}

// close flushes buffered log entries. Terminals and pipes reject fsync
// with EINVAL or ENOTTY; those are not reported.
func (a *app) close() error {
	err := a.sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
