// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command helixgeom builds the render buffers of a scene file and reports
// them. With -watch it rebuilds whenever the file changes.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"cogentcore.org/core/cli"
	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/config"
	"cogentcore.org/helixgeom/multiscale"
	"cogentcore.org/helixgeom/picking"
	"github.com/fsnotify/fsnotify"
)

// Config is the configuration information for the helixgeom cli.
type Config struct {

	// Scene is the TOML or YAML scene file to build.
	Scene string `posarg:"0"`

	// Level overrides the level of detail of the scene file if it is 0 or more.
	Level int `default:"-1" flag:"l,level"`

	// Watch rebuilds the scene whenever the file changes, until interrupted.
	Watch bool `flag:"w,watch"`

	// VeryVerbose logs debug messages.
	VeryVerbose bool `flag:"vv,very-verbose"`

	// Verbose logs informational messages.
	Verbose bool `flag:"v,verbose"`

	// Quiet only logs errors.
	Quiet bool `flag:"q,quiet"`
}

func main() {
	opts := cli.DefaultOptions("helixgeom", "Helixgeom builds the render buffers of DNA helix and element path scenes.")
	cli.Run(opts, &Config{}, Run)
}

// LevelFromFlags returns the [slog.Level] for the given verbosity flags:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Run builds the scene and prints its buffers.
func Run(c *Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelFromFlags(c.VeryVerbose, c.Verbose, c.Quiet)}))
	r := &logRenderer{logger: logger}
	v, err := load(c.Scene, c.Level, r, os.Stdout, logger)
	if err != nil {
		return err
	}
	if !c.Watch {
		v.Dispose()
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, c.Scene, c.Level, v, r, os.Stdout, logger)
}

// view is the part of a [multiscale.Controller] the command uses,
// independent of the model type.
type view interface {
	SetParameters(p multiscale.Parameters) error
	Select(sel *picking.Selection) error
	Attach(callback func()) error
	Buffers() []*buffer.Buffer
	Dispose()
}

// logRenderer stands in for a GPU renderer and logs buffer registration.
type logRenderer struct {
	logger *slog.Logger
}

func (r *logRenderer) Add(b *buffer.Buffer) {
	r.logger.Info("add buffer", "buffer", b.String(), "layouts", len(b.Layout()))
}

func (r *logRenderer) Remove(b *buffer.Buffer) {
	r.logger.Info("remove buffer", "buffer", b.String())
}

// load opens and builds the scene file and attaches it to r,
// writing a report to w.
func load(filename string, level int, r multiscale.Renderer, w io.Writer, logger *slog.Logger) (view, error) {
	v, err := prepare(filename, level, r, logger)
	if err != nil {
		return nil, err
	}
	if err := attach(v, filename, w); err != nil {
		return nil, err
	}
	return v, nil
}

// prepare opens the scene file and builds it at the scene level, or at
// level if that is 0 or more. Nothing is registered with r until the
// view is attached.
func prepare(filename string, level int, r multiscale.Renderer, logger *slog.Logger) (view, error) {
	sc, err := config.Open(filename)
	if err != nil {
		return nil, err
	}
	v, err := newView(sc, r, logger)
	if err != nil {
		return nil, err
	}
	if level < 0 {
		level = sc.Level
	}
	err = v.SetParameters(multiscale.Parameters{DesiredScale: level, Rebuild: true})
	if err == nil && len(sc.Selection) > 0 {
		err = v.Select(picking.NewSelection(sc.Selection...))
	}
	if err != nil {
		v.Dispose()
		return nil, err
	}
	return v, nil
}

// attach registers the buffers of v and writes a report to w.
func attach(v view, filename string, w io.Writer) error {
	if err := v.Attach(func() { report(w, filename, v.Buffers()) }); err != nil {
		v.Dispose()
		return err
	}
	return nil
}

// newView returns an element path controller if the scene has a path,
// and a helix controller otherwise.
func newView(sc *config.Scene, r multiscale.Renderer, logger *slog.Logger) (view, error) {
	sty, err := sc.Style()
	if err != nil {
		return nil, err
	}
	bl := sc.Builder()
	bl.Logger = logger
	p, err := sc.ElementPath()
	if err != nil {
		return nil, err
	}
	if p != nil {
		c := multiscale.NewPath(p, r, sc.Level)
		c.Logger, c.Builder, c.Style = logger, bl, sty
		return c, nil
	}
	st, err := sc.Structure()
	if err != nil {
		return nil, err
	}
	c := multiscale.NewHelix(st, r, sc.Level)
	c.Logger, c.Builder, c.Style = logger, bl, sty
	return c, nil
}

// report writes one line per buffer and one per vertex buffer layout.
func report(w io.Writer, name string, bufs []*buffer.Buffer) {
	fmt.Fprintf(w, "%s: %d buffers\n", name, len(bufs))
	for _, b := range bufs {
		fmt.Fprintf(w, "  %s\n", b)
		if b.Mesh != nil {
			fmt.Fprintf(w, "    mesh: %d vertices, %d triangles\n", b.Mesh.NumVertex(), b.Mesh.NumTriangle())
		}
		for i, l := range b.Layout() {
			fmt.Fprintf(w, "    @%d stride %d step %v\n", i, l.ArrayStride, l.StepMode)
		}
	}
}

// watch rebuilds the scene whenever its file is written, replacing v.
// A scene that fails to load is logged and the previous buffers are kept.
// Otherwise the previous buffers are removed from r before the new ones
// are added. The directory is watched so that editors replacing the
// file are seen.
func watch(ctx context.Context, filename string, level int, v view, r multiscale.Renderer, w io.Writer, logger *slog.Logger) error {
	defer func() { v.Dispose() }()
	wt, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer wt.Close()
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	if err := wt.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watching", "file", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wt.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			nv, err := prepare(filename, level, r, logger)
			if err != nil {
				logger.Error("reload failed", "file", filename, "err", err)
				continue
			}
			v.Dispose()
			v = nv
			if err := attach(v, filename, w); err != nil {
				return err
			}
		case err, ok := <-wt.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher", "err", err)
		}
	}
}
