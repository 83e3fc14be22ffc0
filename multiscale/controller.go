// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multiscale provides a level of detail controller: a state
// machine that builds the buffer set for the requested detail level of
// a domain model, and owns the disposal of the previous set before a
// replacement is installed.
package multiscale

import (
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/picking"
)

// ErrDisposed is returned by every operation on a disposed [Controller].
var ErrDisposed = errors.New("multiscale: controller disposed")

// ErrStale is returned by a [Level] Update when the current buffers no
// longer match the model, for example after elements were removed.
// [Controller.Build] then falls back to a full rebuild.
var ErrStale = errors.New("multiscale: buffers do not match the model")

// Renderer is the external collaborator that draws buffers.
// The controller only adds and removes buffers; it never draws.
type Renderer interface {
	Add(b *buffer.Buffer)
	Remove(b *buffer.Buffer)
}

// UpdateMask selects what a [Controller.Build] recomputes.
type UpdateMask uint8

const (
	UpdatePosition UpdateMask = 1 << iota
	UpdateColor
	UpdateRadius
	UpdatePicking

	// UpdateAll rebuilds everything.
	UpdateAll = UpdatePosition | UpdateColor | UpdateRadius | UpdatePicking
)

// Selective returns whether the mask only touches color and radius,
// which can be recomputed on the existing element layout.
func (m UpdateMask) Selective() bool {
	return m != 0 && m&(UpdatePosition|UpdatePicking) == 0
}

// Level is the geometry strategy for one detail level of a model of type M.
type Level[M any] struct {

	// Name describes the level, e.g. "spheres".
	Name string

	// Build returns a fresh buffer set for the controller's model.
	Build func(c *Controller[M]) ([]*buffer.Buffer, error)

	// Update recomputes the roles selected by mask (color and/or
	// radius) on bufs, which are fresh clones of the current set.
	// If nil, or if it returns [ErrStale], selective builds fall back
	// to a full rebuild.
	Update func(c *Controller[M], bufs []*buffer.Buffer, mask UpdateMask) error
}

// Parameters are the externally settable parameters of a controller.
type Parameters struct {

	// DesiredScale is the requested level.
	DesiredScale int

	// Rebuild forces a full rebuild even if the level is unchanged.
	Rebuild bool
}

// Controller builds and owns the buffer set of one model at one level.
// It is not safe for concurrent use.
type Controller[M any] struct {

	// Logger receives lifecycle diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Builder builds the buffers. If nil, a default builder using
	// Logger is created on first use.
	Builder *buffer.Builder

	// Style holds sizes and colors used by the level strategies.
	Style Style

	model     M
	levels    []Level[M]
	renderer  Renderer
	level     int
	buffers   []*buffer.Buffer
	selection *picking.Selection
	built     bool
	attached  bool
	dirty     bool
	disposed  bool
}

// New returns a controller for the model with the given level table,
// starting at desiredLevel. No geometry is built until [Controller.Create],
// [Controller.Build] or [Controller.Attach]. The renderer may be nil.
func New[M any](model M, levels []Level[M], renderer Renderer, desiredLevel int) *Controller[M] {
	return &Controller[M]{model: model, levels: levels, renderer: renderer, level: desiredLevel, Style: DefaultStyle()}
}

func (c *Controller[M]) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Model returns the model.
func (c *Controller[M]) Model() M { return c.model }

// GetBuilder returns the builder, creating a default one if needed.
func (c *Controller[M]) GetBuilder() *buffer.Builder {
	if c.Builder == nil {
		c.Builder = buffer.NewBuilder(c.Logger)
	}
	return c.Builder
}

// NumLevels returns the number of defined levels.
func (c *Controller[M]) NumLevels() int { return len(c.levels) }

// Level returns the requested level, which may be out of range.
func (c *Controller[M]) Level() int { return c.level }

// ResolvedLevel returns the index of the strategy used for the current
// level: out of range levels resolve to the last one. It is -1 if there
// are no levels.
func (c *Controller[M]) ResolvedLevel() int {
	if c.level < 0 || c.level >= len(c.levels) {
		return len(c.levels) - 1
	}
	return c.level
}

// Buffers returns the current buffer set.
func (c *Controller[M]) Buffers() []*buffer.Buffer {
	return append([]*buffer.Buffer(nil), c.buffers...)
}

// Dirty returns whether the buffer set has changed since it was last
// registered with the renderer by [Controller.Attach].
func (c *Controller[M]) Dirty() bool { return c.dirty }

// Disposed returns whether [Controller.Dispose] has been called.
func (c *Controller[M]) Disposed() bool { return c.disposed }

// Selection returns the current selection, which may be nil.
func (c *Controller[M]) Selection() *picking.Selection { return c.selection }

// Selected returns whether the domain id is selected.
func (c *Controller[M]) Selected(id uint32) bool { return c.selection.Contains(id) }

// SetLevel requests a detail level. If it differs from the current
// level the current buffers are disposed and the geometry for the new
// level is built and installed, marking the controller dirty. If the
// build fails the level and buffers are unchanged.
func (c *Controller[M]) SetLevel(level int) error {
	if c.disposed {
		return ErrDisposed
	}
	if level == c.level {
		return nil
	}
	c.logger().Debug("multiscale: level change", "from", c.level, "to", level)
	prev := c.level
	c.level = level
	if err := c.rebuild(); err != nil {
		c.level = prev
		return err
	}
	return nil
}

// SetParameters applies parameters: a changed DesiredScale goes through
// [Controller.SetLevel], and Rebuild forces a full rebuild.
func (c *Controller[M]) SetParameters(p Parameters) error {
	if c.disposed {
		return ErrDisposed
	}
	if p.DesiredScale != c.level {
		return c.SetLevel(p.DesiredScale)
	}
	if p.Rebuild {
		return c.rebuild()
	}
	return nil
}

// Create builds the geometry for the current level.
func (c *Controller[M]) Create() error {
	if c.disposed {
		return ErrDisposed
	}
	return c.rebuild()
}

// Build rebuilds the geometry. A mask that only selects color and/or
// radius recomputes those roles on fresh clones of the current buffers,
// when the level supports it; anything else is a full rebuild.
func (c *Controller[M]) Build(mask UpdateMask) error {
	if c.disposed {
		return ErrDisposed
	}
	rl := c.ResolvedLevel()
	if !mask.Selective() || !c.built || rl < 0 || c.levels[rl].Update == nil || !c.updatable(mask) {
		return c.rebuild()
	}
	bufs := make([]*buffer.Buffer, len(c.buffers))
	for i, b := range c.buffers {
		bufs[i] = b.Clone()
	}
	if err := c.levels[rl].Update(c, bufs, mask); err != nil {
		for _, b := range bufs {
			b.Dispose()
		}
		if errors.Is(err, ErrStale) {
			c.logger().Debug("multiscale: stale buffers, rebuilding", "level", rl)
			return c.rebuild()
		}
		return fmt.Errorf("multiscale: level %d update: %w", rl, err)
	}
	c.logger().Debug("multiscale: selective update", "level", rl, "mask", mask)
	c.install(bufs)
	return nil
}

// updatable returns whether the current buffers can take a selective
// update: triangulated geometry cannot change its radius in place.
func (c *Controller[M]) updatable(mask UpdateMask) bool {
	if mask&UpdateRadius == 0 {
		return true
	}
	for _, b := range c.buffers {
		if b.Mesh != nil {
			return false
		}
	}
	return true
}

// Select sets the selection used for highlighting, and recolors.
func (c *Controller[M]) Select(sel *picking.Selection) error {
	if c.disposed {
		return ErrDisposed
	}
	c.selection = sel
	if !c.built {
		return nil
	}
	return c.Build(UpdateColor)
}

// rebuild builds a new buffer set for the resolved level and installs it.
func (c *Controller[M]) rebuild() error {
	rl := c.ResolvedLevel()
	var bufs []*buffer.Buffer
	if rl >= 0 {
		var err error
		bufs, err = c.levels[rl].Build(c)
		if err != nil {
			return fmt.Errorf("multiscale: level %d (%s): %w", rl, c.levels[rl].Name, err)
		}
		c.logger().Debug("multiscale: built", "level", c.level, "strategy", c.levels[rl].Name, "buffers", len(bufs))
	}
	c.install(bufs)
	return nil
}

// install disposes the current set, unregistering it from the renderer
// if it was attached, and installs the new one.
func (c *Controller[M]) install(bufs []*buffer.Buffer) {
	c.release()
	c.buffers = bufs
	c.built = true
	c.dirty = true
}

// release unregisters and disposes the current buffers.
func (c *Controller[M]) release() {
	for _, b := range c.buffers {
		if c.attached && c.renderer != nil {
			c.renderer.Remove(b)
		}
		b.Dispose()
	}
	c.buffers = nil
	c.attached = false
}

// Clear drops the current geometry but keeps the controller usable.
// It is safe to call at any time, any number of times.
func (c *Controller[M]) Clear() {
	if len(c.buffers) > 0 {
		c.logger().Debug("multiscale: clear", "buffers", len(c.buffers))
	}
	c.release()
	c.built = false
	c.dirty = false
}

// Dispose releases everything. The controller is no longer usable.
// It is safe to call more than once.
func (c *Controller[M]) Dispose() {
	if c.disposed {
		return
	}
	c.Clear()
	c.selection = nil
	c.disposed = true
	c.logger().Debug("multiscale: disposed")
}

// Attach registers the current buffers with the renderer, building them
// first if needed, and then calls callback if it is non-nil.
func (c *Controller[M]) Attach(callback func()) error {
	if c.disposed {
		return ErrDisposed
	}
	if !c.built {
		if err := c.rebuild(); err != nil {
			return err
		}
	}
	if !c.attached && c.renderer != nil {
		for _, b := range c.buffers {
			c.renderer.Add(b)
		}
	}
	c.attached = true
	c.dirty = false
	if callback != nil {
		callback()
	}
	return nil
}
