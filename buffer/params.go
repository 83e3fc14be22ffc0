// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"errors"
	"fmt"
	"reflect"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
	"github.com/jinzhu/copier"
)

// ErrInvalidParams is returned for an invalid parameter combination.
var ErrInvalidParams = errors.New("buffer: invalid parameters")

// Params are the parameters of one buffer kind. The concrete types are
// [TubeParams], [RibbonParams], [CylinderParams], [LineParams] and
// [SphereParams].
type Params interface {

	// Kind returns the buffer kind these parameters apply to.
	Kind() Kind

	// Validate reports an invalid combination, wrapping [ErrInvalidParams].
	Validate() error
}

// TubeParams are the parameters of a [Tube] buffer.
type TubeParams struct {

	// RadialSegments is the number of segments around the cross section.
	RadialSegments int `default:"8"`

	// Capped closes both ends of the tube.
	Capped bool `default:"true"`

	// AspectRatio scales the cross section along the normal, making it elliptic.
	AspectRatio float32 `default:"1"`
}

// RibbonParams are the parameters of a [Ribbon] buffer. Ribbons have no
// parameters beyond the path itself.
type RibbonParams struct{}

// CylinderParams are the parameters of a [Cylinder] buffer.
type CylinderParams struct {

	// OpenEnded omits the caps of triangulated cylinders.
	OpenEnded bool

	// DisableImpostor generates explicit triangulated geometry instead of
	// one impostor instance per cylinder.
	DisableImpostor bool

	// RadialSegments is the number of segments around triangulated cylinders.
	RadialSegments int `default:"8"`
}

// LineParams are the parameters of a [WideLine] buffer.
type LineParams struct {

	// LineWidth is the screen-space width of the lines.
	LineWidth float32 `default:"2"`
}

// SphereParams are the parameters of a [Sphere] buffer.
type SphereParams struct {

	// DisableImpostor generates explicit triangulated geometry instead of
	// one impostor instance per sphere.
	DisableImpostor bool

	// Segments is the number of width and height segments of triangulated spheres.
	Segments int `default:"12"`
}

func (p *TubeParams) Kind() Kind     { return Tube }
func (p *RibbonParams) Kind() Kind   { return Ribbon }
func (p *CylinderParams) Kind() Kind { return Cylinder }
func (p *LineParams) Kind() Kind     { return WideLine }
func (p *SphereParams) Kind() Kind   { return Sphere }

func (p *TubeParams) Validate() error {
	if p.RadialSegments < 3 {
		return fmt.Errorf("%w: tube radial segments %d < 3", ErrInvalidParams, p.RadialSegments)
	}
	if p.AspectRatio <= 0 {
		return fmt.Errorf("%w: tube aspect ratio %g <= 0", ErrInvalidParams, p.AspectRatio)
	}
	return nil
}

func (p *RibbonParams) Validate() error { return nil }

func (p *CylinderParams) Validate() error {
	if p.DisableImpostor && p.RadialSegments < 3 {
		return fmt.Errorf("%w: cylinder radial segments %d < 3", ErrInvalidParams, p.RadialSegments)
	}
	return nil
}

func (p *LineParams) Validate() error {
	if p.LineWidth <= 0 {
		return fmt.Errorf("%w: line width %g <= 0", ErrInvalidParams, p.LineWidth)
	}
	return nil
}

func (p *SphereParams) Validate() error {
	if p.DisableImpostor && p.Segments < 3 {
		return fmt.Errorf("%w: sphere segments %d < 3", ErrInvalidParams, p.Segments)
	}
	return nil
}

// Defaults holds one parameter struct per kind.
type Defaults struct {
	Tube     TubeParams     `toml:"tube" yaml:"tube"`
	Ribbon   RibbonParams   `toml:"ribbon" yaml:"ribbon"`
	Cylinder CylinderParams `toml:"cylinder" yaml:"cylinder"`
	Line     LineParams     `toml:"line" yaml:"line"`
	Sphere   SphereParams   `toml:"sphere" yaml:"sphere"`
}

// NewDefaults returns parameters set from their default tags.
func NewDefaults() *Defaults {
	d := &Defaults{}
	d.SetDefaults()
	return d
}

// SetDefaults sets all fields from their default tags.
func (d *Defaults) SetDefaults() {
	cerrors.Log(reflectx.SetFromDefaultTags(&d.Tube))
	cerrors.Log(reflectx.SetFromDefaultTags(&d.Cylinder))
	cerrors.Log(reflectx.SetFromDefaultTags(&d.Line))
	cerrors.Log(reflectx.SetFromDefaultTags(&d.Sphere))
}

// Validate validates the parameters of every kind.
func (d *Defaults) Validate() error {
	return errors.Join(d.Tube.Validate(), d.Ribbon.Validate(), d.Cylinder.Validate(), d.Line.Validate(), d.Sphere.Validate())
}

// merge returns a copy of def with override applied on top. A nil
// override returns def unchanged. Numeric fields left at zero in
// override keep their defaults; boolean fields are always taken from
// override, so a caller can switch a default off.
func merge[T any](def T, override *T) (T, error) {
	out := def
	if override == nil {
		return out, nil
	}
	if err := copier.CopyWithOption(&out, override, copier.Option{IgnoreEmpty: true}); err != nil {
		return out, fmt.Errorf("buffer: merging parameters: %w", err)
	}
	ov := reflect.ValueOf(override).Elem()
	dv := reflect.ValueOf(&out).Elem()
	for i := range ov.NumField() {
		if f := ov.Field(i); f.Kind() == reflect.Bool {
			dv.Field(i).SetBool(f.Bool())
		}
	}
	return out, nil
}
