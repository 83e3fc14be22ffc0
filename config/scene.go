// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads scene descriptions from TOML or YAML files: the
// strands and element paths to build, the requested level of detail,
// builder parameters and display colors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/base/reflectx"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"cogentcore.org/helixgeom/buffer"
	"cogentcore.org/helixgeom/helix"
	"cogentcore.org/helixgeom/multiscale"
	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Version is the scene file format version written by this package.
const Version = "1.1.0"

// SupportedVersions is the range of scene file versions that can be read.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// ErrVersion is returned for a scene file with an unsupported version.
var ErrVersion = errors.New("config: unsupported scene version")

// Format is a scene file format.
type Format int32

const (
	TOML Format = iota
	YAML
)

// FormatFor returns the format for a file name, by extension.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("config: unknown scene file type %q", filename)
}

// Scene describes what to build.
type Scene struct {

	// Version is the file format version; empty means [Version].
	Version string `toml:"version" yaml:"version"`

	// Name is an optional label.
	Name string `toml:"name" yaml:"name"`

	// Level is the requested level of detail.
	Level int `toml:"level" yaml:"level"`

	// Strands are the DNA strands of the structure.
	Strands []Strand `toml:"strands" yaml:"strands"`

	// Dummies are strands given only by their end points; they are
	// converted to strands of unset nucleotides.
	Dummies []Dummy `toml:"dummies" yaml:"dummies"`

	// Path is an optional element path, built instead of the strands
	// when it has positions.
	Path Path `toml:"path" yaml:"path"`

	// Selection holds the initially selected domain ids.
	Selection []uint32 `toml:"selection" yaml:"selection"`

	// Params are the builder parameters.
	Params buffer.Defaults `toml:"params" yaml:"params"`

	// Colors are display colors, as names or hex strings.
	Colors Colors `toml:"colors" yaml:"colors"`
}

// Strand is one explicit strand.
type Strand struct {
	Name string `toml:"name" yaml:"name"`

	// Sequence is a string of A, T, C, G and - (unset) letters.
	Sequence string `toml:"sequence" yaml:"sequence"`

	// Length is the number of unset nucleotides, used if Sequence is empty.
	Length int `toml:"length" yaml:"length"`

	Start     math32.Vector3 `toml:"start" yaml:"start"`
	Direction math32.Vector3 `toml:"direction" yaml:"direction"`

	// Complementary also adds the complementary strand.
	Complementary bool `toml:"complementary" yaml:"complementary"`
}

// Dummy is an endpoint-only strand.
type Dummy struct {
	Start math32.Vector3 `toml:"start" yaml:"start"`
	End   math32.Vector3 `toml:"end" yaml:"end"`
}

// Path is an element path.
type Path struct {
	Positions []math32.Vector3 `toml:"positions" yaml:"positions"`
	Sizes     []float32        `toml:"sizes" yaml:"sizes"`

	// Colors are per element; a single color applies to all elements.
	Colors []string `toml:"colors" yaml:"colors"`

	Subdivisions int `toml:"subdivisions" yaml:"subdivisions" default:"4"`
}

// Colors are the configurable display colors. Empty strings keep the defaults.
type Colors struct {
	Highlight string `toml:"highlight" yaml:"highlight"`
	Strand    string `toml:"strand" yaml:"strand"`
	Axis      string `toml:"axis" yaml:"axis"`
}

// New returns a scene with default parameters.
func New() *Scene {
	sc := &Scene{Version: Version}
	sc.Params.SetDefaults()
	cerrors.Log(reflectx.SetFromDefaultTags(&sc.Path))
	return sc
}

// Open reads a scene file, choosing the format by extension.
// Fields not present in the file keep their defaults.
func Open(filename string) (*Scene, error) {
	f, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	sc, err := Read(b, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sc, nil
}

// Read decodes a scene in the given format and validates it.
func Read(b []byte, f Format) (*Scene, error) {
	sc := New()
	var err error
	switch f {
	case TOML:
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(sc)
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(sc)
	default:
		err = fmt.Errorf("config: unknown format %d", f)
	}
	if err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Save writes the scene as TOML.
func (sc *Scene) Save(filename string) error {
	return tomlx.Save(sc, filename)
}

// Validate checks the version and the parameters.
func (sc *Scene) Validate() error {
	if err := CheckVersion(sc.Version); err != nil {
		return err
	}
	if sc.Path.Subdivisions < 0 {
		return fmt.Errorf("config: path subdivisions %d < 0", sc.Path.Subdivisions)
	}
	return sc.Params.Validate()
}

// CheckVersion returns an error wrapping [ErrVersion] if v is not in
// [SupportedVersions]. An empty version is accepted.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrVersion, v, err)
	}
	cs := cerrors.Must1(semver.NewConstraint(SupportedVersions))
	if !cs.Check(sv) {
		return fmt.Errorf("%w: %s is not %s", ErrVersion, sv, SupportedVersions)
	}
	return nil
}

// Structure returns the helix structure described by the strands and dummies.
func (sc *Scene) Structure() (*helix.Structure, error) {
	st := helix.NewStructure()
	for i, sd := range sc.Strands {
		var s *helix.Strand
		if sd.Sequence != "" {
			var err error
			s, err = helix.NewStrandSequence(sd.Sequence, sd.Start, sd.Direction)
			if err != nil {
				return nil, fmt.Errorf("strand %d: %w", i, err)
			}
		} else {
			s = helix.NewStrandN(sd.Length, sd.Start, sd.Direction)
		}
		s.Name = sd.Name
		st.Add(s)
		if sd.Complementary {
			cs, err := s.CreateComplementary()
			if err != nil {
				return nil, fmt.Errorf("strand %d: %w", i, err)
			}
			st.Add(cs)
		}
	}
	for _, d := range sc.Dummies {
		st.Add(helix.NewDummyStrand(d.Start, d.End).ToExplicit())
	}
	return st, nil
}

// ElementPath returns the element path, or nil if the scene has none.
// Missing sizes default to 1 and missing colors to white.
func (sc *Scene) ElementPath() (*multiscale.Path, error) {
	if len(sc.Path.Positions) == 0 {
		return nil, nil
	}
	p := &multiscale.Path{Positions: sc.Path.Positions, Sizes: sc.Path.Sizes, Subdivisions: sc.Path.Subdivisions}
	clrs := make([]math32.Vector3, len(sc.Path.Colors))
	for i, s := range sc.Path.Colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		clrs[i] = c
	}
	if len(clrs) == 0 {
		clrs = append(clrs, helix.ColorVector(colornames.White))
	}
	if len(clrs) == 1 {
		for range len(p.Positions) - 1 {
			clrs = append(clrs, clrs[0])
		}
	}
	p.Colors = clrs
	if len(p.Sizes) == 0 {
		p.Sizes = make([]float32, len(p.Positions))
		for i := range p.Sizes {
			p.Sizes[i] = 1
		}
	}
	return p, nil
}

// ParseColor parses a color name or hex string into an RGB vector.
func ParseColor(s string) (math32.Vector3, error) {
	c, err := colors.FromString(s)
	if err != nil {
		return math32.Vector3{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return helix.ColorVector(c), nil
}

// Style returns the default style with the configured colors applied.
func (sc *Scene) Style() (multiscale.Style, error) {
	st := multiscale.DefaultStyle()
	for _, c := range []struct {
		s   string
		dst *math32.Vector3
	}{{sc.Colors.Highlight, &st.Highlight}, {sc.Colors.Strand, &st.StrandColor}, {sc.Colors.Axis, &st.AxisColor}} {
		if c.s == "" {
			continue
		}
		v, err := ParseColor(c.s)
		if err != nil {
			return st, err
		}
		*c.dst = v
	}
	return st, nil
}

// Builder returns a builder using the scene parameters.
func (sc *Scene) Builder() *buffer.Builder {
	b := buffer.NewBuilder(nil)
	b.Defaults = sc.Params
	return b
}
