package style

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// Stop is one color stop of a ramp at a normalized position in [0, 1].
type Stop struct {
	Pos   float64 `yaml:"pos"`
	Color string  `yaml:"color"`
}

// Ramp is a named sequence of color stops used to colorize a
// single-band expression result.
type Ramp struct {
	Name  string `yaml:"name"`
	Stops []Stop `yaml:"stops"`
}

// Expr builds the declarative tree that colorizes input with this ramp:
// the input is normalized to [0, 1] with the given stretch bounds, then
// a case chain selects the color of the first stop at or past the
// normalized value.
func (r Ramp) Expr(input Expr, min, max float64) Expr {
	span := max - min
	if span == 0 {
		span = 1
	}

	t := Op("clamp", Op("/", Op("-", input, min), span), 0, 1)

	if len(r.Stops) == 0 {
		return Color("#000000")
	}

	out := any(Color(r.Stops[len(r.Stops)-1].Color))
	for i := len(r.Stops) - 2; i >= 0; i-- {
		out = Case(
			Op("<=", t, r.Stops[i].Pos),
			Color(r.Stops[i].Color),
			out,
		)
	}

	expr, _ := out.(Expr)

	return expr
}

// RampRegistry holds the ramps available to one rendering pipeline. It
// is an explicit value passed to whoever builds style trees; separate
// engine instances each hold their own registry.
type RampRegistry struct {
	ramps map[string]Ramp
}

// NewRampRegistry returns a registry seeded with the built-in ramps.
func NewRampRegistry() *RampRegistry {
	reg := &RampRegistry{ramps: map[string]Ramp{}}

	for _, ramp := range builtinRamps {
		reg.ramps[ramp.Name] = ramp
	}

	return reg
}

// Register adds or replaces a ramp by name.
func (r *RampRegistry) Register(ramp Ramp) {
	r.ramps[ramp.Name] = ramp
}

// Lookup returns the ramp with the given name.
func (r *RampRegistry) Lookup(name string) (Ramp, bool) {
	ramp, ok := r.ramps[name]

	return ramp, ok
}

// Names returns the registered ramp names, sorted.
func (r *RampRegistry) Names() []string {
	names := make([]string, 0, len(r.ramps))
	for name := range r.ramps {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// rampFile is the on-disk YAML layout: a list of ramps under one key.
type rampFile struct {
	Ramps []Ramp `yaml:"ramps"`
}

// LoadRamps parses YAML ramp definitions and registers each one.
// Ramps must have a name and at least two stops with positions in
// [0, 1].
func (r *RampRegistry) LoadRamps(data []byte) error {
	var file rampFile

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return fmt.Errorf("parse ramps: %w", err)
	}

	for _, ramp := range file.Ramps {
		if ramp.Name == "" {
			return fmt.Errorf("ramp without a name")
		}

		if len(ramp.Stops) < 2 {
			return fmt.Errorf("ramp %q needs at least two stops", ramp.Name)
		}

		for _, stop := range ramp.Stops {
			if stop.Pos < 0 || stop.Pos > 1 {
				return fmt.Errorf("ramp %q stop position %g out of [0,1]",
					ramp.Name, stop.Pos)
			}
		}

		r.Register(ramp)
	}

	return nil
}

// builtinRamps ship with the engine. The ironbark ramp matches the
// default iron-ore assay palette from the demo datasets.
var builtinRamps = []Ramp{
	{
		Name: "viridis",
		Stops: []Stop{
			{Pos: 0.00, Color: "#440154"},
			{Pos: 0.25, Color: "#3b528b"},
			{Pos: 0.50, Color: "#21918c"},
			{Pos: 0.75, Color: "#5ec962"},
			{Pos: 1.00, Color: "#fde725"},
		},
	},
	{
		Name: "magma",
		Stops: []Stop{
			{Pos: 0.00, Color: "#000004"},
			{Pos: 0.25, Color: "#51127c"},
			{Pos: 0.50, Color: "#b73779"},
			{Pos: 0.75, Color: "#fc8961"},
			{Pos: 1.00, Color: "#fcfdbf"},
		},
	},
	{
		Name: "ironbark",
		Stops: []Stop{
			{Pos: 0.00, Color: "#2b1d0e"},
			{Pos: 0.50, Color: "#8c3b00"},
			{Pos: 1.00, Color: "#ffb347"},
		},
	},
}
