// Package style defines the declarative expression trees and color
// ramps handed to the GPU compositing runtime.
//
// The runtime consumes array-based trees of the form ["op", arg, ...]
// where arguments are numbers, strings, or nested trees. The vocabulary
// it understands: "band", "var", the arithmetic and comparison operator
// tags, "case", the named math functions, "clamp", "min", "max", and
// "color". Trees are plain data; building one performs no computation.
package style

import (
	"bytes"
	"encoding/json"
)

// Expr is one node of a declarative expression tree: an operator tag
// followed by its arguments. It marshals to the JSON array form the
// runtime expects.
type Expr []any

// Op builds an expression node from an operator tag and its arguments.
func Op(tag string, args ...any) Expr {
	e := make(Expr, 0, len(args)+1)
	e = append(e, tag)
	e = append(e, args...)

	return e
}

// Band references band n (1-based) of the raster being styled.
func Band(n int) Expr { return Op("band", n) }

// Var references a runtime variable bound by the compositing runtime.
func Var(name string) Expr { return Op("var", name) }

// Case builds a two-way conditional: cond selects then, otherwise els.
func Case(cond, then, els any) Expr { return Op("case", cond, then, els) }

// Color wraps a hex color string for use as a case/ramp output.
func Color(hex string) Expr { return Op("color", hex) }

// Tag returns the operator tag of the node, or "" for an empty node.
func (e Expr) Tag() string {
	if len(e) == 0 {
		return ""
	}

	tag, _ := e[0].(string)

	return tag
}

// Args returns the argument list of the node.
func (e Expr) Args() []any {
	if len(e) < 2 {
		return nil
	}

	return e[1:]
}

// String renders the tree in its JSON wire form.
func (e Expr) String() string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode([]any(e)); err != nil {
		return "[]"
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
