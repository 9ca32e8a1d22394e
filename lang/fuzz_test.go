package lang

import (
	"reflect"
	"testing"
)

// FuzzParse checks that arbitrary input never panics the tokenizer or
// parser, and that anything that parses survives a format/reparse
// round trip.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"b1+b2",
		"(a.b4-a.b3)/(a.b4+a.b3)",
		"2^3^2",
		"b1>0 ? 5 : 10",
		"clamp(log(b1), 0, 8)",
		"ndvi(8, 4)",
		"1.5e-3 % pi",
		"min(",
		"??::",
		"\x00\xff@",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		node, err := Parse(src)
		if err != nil {
			return
		}

		formatted := Format(node)

		again, err := Parse(formatted)
		if err != nil {
			t.Fatalf("formatted output does not reparse: %q -> %q: %v",
				src, formatted, err)
		}

		if !reflect.DeepEqual(node, again) {
			t.Fatalf("round trip changed the AST: %q -> %q", src, formatted)
		}
	})
}
