package lang

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) Node {
	t.Helper()

	node, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}

	return node
}

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{"integer", "42", &Number{Value: 42}},
		{"decimal", "3.5", &Number{Value: 3.5}},
		{"scientific", "1e3", &Number{Value: 1000}},
		{"band", "b4", &BandRef{Index: 4}},
		{"uppercase band", "B4", &BandRef{Index: 4}},
		{"variable", "dem", &Variable{Name: "dem"}},
		{"member band", "a.b4", &Member{Object: "a", Band: 4}},
		{"member property", "a.crs", &Member{Object: "a", Property: "crs"}},
		{"pi", "pi", &Number{Value: math.Pi}},
		{"e", "e", &Number{Value: math.E}},
		{"negation", "-b1", &Unary{Op: "-", Arg: &BandRef{Index: 1}}},
		{"parens collapse", "((7))", &Number{Value: 7}},
		{
			"empty call",
			"ndvi()",
			&Call{Name: "ndvi"},
		},
		{
			"call args",
			"pow(b1, 2)",
			&Call{Name: "pow", Args: []Node{
				&BandRef{Index: 1}, &Number{Value: 2},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "mul binds tighter than add",
			input: "1+2*3",
			want: &Binary{Op: "+",
				Left: &Number{Value: 1},
				Right: &Binary{Op: "*",
					Left:  &Number{Value: 2},
					Right: &Number{Value: 3},
				},
			},
		},
		{
			name:  "left associative subtraction",
			input: "8-4-2",
			want: &Binary{Op: "-",
				Left: &Binary{Op: "-",
					Left:  &Number{Value: 8},
					Right: &Number{Value: 4},
				},
				Right: &Number{Value: 2},
			},
		},
		{
			name:  "power is right associative",
			input: "2^3^2",
			want: &Binary{Op: "^",
				Left: &Number{Value: 2},
				Right: &Binary{Op: "^",
					Left:  &Number{Value: 3},
					Right: &Number{Value: 2},
				},
			},
		},
		{
			name:  "power binds tighter than modulo",
			input: "7%2^2",
			want: &Binary{Op: "%",
				Left: &Number{Value: 7},
				Right: &Binary{Op: "^",
					Left:  &Number{Value: 2},
					Right: &Number{Value: 2},
				},
			},
		},
		{
			name:  "comparison below arithmetic",
			input: "b1+1>b2*2",
			want: &Comparison{Op: ">",
				Left: &Binary{Op: "+",
					Left:  &BandRef{Index: 1},
					Right: &Number{Value: 1},
				},
				Right: &Binary{Op: "*",
					Left:  &BandRef{Index: 2},
					Right: &Number{Value: 2},
				},
			},
		},
		{
			name:  "parens override",
			input: "(1+2)*3",
			want: &Binary{Op: "*",
				Left: &Binary{Op: "+",
					Left:  &Number{Value: 1},
					Right: &Number{Value: 2},
				},
				Right: &Number{Value: 3},
			},
		},
		{
			name:  "unary inside product",
			input: "-b1*2",
			want: &Binary{Op: "*",
				Left:  &Unary{Op: "-", Arg: &BandRef{Index: 1}},
				Right: &Number{Value: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTernary(t *testing.T) {
	got := mustParse(t, "b1>0 ? 5 : 10")

	want := &Ternary{
		Cond: &Comparison{Op: ">",
			Left:  &BandRef{Index: 1},
			Right: &Number{Value: 0},
		},
		Then: &Number{Value: 5},
		Else: &Number{Value: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestParseTernaryChainsRight(t *testing.T) {
	// The else branch recurses into the full ternary rule.
	got := mustParse(t, "a>1 ? 1 : a>2 ? 2 : 3")

	outer, ok := got.(*Ternary)
	if !ok {
		t.Fatalf("got %#v, want ternary", got)
	}

	if _, ok := outer.Else.(*Ternary); !ok {
		t.Errorf("else branch = %#v, want nested ternary", outer.Else)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wants string // substring of the error message
	}{
		{"empty input", "", "expression ended"},
		{"trailing tokens", "1 2", "after expression"},
		{"missing rparen", "(1+2", "to close '('"},
		{"missing colon", "1>0 ? 2", "expression ended"},
		{"colon without question", "1 : 2", "after expression"},
		{"dangling operator", "b1+", "expression ended"},
		{"dangling dot", "a.", "after '.'"},
		{"dot before operator", "a.+", "expected band or property"},
		{"unterminated args", "min(1, 2", "argument list"},
		{"lone rparen", ")", "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.input)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("err does not match ErrParse: %v", err)
			}

			if !strings.Contains(err.Error(), tt.wants) {
				t.Errorf("err = %q, want substring %q", err, tt.wants)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	_, err := Parse("(b1+b2")

	var perr *ParseError

	if !errors.As(err, &perr) {
		t.Fatalf("err = %T, want *ParseError", err)
	}

	msg := perr.Error()
	if !strings.Contains(msg, "(b1+b2") || !strings.Contains(msg, "^") {
		t.Errorf("snippet missing source or caret:\n%s", msg)
	}
}

func TestParseConstantsNotCallNames(t *testing.T) {
	// pi and e resolve as constants only in value position; as call
	// names they go through function resolution instead.
	node := mustParse(t, "e(1)")
	if call, ok := node.(*Call); !ok || call.Name != "e" {
		t.Errorf("got %#v, want call named e", node)
	}
}

func TestParseStrictRejects(t *testing.T) {
	if _, err := ParseStrict("b1 $ b2"); !errors.Is(err, ErrInvalidChar) {
		t.Errorf("err = %v, want ErrInvalidChar", err)
	}

	// Lenient mode drops the '$' and then fails to parse the leftover
	// stream, because two adjacent values make no expression.
	if _, err := Parse("b1 $ b2"); !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}
