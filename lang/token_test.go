package lang

import (
	"errors"
	"testing"
)

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "band arithmetic",
			input: "b1+b2",
			want: []Token{
				{KindBand, "b1", 0},
				{KindOperator, "+", 2},
				{KindBand, "b2", 3},
			},
		},
		{
			name:  "uppercase band",
			input: "B12",
			want:  []Token{{KindBand, "B12", 0}},
		},
		{
			name:  "member access",
			input: "dem.b3",
			want: []Token{
				{KindIdent, "dem", 0},
				{KindDot, ".", 3},
				{KindBand, "b3", 4},
			},
		},
		{
			name:  "identifier case folded",
			input: "SQRT(X)",
			want: []Token{
				{KindIdent, "sqrt", 0},
				{KindLParen, "(", 4},
				{KindIdent, "x", 5},
				{KindRParen, ")", 6},
			},
		},
		{
			name:  "comparisons",
			input: "a>=b != c",
			want: []Token{
				{KindIdent, "a", 0},
				{KindCompare, ">=", 1},
				{KindIdent, "b", 3},
				{KindCompare, "!=", 5},
				{KindIdent, "c", 8},
			},
		},
		{
			name:  "ternary structure",
			input: "a ? 1 : 2",
			want: []Token{
				{KindIdent, "a", 0},
				{KindQuestion, "?", 2},
				{KindNumber, "1", 4},
				{KindColon, ":", 6},
				{KindNumber, "2", 8},
			},
		},
		{
			name:  "whitespace discarded",
			input: " \t1 \n+ 2 ",
			want: []Token{
				{KindNumber, "1", 2},
				{KindOperator, "+", 5},
				{KindNumber, "2", 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got,
					len(tt.want))
			}

			for i, tok := range got {
				if tok != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, tok, tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []string // expected token texts
	}{
		{"42", []string{"42"}},
		{"3.25", []string{"3.25"}},
		{"1e6", []string{"1e6"}},
		{"1.5e-3", []string{"1.5e-3"}},
		{"2E+8", []string{"2E+8"}},
		// The sign is only part of a number immediately after the
		// exponent marker.
		{"1-3", []string{"1", "-", "3"}},
		{"1e", []string{"1", "e"}},
		{"1e+", []string{"1", "e", "+"}},
		// A trailing dot is structural, not a fraction.
		{"1.", []string{"1", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want texts %v", got, tt.want)
			}

			for i, tok := range got {
				if tok.Text != tt.want[i] {
					t.Errorf("token %d text = %q, want %q",
						i, tok.Text, tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeLenient(t *testing.T) {
	// Unknown characters are silently dropped; the rest of the stream
	// is unaffected.
	got := Tokenize("b1 @ + #b2")
	want := []string{"b1", "+", "b2"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want texts %v", got, want)
	}

	for i, tok := range got {
		if tok.Text != want[i] {
			t.Errorf("token %d text = %q, want %q", i, tok.Text, want[i])
		}
	}

	// A lone '=' or '!' is likewise dropped.
	if got := Tokenize("a = b"); len(got) != 2 {
		t.Errorf("lone '=' not dropped: %v", got)
	}
}

func TestTokenizeStrict(t *testing.T) {
	if _, err := TokenizeStrict("b1 + b2"); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	_, err := TokenizeStrict("b1 @ b2")
	if !errors.Is(err, ErrInvalidChar) {
		t.Fatalf("err = %v, want ErrInvalidChar", err)
	}

	if _, err := TokenizeStrict("a = b"); !errors.Is(err, ErrInvalidChar) {
		t.Errorf("lone '=' accepted in strict mode")
	}
}

func TestBandIndex(t *testing.T) {
	toks := Tokenize("b7 B12")
	if got := toks[0].BandIndex(); got != 7 {
		t.Errorf("BandIndex(b7) = %d", got)
	}

	if got := toks[1].BandIndex(); got != 12 {
		t.Errorf("BandIndex(B12) = %d", got)
	}
}
