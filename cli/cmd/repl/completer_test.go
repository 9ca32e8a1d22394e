package repl

import "testing"

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "sqrt", 4, "sqrt", 0, 4},
		{"after_plus", "b1 + sq", 7, "sq", 5, 7},
		{"after_paren", "min(sq", 6, "sq", 4, 6},
		{"after_comma", "min(a, sq", 9, "sq", 7, 9},
		{"in_ternary", "b1 ? sq", 7, "sq", 5, 7},
		{"empty_at_boundary", "b1 + ", 5, "", 5, 5},
		{"mid_word", "clamps", 3, "clamps", 0, 6},
		{"at_start", "log", 0, "log", 0, 3},
		{"band_word", "b12", 3, "b12", 0, 3},
		{"after_caret", "2^lo", 4, "lo", 2, 4},
		{"empty_after_dot", "elev.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	got, ok := bestMatch("sqr")
	if !ok || got != "sqrt" {
		t.Errorf("bestMatch(\"sqr\") = (%q, %v), want (\"sqrt\", true)", got, ok)
	}

	if _, ok := bestMatch("zzz"); ok {
		t.Error("bestMatch(\"zzz\") should not match")
	}
}

func TestCompletionHint(t *testing.T) {
	if hint := completionHint("sq", 2); hint == "" {
		t.Error("completionHint(\"sq\") should suggest sqrt")
	}

	// An exact match needs no hint.
	if hint := completionHint("sqrt", 4); hint != "" {
		t.Errorf("completionHint(\"sqrt\") = %q, want none", hint)
	}

	if hint := completionHint("b1 + ", 5); hint != "" {
		t.Errorf("completionHint at boundary = %q, want none", hint)
	}
}
