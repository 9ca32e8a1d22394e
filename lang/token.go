package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies a token produced by the tokenizer.
type Kind int

const (
	KindNumber Kind = iota
	KindBand
	KindIdent
	KindOperator
	KindCompare
	KindQuestion
	KindColon
	KindLParen
	KindRParen
	KindComma
	KindDot
)

// String returns a human-readable name for the token kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBand:
		return "band"
	case KindIdent:
		return "identifier"
	case KindOperator:
		return "operator"
	case KindCompare:
		return "comparison"
	case KindQuestion:
		return "'?'"
	case KindColon:
		return "':'"
	case KindLParen:
		return "'('"
	case KindRParen:
		return "')'"
	case KindComma:
		return "','"
	case KindDot:
		return "'.'"
	default:
		return "unknown"
	}
}

// Token is a single lexeme with its byte offset in the source string.
// Identifiers are case-folded to lowercase; band tokens keep their
// "bN" spelling.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// BandIndex returns the 1-based band number of a KindBand token.
func (t Token) BandIndex() int {
	n, err := strconv.Atoi(t.Text[1:])
	if err != nil {
		return 0
	}

	return n
}

// Tokenize converts source text into a flat token sequence. It never
// fails: characters that match no token class are silently dropped,
// preserving the permissive behavior existing expressions rely on.
// Use [TokenizeStrict] to reject such characters instead.
func Tokenize(src string) []Token {
	toks, _ := scan(src, false)

	return toks
}

// TokenizeStrict behaves like [Tokenize] but returns ErrInvalidChar
// for any character that matches no token class.
func TokenizeStrict(src string) ([]Token, error) {
	return scan(src, true)
}

func scan(src string, strict bool) ([]Token, error) {
	var toks []Token

	i := 0
	for i < len(src) {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c >= '0' && c <= '9':
			text, n := scanNumber(src[i:])
			toks = append(toks, Token{Kind: KindNumber, Text: text, Pos: i})
			i += n

		case c == '_' || isAlpha(c):
			text, n := scanWord(src[i:])
			kind := KindIdent

			if isBandWord(text) {
				kind = KindBand
			} else {
				text = strings.ToLower(text)
			}

			toks = append(toks, Token{Kind: kind, Text: text, Pos: i})
			i += n

		case c == '>' || c == '<' || c == '=' || c == '!':
			text, n, ok := scanCompare(src[i:])
			if !ok {
				if strict {
					return nil, invalidCharErr(src, i)
				}

				i += n

				continue
			}

			toks = append(toks, Token{Kind: KindCompare, Text: text, Pos: i})
			i += n

		case c == '+' || c == '-' || c == '*' || c == '/' ||
			c == '^' || c == '%':
			toks = append(toks,
				Token{Kind: KindOperator, Text: string(c), Pos: i})
			i++

		case c == '?':
			toks = append(toks, Token{Kind: KindQuestion, Text: "?", Pos: i})
			i++

		case c == ':':
			toks = append(toks, Token{Kind: KindColon, Text: ":", Pos: i})
			i++

		case c == '(':
			toks = append(toks, Token{Kind: KindLParen, Text: "(", Pos: i})
			i++

		case c == ')':
			toks = append(toks, Token{Kind: KindRParen, Text: ")", Pos: i})
			i++

		case c == ',':
			toks = append(toks, Token{Kind: KindComma, Text: ",", Pos: i})
			i++

		case c == '.':
			toks = append(toks, Token{Kind: KindDot, Text: ".", Pos: i})
			i++

		default:
			if strict {
				return nil, invalidCharErr(src, i)
			}

			i++
		}
	}

	return toks, nil
}

// scanNumber consumes a decimal literal with optional fraction and
// exponent. A sign is absorbed only immediately after e/E, so "1e-3"
// is one token while "1-3" is three.
func scanNumber(s string) (string, int) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}

	if i < len(s) && s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1

		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		if j < len(s) && isDigit(s[j]) {
			i = j
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
	}

	return s[:i], i
}

func scanWord(s string) (string, int) {
	i := 0
	for i < len(s) && (s[i] == '_' || isAlpha(s[i]) || isDigit(s[i])) {
		i++
	}

	return s[:i], i
}

// scanCompare consumes one of > < >= <= == !=. A lone '=' or '!' is
// not a token; the caller decides whether to drop it or fail.
func scanCompare(s string) (string, int, bool) {
	two := s[0] == '=' || s[0] == '!'
	if len(s) > 1 && s[1] == '=' {
		return s[:2], 2, true
	}

	if two {
		return "", 1, false
	}

	return s[:1], 1, true
}

// isBandWord reports whether text matches [bB]\d+.
func isBandWord(text string) bool {
	if len(text) < 2 || (text[0] != 'b' && text[0] != 'B') {
		return false
	}

	for i := 1; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}

	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func invalidCharErr(src string, pos int) error {
	return ErrInvalidChar.With(
		slog.String("char", string(src[pos])),
		slog.Int("pos", pos),
	)
}
