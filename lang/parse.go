package lang

import (
	"math"
	"strconv"
)

// Parse tokenizes source leniently and parses it into an AST. The
// grammar, lowest to highest precedence:
//
//	ternary    → comparison ('?' ternary ':' ternary)?
//	comparison → addsub ((> | < | >= | <= | == | !=) addsub)*
//	addsub     → muldiv ((+ | -) muldiv)*
//	muldiv     → power ((* | / | %) power)*
//	power      → unary ('^' power)?
//	unary      → '-'? atom
//
// Comparison, addsub, and muldiv chains are left-associative; power and
// nested ternaries are right-associative. The parser is backend
// agnostic: it accepts member references even though the declarative
// backend rejects them later.
func Parse(src string) (Node, error) {
	return parseTokens(Tokenize(src), src)
}

// ParseStrict behaves like [Parse] but rejects characters that match no
// token class instead of dropping them.
func ParseStrict(src string) (Node, error) {
	toks, err := TokenizeStrict(src)
	if err != nil {
		return nil, err
	}

	return parseTokens(toks, src)
}

// ParseTokens parses an already-tokenized expression. The source string
// is used only to decorate errors and may be empty.
func ParseTokens(toks []Token, src string) (Node, error) {
	return parseTokens(toks, src)
}

func parseTokens(toks []Token, src string) (Node, error) {
	p := &parser{toks: toks, src: src}

	node, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, p.errorAt(tok.Pos, "unexpected "+tok.Kind.String()+
			" "+strconv.Quote(tok.Text)+" after expression")
	}

	return node, nil
}

type parser struct {
	toks []Token
	src  string
	pos  int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}

// accept consumes the next token if it has the given kind and text.
// Empty text matches any token of that kind.
func (p *parser) accept(kind Kind, text string) (Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != kind || (text != "" && tok.Text != text) {
		return Token{}, false
	}

	p.pos++

	return tok, true
}

// expect consumes the next token, failing unless it has the given kind.
func (p *parser) expect(kind Kind, context string) (Token, error) {
	tok, ok := p.next()
	if !ok {
		return Token{}, p.errorAt(len(p.src),
			"expected "+kind.String()+" "+context+
				", but the expression ended")
	}

	if tok.Kind != kind {
		return Token{}, p.errorAt(tok.Pos,
			"expected "+kind.String()+" "+context+", found "+
				strconv.Quote(tok.Text))
	}

	return tok, nil
}

func (p *parser) errorAt(pos int, msg string) error {
	return &ParseError{Msg: msg, Source: p.src, Pos: pos}
}

// ternary parses "cond ? then : else". Both branches recurse into the
// full ternary rule, so chained conditionals nest to the right.
func (p *parser) ternary() (Node, error) {
	cond, err := p.comparison()
	if err != nil {
		return nil, err
	}

	if _, ok := p.accept(KindQuestion, ""); !ok {
		return cond, nil
	}

	then, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindColon, "after '?' branch"); err != nil {
		return nil, err
	}

	els, err := p.ternary()
	if err != nil {
		return nil, err
	}

	return &Ternary{Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) comparison() (Node, error) {
	left, err := p.addsub()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.accept(KindCompare, "")
		if !ok {
			return left, nil
		}

		right, err := p.addsub()
		if err != nil {
			return nil, err
		}

		left = &Comparison{Op: op.Text, Left: left, Right: right}
	}
}

func (p *parser) addsub() (Node, error) {
	left, err := p.muldiv()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptOperator("+", "-")
		if !ok {
			return left, nil
		}

		right, err := p.muldiv()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Text, Left: left, Right: right}
	}
}

func (p *parser) muldiv() (Node, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptOperator("*", "/", "%")
		if !ok {
			return left, nil
		}

		right, err := p.power()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Text, Left: left, Right: right}
	}
}

// power parses right-associative exponentiation, so 2^3^2 is 2^(3^2).
func (p *parser) power() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	if _, ok := p.acceptOperator("^"); !ok {
		return left, nil
	}

	right, err := p.power()
	if err != nil {
		return nil, err
	}

	return &Binary{Op: "^", Left: left, Right: right}, nil
}

func (p *parser) unary() (Node, error) {
	if _, ok := p.acceptOperator("-"); ok {
		arg, err := p.atom()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: "-", Arg: arg}, nil
	}

	return p.atom()
}

func (p *parser) atom() (Node, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.errorAt(len(p.src),
			"expected a value, but the expression ended")
	}

	switch tok.Kind {
	case KindNumber:
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok.Pos,
				"malformed number "+strconv.Quote(tok.Text))
		}

		return &Number{Value: value}, nil

	case KindBand:
		return &BandRef{Index: tok.BandIndex()}, nil

	case KindLParen:
		inner, err := p.ternary()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindRParen, "to close '('"); err != nil {
			return nil, err
		}

		return inner, nil

	case KindIdent:
		return p.identifier(tok)

	default:
		return nil, p.errorAt(tok.Pos,
			"unexpected "+tok.Kind.String()+" "+strconv.Quote(tok.Text))
	}
}

// identifier resolves an identifier token, in order: a function call
// when immediately followed by '(', the reserved constants pi and e, a
// member reference when followed by '.', or a bare variable.
func (p *parser) identifier(tok Token) (Node, error) {
	if _, ok := p.accept(KindLParen, ""); ok {
		return p.callArgs(tok)
	}

	switch tok.Text {
	case "pi":
		return &Number{Value: math.Pi}, nil
	case "e":
		return &Number{Value: math.E}, nil
	}

	if _, ok := p.accept(KindDot, ""); ok {
		member, ok := p.next()
		if !ok {
			return nil, p.errorAt(len(p.src),
				"expected band or property after '.'"+
					", but the expression ended")
		}

		switch member.Kind {
		case KindBand:
			return &Member{Object: tok.Text, Band: member.BandIndex()}, nil
		case KindIdent:
			return &Member{Object: tok.Text, Property: member.Text}, nil
		default:
			return nil, p.errorAt(member.Pos,
				"expected band or property after '.', found "+
					strconv.Quote(member.Text))
		}
	}

	return &Variable{Name: tok.Text}, nil
}

// callArgs parses a comma-separated argument list; the opening paren
// has already been consumed.
func (p *parser) callArgs(name Token) (Node, error) {
	call := &Call{Name: name.Text}

	if _, ok := p.accept(KindRParen, ""); ok {
		return call, nil
	}

	for {
		arg, err := p.ternary()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		if _, ok := p.accept(KindComma, ""); ok {
			continue
		}

		if _, err := p.expect(KindRParen, "to close argument list"); err != nil {
			return nil, err
		}

		return call, nil
	}
}

func (p *parser) acceptOperator(texts ...string) (Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != KindOperator {
		return Token{}, false
	}

	for _, text := range texts {
		if tok.Text == text {
			p.pos++

			return tok, true
		}
	}

	return Token{}, false
}
