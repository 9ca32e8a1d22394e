package lang

import (
	"strconv"
	"strings"
)

// Operator precedence levels, lowest binds loosest. Matches the parser
// grammar so Format emits the minimal parentheses that round-trip.
const (
	precTernary = iota + 1
	precCompare
	precAddSub
	precMulDiv
	precPower
	precUnary
	precAtom
)

// Format renders a parsed expression back to canonical source text:
// minimal parentheses, single spaces around binary and comparison
// operators, tight exponentiation. Formatting then reparsing yields an
// equivalent AST.
func Format(node Node) string {
	var buf strings.Builder

	format(&buf, node, precTernary)

	return buf.String()
}

func format(buf *strings.Builder, node Node, min int) {
	if prec(node) < min {
		buf.WriteByte('(')
		format(buf, node, precTernary)
		buf.WriteByte(')')

		return
	}

	switch n := node.(type) {
	case *Number:
		buf.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))

	case *BandRef:
		buf.WriteByte('b')
		buf.WriteString(strconv.Itoa(n.Index))

	case *Variable:
		buf.WriteString(n.Name)

	case *Member:
		buf.WriteString(n.Object)
		buf.WriteByte('.')

		if n.Property != "" {
			buf.WriteString(n.Property)
		} else {
			buf.WriteByte('b')
			buf.WriteString(strconv.Itoa(n.Band))
		}

	case *Unary:
		buf.WriteByte('-')
		format(buf, n.Arg, precAtom)

	case *Binary:
		if n.Op == "^" {
			// Right-associative: parenthesize an exponent chain on the
			// left, never on the right.
			format(buf, n.Left, precPower+1)
			buf.WriteByte('^')
			format(buf, n.Right, precPower)

			return
		}

		// Additive operators breathe; multiplicative ones stay tight.
		p, op := precAddSub, " "+n.Op+" "
		if n.Op == "*" || n.Op == "/" || n.Op == "%" {
			p, op = precMulDiv, n.Op
		}

		format(buf, n.Left, p)
		buf.WriteString(op)
		format(buf, n.Right, p+1)

	case *Comparison:
		format(buf, n.Left, precCompare)
		buf.WriteString(" " + n.Op + " ")
		format(buf, n.Right, precCompare+1)

	case *Ternary:
		format(buf, n.Cond, precCompare)
		buf.WriteString(" ? ")
		format(buf, n.Then, precTernary)
		buf.WriteString(" : ")
		format(buf, n.Else, precTernary)

	case *Call:
		buf.WriteString(n.Name)
		buf.WriteByte('(')

		for i, arg := range n.Args {
			if i > 0 {
				buf.WriteString(", ")
			}

			format(buf, arg, precTernary)
		}

		buf.WriteByte(')')
	}
}

func prec(node Node) int {
	switch n := node.(type) {
	case *Ternary:
		return precTernary
	case *Comparison:
		return precCompare
	case *Binary:
		switch n.Op {
		case "+", "-":
			return precAddSub
		case "*", "/", "%":
			return precMulDiv
		default:
			return precPower
		}
	case *Unary:
		return precUnary
	default:
		return precAtom
	}
}
