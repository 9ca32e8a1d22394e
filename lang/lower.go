package lang

import (
	"log/slog"
	"math"

	"github.com/endarthur/spinifex-sub001/style"
)

// Default bands for the ndvi() sugar: near-infrared and red in the
// band order of the demo satellite products.
const (
	ndviDefaultNIR = 4
	ndviDefaultRed = 3
)

// Lower maps an AST into the declarative style tree consumed by the
// GPU compositing runtime. It is pure and cheap: no pixel is touched,
// and the same node may be lowered repeatedly and concurrently.
//
// This backend assumes exactly one implicit raster source, so member
// band references like "a.b4" lower to plain band references and the
// object name is ignored. Property-style members have no lowering and
// fail with ErrLower. Unknown function names fail with
// ErrUnsupportedFunction here, not at parse time.
//
// The ndvi() sugar guards a zero denominator with literal 0 rather
// than nodata. The eager backend maps the same algebra to nodata; the
// difference is deliberate and relied upon by existing styles.
func Lower(node Node) (style.Expr, error) {
	switch n := node.(type) {
	case *Number:
		return style.Op("literal", n.Value), nil

	case *BandRef:
		return style.Band(n.Index), nil

	case *Variable:
		return style.Var(n.Name), nil

	case *Member:
		if n.Property != "" {
			return nil, ErrLower.With(
				slog.String("object", n.Object),
				slog.String("property", n.Property),
			)
		}

		return style.Band(n.Band), nil

	case *Unary:
		arg, err := Lower(n.Arg)
		if err != nil {
			return nil, err
		}

		return style.Op("*", -1.0, arg), nil

	case *Binary:
		return lowerPair(n.Op, n.Left, n.Right)

	case *Comparison:
		return lowerPair(n.Op, n.Left, n.Right)

	case *Ternary:
		cond, err := Lower(n.Cond)
		if err != nil {
			return nil, err
		}

		then, err := Lower(n.Then)
		if err != nil {
			return nil, err
		}

		els, err := Lower(n.Else)
		if err != nil {
			return nil, err
		}

		return style.Case(cond, then, els), nil

	case *Call:
		return lowerCall(n)

	default:
		return nil, ErrLower.With(slog.String("node", "unknown"))
	}
}

func lowerPair(op string, left, right Node) (style.Expr, error) {
	l, err := Lower(left)
	if err != nil {
		return nil, err
	}

	r, err := Lower(right)
	if err != nil {
		return nil, err
	}

	return style.Op(op, l, r), nil
}

func lowerCall(call *Call) (style.Expr, error) {
	fn, err := ResolveFunc(call.Name)
	if err != nil {
		return nil, err
	}

	if err := checkArity(fn, call.Name, len(call.Args)); err != nil {
		return nil, err
	}

	if fn == FuncNDVI {
		return lowerNDVI(call)
	}

	args := make([]any, len(call.Args))

	for i, arg := range call.Args {
		lowered, err := Lower(arg)
		if err != nil {
			return nil, err
		}

		args[i] = lowered
	}

	switch fn {
	case FuncAbs, FuncFloor, FuncCeil, FuncRound, FuncSin, FuncCos,
		FuncTan, FuncAsin, FuncAcos, FuncLog, FuncMin, FuncMax,
		FuncClamp:
		return style.Op(fn.String(), args...), nil

	case FuncAtan:
		// Two arguments is the arctangent-of-ratio form.
		if len(args) == 2 {
			return style.Op("atan", style.Op("/", args[0], args[1])), nil
		}

		return style.Op("atan", args[0]), nil

	case FuncSqrt:
		return style.Op("^", args[0], 0.5), nil

	case FuncPow:
		return style.Op("^", args[0], args[1]), nil

	case FuncExp:
		return style.Op("^", math.E, args[0]), nil

	case FuncLog10:
		return style.Op("/", style.Op("log", args[0]), math.Ln10), nil

	case FuncNDVI, FuncInvalid:
	}

	// ResolveFunc only returns table entries; anything else is a bug.
	return nil, ErrLower.With(slog.String("function", call.Name))
}

// lowerNDVI expands ndvi(nir, red) into (nir-red)/(nir+red) with a
// zero-denominator guard yielding 0. Band arguments default to the
// standard NIR/red bands and must be numeric literals.
func lowerNDVI(call *Call) (style.Expr, error) {
	nir, red, err := ndviBands(call)
	if err != nil {
		return nil, err
	}

	sum := style.Op("+", style.Band(nir), style.Band(red))
	diff := style.Op("-", style.Band(nir), style.Band(red))

	return style.Case(
		style.Op("==", sum, 0.0),
		0.0,
		style.Op("/", diff, sum),
	), nil
}

// ndviBands extracts the literal band numbers of an ndvi call.
func ndviBands(call *Call) (nir, red int, err error) {
	nir, red = ndviDefaultNIR, ndviDefaultRed

	bad := func(pos int) error {
		return ErrBadArity.With(
			slog.String("function", "ndvi"),
			slog.Int("arg", pos),
			slog.String("reason", "band arguments must be numeric literals"),
		)
	}

	if len(call.Args) > 0 {
		num, ok := call.Args[0].(*Number)
		if !ok {
			return 0, 0, bad(1)
		}

		nir = int(num.Value)
	}

	if len(call.Args) > 1 {
		num, ok := call.Args[1].(*Number)
		if !ok {
			return 0, 0, bad(2)
		}

		red = int(num.Value)
	}

	return nir, red, nil
}
