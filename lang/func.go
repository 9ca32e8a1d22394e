package lang

import (
	"log/slog"
	"slices"

	"github.com/sahilm/fuzzy"
)

// Func identifies one entry in the closed function table shared by both
// backends. Call nodes carry the spelled name; resolution to a Func
// happens once, on entry into lowering or evaluation, so unknown names
// surface before any per-pixel work and dispatch inside the hot loop is
// an integer switch.
type Func int

const (
	FuncInvalid Func = iota
	FuncAbs
	FuncFloor
	FuncCeil
	FuncRound
	FuncSin
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncSqrt
	FuncPow
	FuncExp
	FuncLog
	FuncLog10
	FuncMin
	FuncMax
	FuncClamp
	FuncNDVI
)

// funcNames maps spelled names to function kinds. Names are matched
// after the tokenizer's case folding.
var funcNames = map[string]Func{
	"abs":   FuncAbs,
	"floor": FuncFloor,
	"ceil":  FuncCeil,
	"round": FuncRound,
	"sin":   FuncSin,
	"cos":   FuncCos,
	"tan":   FuncTan,
	"asin":  FuncAsin,
	"acos":  FuncAcos,
	"atan":  FuncAtan,
	"sqrt":  FuncSqrt,
	"pow":   FuncPow,
	"exp":   FuncExp,
	"log":   FuncLog,
	"log10": FuncLog10,
	"min":   FuncMin,
	"max":   FuncMax,
	"clamp": FuncClamp,
	"ndvi":  FuncNDVI,
}

// String returns the spelled name of the function.
func (f Func) String() string {
	for name, fn := range funcNames {
		if fn == f {
			return name
		}
	}

	return "invalid"
}

// FuncNames returns the spelled names of all supported functions,
// sorted.
func FuncNames() []string {
	names := make([]string, 0, len(funcNames))
	for name := range funcNames {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ResolveFunc resolves a spelled function name against the closed
// table. Unknown names yield ErrUnsupportedFunction, decorated with the
// closest known name when one is similar enough to suggest.
func ResolveFunc(name string) (Func, error) {
	if fn, ok := funcNames[name]; ok {
		return fn, nil
	}

	err := ErrUnsupportedFunction.With(slog.String("function", name))

	if matches := fuzzy.Find(name, FuncNames()); len(matches) > 0 {
		err = err.With(slog.String("suggestion", matches[0].Str))
	}

	return FuncInvalid, err
}

// CheckCalls walks a tree resolving every function reference and
// validating its argument count. It catches the errors that need no
// bound rasters to detect, so misspelled functions surface before any
// data is loaded.
func CheckCalls(node Node) error {
	switch n := node.(type) {
	case *Unary:
		return CheckCalls(n.Arg)

	case *Binary:
		if err := CheckCalls(n.Left); err != nil {
			return err
		}

		return CheckCalls(n.Right)

	case *Comparison:
		if err := CheckCalls(n.Left); err != nil {
			return err
		}

		return CheckCalls(n.Right)

	case *Ternary:
		if err := CheckCalls(n.Cond); err != nil {
			return err
		}

		if err := CheckCalls(n.Then); err != nil {
			return err
		}

		return CheckCalls(n.Else)

	case *Call:
		fn, err := ResolveFunc(n.Name)
		if err != nil {
			return err
		}

		if err := checkArity(fn, n.Name, len(n.Args)); err != nil {
			return err
		}

		for _, arg := range n.Args {
			if err := CheckCalls(arg); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkArity validates the argument count of a resolved call.
func checkArity(fn Func, name string, argc int) error {
	ok := false

	switch fn {
	case FuncAbs, FuncFloor, FuncCeil, FuncRound, FuncSin, FuncCos,
		FuncTan, FuncAsin, FuncAcos, FuncSqrt, FuncExp, FuncLog,
		FuncLog10:
		ok = argc == 1
	case FuncAtan:
		// atan(x) or the arctangent-of-ratio form atan(y, x)
		ok = argc == 1 || argc == 2
	case FuncPow:
		ok = argc == 2
	case FuncMin, FuncMax:
		ok = argc >= 2
	case FuncClamp:
		ok = argc == 3
	case FuncNDVI:
		// ndvi(), ndvi(nir), or ndvi(nir, red)
		ok = argc <= 2
	case FuncInvalid:
	}

	if !ok {
		return ErrBadArity.With(
			slog.String("function", name),
			slog.Int("args", argc),
		)
	}

	return nil
}
