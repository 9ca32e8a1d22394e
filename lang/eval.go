package lang

import (
	"log/slog"
	"math"
	"sort"

	"github.com/endarthur/spinifex-sub001/raster"
)

// Evaluator walks one AST against bound raster datasets, once per
// pixel. Binding problems — unknown variable or function names,
// missing bands — are found when the evaluator is built, before any
// pixel is touched. Per-pixel numeric domain problems (division by
// zero, negative sqrt, non-positive log, NaN) are never errors: they
// produce the nodata sentinel at that pixel and nowhere else.
//
// Nodata propagation is eager and total. Any operand equal to the
// governing sentinel short-circuits every enclosing operation, so one
// missing measurement poisons exactly the pixels that touch it.
//
// An Evaluator performs only reads and may be shared by concurrent
// goroutines evaluating disjoint pixel ranges.
type Evaluator struct {
	root   Node
	inputs map[string]*raster.Dataset
	single *raster.Dataset // set iff exactly one input is bound
	nodata float64
	funcs  map[*Call]Func
}

// NewEvaluator binds an AST to named input datasets under the given
// governing nodata sentinel. Every variable, member, band, and
// function reference in the tree is checked here.
func NewEvaluator(
	root Node,
	inputs map[string]*raster.Dataset,
	nodata float64,
) (*Evaluator, error) {
	e := &Evaluator{
		root:   root,
		inputs: inputs,
		nodata: nodata,
		funcs:  map[*Call]Func{},
	}

	if len(inputs) == 1 {
		for _, d := range inputs {
			e.single = d
		}
	}

	if err := e.bind(root); err != nil {
		return nil, err
	}

	return e, nil
}

// Nodata returns the governing nodata sentinel.
func (e *Evaluator) Nodata() float64 { return e.nodata }

// bind walks the tree resolving every reference it will need during
// evaluation.
func (e *Evaluator) bind(node Node) error {
	switch n := node.(type) {
	case *Number:
		return nil

	case *BandRef:
		if e.single == nil {
			return ErrUnknownBand.With(
				slog.Int("band", n.Index),
				slog.String("reason",
					"band references need exactly one bound raster"),
			)
		}

		return e.checkBand(e.single, n.Index)

	case *Variable:
		_, err := e.dataset(n.Name)

		return err

	case *Member:
		d, err := e.dataset(n.Object)
		if err != nil {
			return err
		}

		if n.Property != "" {
			return ErrUnknownBand.With(
				slog.String("object", n.Object),
				slog.String("property", n.Property),
				slog.String("reason", "property access is not supported"),
			)
		}

		return e.checkBand(d, n.Band)

	case *Unary:
		return e.bind(n.Arg)

	case *Binary:
		if err := e.bind(n.Left); err != nil {
			return err
		}

		return e.bind(n.Right)

	case *Comparison:
		if err := e.bind(n.Left); err != nil {
			return err
		}

		return e.bind(n.Right)

	case *Ternary:
		if err := e.bind(n.Cond); err != nil {
			return err
		}

		if err := e.bind(n.Then); err != nil {
			return err
		}

		return e.bind(n.Else)

	case *Call:
		fn, err := ResolveFunc(n.Name)
		if err != nil {
			return err
		}

		if err := checkArity(fn, n.Name, len(n.Args)); err != nil {
			return err
		}

		if fn == FuncNDVI {
			if err := e.bindNDVI(n); err != nil {
				return err
			}
		}

		e.funcs[n] = fn

		for _, arg := range n.Args {
			if err := e.bind(arg); err != nil {
				return err
			}
		}

		return nil

	default:
		return ErrUnknownVariable.With(slog.String("node", "unknown"))
	}
}

func (e *Evaluator) bindNDVI(call *Call) error {
	nir, red, err := ndviBands(call)
	if err != nil {
		return err
	}

	if e.single == nil {
		return ErrUnknownBand.With(
			slog.String("function", "ndvi"),
			slog.String("reason",
				"band references need exactly one bound raster"),
		)
	}

	if err := e.checkBand(e.single, nir); err != nil {
		return err
	}

	return e.checkBand(e.single, red)
}

func (e *Evaluator) dataset(name string) (*raster.Dataset, error) {
	d, ok := e.inputs[name]
	if !ok {
		known := make([]string, 0, len(e.inputs))
		for k := range e.inputs {
			known = append(known, k)
		}

		sort.Strings(known)

		return nil, ErrUnknownVariable.With(
			slog.String("name", name),
			slog.Any("bound", known),
		)
	}

	return d, nil
}

func (e *Evaluator) checkBand(d *raster.Dataset, band int) error {
	if band < 1 || band > len(d.Bands) {
		return ErrUnknownBand.With(
			slog.String("raster", d.Name),
			slog.Int("band", band),
			slog.Int("bands", len(d.Bands)),
		)
	}

	return nil
}

// Evaluate computes the expression at one row-major pixel index.
func (e *Evaluator) Evaluate(pixel int) float64 {
	return e.eval(e.root, pixel)
}

//nolint:cyclop // one arm per node variant
func (e *Evaluator) eval(node Node, i int) float64 {
	switch n := node.(type) {
	case *Number:
		return n.Value

	case *BandRef:
		return float64(e.single.Bands[n.Index-1][i])

	case *Variable:
		return float64(e.inputs[n.Name].Bands[0][i])

	case *Member:
		return float64(e.inputs[n.Object].Bands[n.Band-1][i])

	case *Unary:
		arg := e.eval(n.Arg, i)
		if arg == e.nodata {
			return e.nodata
		}

		return -arg

	case *Binary:
		return e.evalBinary(n, i)

	case *Comparison:
		left := e.eval(n.Left, i)
		if left == e.nodata {
			return e.nodata
		}

		right := e.eval(n.Right, i)
		if right == e.nodata {
			return e.nodata
		}

		return compare(n.Op, left, right)

	case *Ternary:
		cond := e.eval(n.Cond, i)
		if cond == e.nodata {
			return e.nodata
		}

		if cond != 0 {
			return e.eval(n.Then, i)
		}

		return e.eval(n.Else, i)

	case *Call:
		return e.evalCall(n, i)

	default:
		return e.nodata
	}
}

func (e *Evaluator) evalBinary(n *Binary, i int) float64 {
	left := e.eval(n.Left, i)
	if left == e.nodata {
		return e.nodata
	}

	right := e.eval(n.Right, i)
	if right == e.nodata {
		return e.nodata
	}

	var v float64

	switch n.Op {
	case "+":
		v = left + right
	case "-":
		v = left - right
	case "*":
		v = left * right
	case "/":
		if right == 0 {
			return e.nodata
		}

		v = left / right
	case "%":
		if right == 0 {
			return e.nodata
		}

		v = math.Mod(left, right)
	case "^":
		v = math.Pow(left, right)
	default:
		return e.nodata
	}

	return e.guard(v)
}

func compare(op string, left, right float64) float64 {
	var ok bool

	switch op {
	case ">":
		ok = left > right
	case "<":
		ok = left < right
	case ">=":
		ok = left >= right
	case "<=":
		ok = left <= right
	case "==":
		ok = left == right
	case "!=":
		ok = left != right
	}

	if ok {
		return 1
	}

	return 0
}

//nolint:cyclop // one arm per function kind
func (e *Evaluator) evalCall(call *Call, i int) float64 {
	fn := e.funcs[call]

	if fn == FuncNDVI {
		return e.evalNDVI(call, i)
	}

	args := make([]float64, len(call.Args))

	for k, arg := range call.Args {
		v := e.eval(arg, i)
		if v == e.nodata {
			return e.nodata
		}

		args[k] = v
	}

	switch fn {
	case FuncAbs:
		return e.guard(math.Abs(args[0]))
	case FuncFloor:
		return e.guard(math.Floor(args[0]))
	case FuncCeil:
		return e.guard(math.Ceil(args[0]))
	case FuncRound:
		return e.guard(math.Round(args[0]))
	case FuncSin:
		return e.guard(math.Sin(args[0]))
	case FuncCos:
		return e.guard(math.Cos(args[0]))
	case FuncTan:
		return e.guard(math.Tan(args[0]))
	case FuncAsin:
		return e.guard(math.Asin(args[0]))
	case FuncAcos:
		return e.guard(math.Acos(args[0]))
	case FuncAtan:
		if len(args) == 2 {
			return e.guard(math.Atan2(args[0], args[1]))
		}

		return e.guard(math.Atan(args[0]))
	case FuncSqrt:
		if args[0] < 0 {
			return e.nodata
		}

		return e.guard(math.Sqrt(args[0]))
	case FuncPow:
		return e.guard(math.Pow(args[0], args[1]))
	case FuncExp:
		return e.guard(math.Exp(args[0]))
	case FuncLog:
		if args[0] <= 0 {
			return e.nodata
		}

		return e.guard(math.Log(args[0]))
	case FuncLog10:
		if args[0] <= 0 {
			return e.nodata
		}

		return e.guard(math.Log10(args[0]))
	case FuncMin:
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}

		return e.guard(v)
	case FuncMax:
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}

		return e.guard(v)
	case FuncClamp:
		return e.guard(math.Min(math.Max(args[0], args[1]), args[2]))
	case FuncNDVI, FuncInvalid:
	}

	return e.nodata
}

// evalNDVI computes (nir-red)/(nir+red) against the single bound
// raster. Unlike the declarative sugar, a zero denominator yields
// nodata here, consistent with the rest of the eager division policy.
func (e *Evaluator) evalNDVI(call *Call, i int) float64 {
	nirBand, redBand, _ := ndviBands(call) // validated in bind

	nir := float64(e.single.Bands[nirBand-1][i])
	if nir == e.nodata {
		return e.nodata
	}

	red := float64(e.single.Bands[redBand-1][i])
	if red == e.nodata {
		return e.nodata
	}

	sum := nir + red
	if sum == 0 {
		return e.nodata
	}

	return e.guard((nir - red) / sum)
}

// guard maps NaN results to nodata; everything else passes through.
func (e *Evaluator) guard(v float64) float64 {
	if math.IsNaN(v) {
		return e.nodata
	}

	return v
}
