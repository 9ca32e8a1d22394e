package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/log"
	"github.com/endarthur/spinifex-sub001/style"
)

// Lower translates an expression to its declarative style tree and prints
// the JSON wire form. With --ramp the tree is wrapped in a color ramp over
// the given stretch range, yielding an expression a style layer can render
// directly.
type Lower struct {
	Expr   string  `arg:"" default:"-"   help:"Expression text or '-' for stdin" name:"expr"`
	Strict bool    `       help:"Reject unrecognized characters instead of dropping them"`
	Ramp   string  `       help:"Wrap the result in a named color ramp" short:"r"`
	Ramps  string  `       help:"YAML file with additional ramp definitions" type:"existingfile"`
	Min    float64 `       default:"0"   help:"Stretch minimum for the ramp"`
	Max    float64 `       default:"1"   help:"Stretch maximum for the ramp"`
}

// Run executes the lower command.
func (l *Lower) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	node, src, err := parseExpr(l.Expr, l.Strict)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "lower"))
	}

	expr, err := lang.Lower(node)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "lower"), slog.String("expr", src))
	}

	if l.Ramp != "" {
		expr, err = l.wrapRamp(ctx, expr)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stdout, expr.String())

	return nil
}

// wrapRamp wraps the lowered tree in the configured color ramp.
func (l *Lower) wrapRamp(
	ctx context.Context,
	expr style.Expr,
) (style.Expr, error) {
	reg := style.NewRampRegistry()

	if l.Ramps != "" {
		data, err := os.ReadFile(l.Ramps)
		if err != nil {
			return nil, ErrRampFile.Wrap(err).
				With(slog.String("path", l.Ramps))
		}

		if err := reg.LoadRamps(data); err != nil {
			return nil, ErrRampFile.Wrap(err).
				With(slog.String("path", l.Ramps))
		}
	}

	ramp, ok := reg.Lookup(l.Ramp)
	if !ok {
		return nil, ErrUnknownRamp.
			With(
				slog.String("name", l.Ramp),
				slog.String("available", strings.Join(reg.Names(), ",")),
			)
	}

	log.DebugContext(ctx, "applying color ramp",
		slog.String("ramp", ramp.Name),
		slog.Float64("min", l.Min),
		slog.Float64("max", l.Max),
	)

	return ramp.Expr(expr, l.Min, l.Max), nil
}
