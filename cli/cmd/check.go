package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/log"
)

// Check parses an expression and reports the first problem found, or
// prints the canonical form when the expression is well formed.
type Check struct {
	Expr   string `arg:"" default:"-" help:"Expression text or '-' for stdin" name:"expr"`
	Strict bool   `       help:"Reject unrecognized characters instead of dropping them"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	node, src, err := parseExpr(c.Expr, c.Strict)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "check"))
	}

	if err := lang.CheckCalls(node); err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "check"), slog.String("expr", src))
	}

	log.DebugContext(ctx, "expression ok",
		slog.String("expr", src),
		slog.Bool("strict", c.Strict),
	)

	fmt.Fprintln(os.Stdout, lang.Format(node))

	return nil
}
