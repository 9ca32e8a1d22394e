package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/endarthur/spinifex-sub001/lang"
)

// Fmt rewrites an expression in canonical form with minimal parentheses.
type Fmt struct {
	Expr   string `arg:"" default:"-" help:"Expression text or '-' for stdin" name:"expr"`
	Strict bool   `       help:"Reject unrecognized characters instead of dropping them"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	node, _, err := parseExpr(f.Expr, f.Strict)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "fmt"))
	}

	fmt.Fprintln(os.Stdout, lang.Format(node))

	return nil
}
