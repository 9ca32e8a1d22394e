package cmd

import (
	"context"

	"github.com/endarthur/spinifex-sub001/cli/cmd/repl"
	"github.com/endarthur/spinifex-sub001/log"
)

// Repl starts an interactive expression scratchpad. Each entered line is
// parsed, echoed in canonical form with its declarative lowering, and
// evaluated when it contains no band or variable references.
type Repl struct {
	Strict bool `help:"Reject unrecognized characters instead of dropping them"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	return repl.Run(ctx, repl.Options{
		Strict: r.Strict,
		Logger: log.Default(),
	})
}
