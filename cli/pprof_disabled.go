//go:build !pprof

package cli

import (
	"context"

	"github.com/alecthomas/kong"
)

// pprofConfig is inert when built without the pprof tag. The flags remain
// declared so the CLI surface is identical in both builds.
type pprofConfig struct {
	Mode string `default:"" help:"Enable profiling (requires pprof build tag)" hidden:""`
	Dir  string `default:"" help:"Profile output directory"                    hidden:""`
}

func (pprofConfig) vars() kong.Vars { return kong.Vars{} }

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start is a no-op when built without the pprof tag.
func (pprofConfig) start(context.Context) (stop func()) { return func() {} }
