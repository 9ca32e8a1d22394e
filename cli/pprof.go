//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/endarthur/spinifex-sub001/log"
)

// pprofModes maps flag values to pkg/profile mode options.
var pprofModes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

type pprofConfig struct {
	Mode string `default:""  enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"."                          help:"Profile output directory" type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	modes := make([]string, 0, len(pprofModes))
	for mode := range pprofModes {
		modes = append(modes, mode)
	}

	return kong.Vars{
		"pprofModeEnum": strings.Join(slices.Sorted(slices.Values(modes)), ","),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	mode, ok := pprofModes[f.Mode]
	if !ok {
		return func() {}
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	profiler := profile.Start(mode, profile.ProfilePath(f.Dir), profile.Quiet)

	return func() {
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
