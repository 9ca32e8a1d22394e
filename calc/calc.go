// Package calc runs the map-algebra calculator: it evaluates one
// expression per pixel across same-shaped input rasters and produces a
// brand-new single-band raster, e.g.
//
//	out, err := calc.Calc(ctx, "(a.b4-a.b3)/(a.b4+a.b3)",
//		map[string]*raster.Dataset{"a": scene},
//		calc.WithName("ndvi"))
//
// The pixel loop is chunked by row ranges across a worker pool and
// honors context cancellation; either a complete raster comes back or
// an error before any output exists.
package calc

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/raster"
)

// Calc parses the expression, binds it against the named inputs, and
// evaluates it once per pixel into a new single-band dataset.
//
// All inputs must share one shape; a mismatch fails before any pixel
// is processed. The governing nodata sentinel for the whole call is
// taken from [WithNodata], else from the primary input (see
// [WithPrimary]), else from the first input name in sorted order.
// Binding errors (unknown variables, bands, or functions) also surface
// before the loop starts.
func Calc(
	ctx context.Context,
	src string,
	inputs map[string]*raster.Dataset,
	opts ...Option,
) (*raster.Dataset, error) {
	cfg := makeConfig(opts...)

	node, err := cfg.parse(src)
	if err != nil {
		return nil, err
	}

	shape, err := checkInputs(inputs)
	if err != nil {
		return nil, err
	}

	nodata := cfg.governingNodata(inputs)

	eval, err := lang.NewEvaluator(node, inputs, nodata)
	if err != nil {
		return nil, err
	}

	out := raster.New(cfg.name, shape.width, shape.height, 1, nodata)

	cfg.logger.DebugContext(ctx, "calc start",
		slog.String("expr", src),
		slog.String("name", cfg.name),
		slog.Int("width", shape.width),
		slog.Int("height", shape.height),
		slog.Int("workers", cfg.workers),
	)

	if err := run(ctx, cfg, eval, out); err != nil {
		return nil, err
	}

	applyStretch(cfg, out)

	if cfg.store != nil {
		if err := cfg.store.Register(out); err != nil {
			return nil, err
		}
	}

	cfg.logger.DebugContext(ctx, "calc done",
		slog.String("name", cfg.name),
		slog.Float64("min", out.StretchMin),
		slog.Float64("max", out.StretchMax),
	)

	return out, nil
}

type shape struct {
	width  int
	height int
}

// checkInputs validates every input and requires a single shared
// shape across all of them.
func checkInputs(inputs map[string]*raster.Dataset) (shape, error) {
	if len(inputs) == 0 {
		return shape{}, lang.ErrUnknownVariable.With(
			slog.String("reason", "no input rasters bound"),
		)
	}

	names := sortedNames(inputs)

	first := inputs[names[0]]
	if err := first.Validate(); err != nil {
		return shape{}, lang.WrapError(err)
	}

	for _, name := range names[1:] {
		d := inputs[name]
		if err := d.Validate(); err != nil {
			return shape{}, lang.WrapError(err)
		}

		if !first.SameShape(d) {
			return shape{}, lang.ErrDimensionMismatch.With(
				slog.String("first", names[0]),
				slog.String("other", name),
				slog.String("first_shape", shapeString(first)),
				slog.String("other_shape", shapeString(d)),
			)
		}
	}

	return shape{width: first.Width, height: first.Height}, nil
}

// run executes the chunked pixel loop. Rows are split into contiguous
// chunks distributed over the worker pool; cancellation is checked at
// chunk granularity and progress reported as chunks finish.
func run(
	ctx context.Context,
	cfg config,
	eval *lang.Evaluator,
	out *raster.Dataset,
) error {
	band := out.Bands[0]
	width := out.Width

	rowsPerChunk := max(out.Height/(cfg.workers*chunksPerWorker), 1)
	chunks := (out.Height + rowsPerChunk - 1) / rowsPerChunk

	var done atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.workers)

	for row := 0; row < out.Height; row += rowsPerChunk {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			end := min(row+rowsPerChunk, out.Height)
			for i := row * width; i < end*width; i++ {
				band[i] = float32(eval.Evaluate(i))
			}

			if cfg.progress != nil {
				cfg.progress(int(done.Add(1)), chunks)
			}

			return nil
		})
	}

	return group.Wait()
}

// chunksPerWorker keeps chunks small enough that cancellation and
// progress stay responsive on large rasters.
const chunksPerWorker = 4

// applyStretch fills the default visualization stretch bounds from the
// non-nodata value range, unless the caller pinned them.
func applyStretch(cfg config, out *raster.Dataset) {
	if cfg.stretchSet {
		out.StretchMin = cfg.stretchMin
		out.StretchMax = cfg.stretchMax

		return
	}

	if min, max, ok := out.Stretch(0); ok {
		out.StretchMin = min
		out.StretchMax = max
	}
}

func shapeString(d *raster.Dataset) string {
	return strconv.Itoa(d.Width) + "x" + strconv.Itoa(d.Height)
}

func sortedNames(inputs map[string]*raster.Dataset) []string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// defaultWorkers sizes the pool to the machine.
func defaultWorkers() int {
	return max(runtime.GOMAXPROCS(0), 1)
}
