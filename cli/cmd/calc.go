package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/endarthur/spinifex-sub001/calc"
	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/log"
	"github.com/endarthur/spinifex-sub001/raster"
)

// Calc evaluates an expression over a generated demo scene and prints
// summary statistics. The scene is a deterministic synthetic grid shaped
// like an aerial survey swath: smooth gradients per band, brighter in the
// higher-numbered bands, with a nodata block in one corner.
type Calc struct {
	Expr    string  `arg:"" default:"-"  help:"Expression text or '-' for stdin" name:"expr"`
	Width   int     `       default:"64" help:"Demo scene width in pixels"`
	Height  int     `       default:"64" help:"Demo scene height in pixels"`
	Bands   int     `       default:"6"  help:"Number of demo bands"`
	Workers int     `       default:"0"  help:"Worker goroutines (0 = GOMAXPROCS)"`
	Nodata  float64 `       default:"-9999" help:"Nodata sentinel for the demo scene"`
	Strict  bool    `       help:"Reject unrecognized characters instead of dropping them"`
	Preview bool    `       default:"true" help:"Render an ASCII preview of the result" negatable:""`
}

// Run executes the calc command.
func (c *Calc) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := readExpr(c.Expr)
	if err != nil {
		return err
	}

	demo := demoScene(c.Width, c.Height, c.Bands, c.Nodata)

	out, err := calc.Calc(ctx, src,
		map[string]*raster.Dataset{demo.Name: demo},
		calc.WithName("result"),
		calc.WithWorkers(c.Workers),
		calc.WithStrict(c.Strict),
		calc.WithProgress(func(done, total int) {
			log.TraceContext(ctx, "calc progress",
				slog.Int("done", done),
				slog.Int("total", total),
			)
		}),
	)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "calc"), slog.String("expr", src))
	}

	c.report(out)

	return nil
}

// report prints summary statistics and, if enabled, an ASCII preview.
func (c *Calc) report(out *raster.Dataset) {
	valid, missing := countValid(out)

	fmt.Fprintf(os.Stdout, "shape:   %dx%d\n", out.Width, out.Height)
	fmt.Fprintf(os.Stdout, "valid:   %d\n", valid)
	fmt.Fprintf(os.Stdout, "nodata:  %d\n", missing)
	fmt.Fprintf(os.Stdout, "stretch: [%g, %g]\n", out.StretchMin, out.StretchMax)

	if c.Preview {
		fmt.Fprint(os.Stdout, preview(out))
	}
}

func countValid(d *raster.Dataset) (valid, missing int) {
	sentinel := float32(d.Nodata)
	for _, v := range d.Bands[0] {
		if v == sentinel {
			missing++
		} else {
			valid++
		}
	}

	return valid, missing
}

// previewGlyphs orders glyphs from dark to bright for the ASCII preview.
const previewGlyphs = " .:-=+*#%@"

const (
	previewCols = 64
	previewRows = 24
)

// preview renders the first band as ASCII art, downsampled to fit a
// terminal. Nodata pixels render as a blank cell.
func preview(d *raster.Dataset) string {
	cols, rows := d.Width, d.Height
	if cols > previewCols {
		cols = previewCols
	}

	if rows > previewRows {
		rows = previewRows
	}

	if cols == 0 || rows == 0 {
		return ""
	}

	lo, hi := d.StretchMin, d.StretchMax
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	sentinel := float32(d.Nodata)
	buf := make([]byte, 0, rows*(cols+1))

	for r := range rows {
		y := r * d.Height / rows
		for col := range cols {
			x := col * d.Width / cols

			v := d.Bands[0][y*d.Width+x]
			if v == sentinel {
				buf = append(buf, ' ')

				continue
			}

			t := (float64(v) - lo) / span
			t = math.Max(0, math.Min(1, t))
			idx := int(t * float64(len(previewGlyphs)-1))
			buf = append(buf, previewGlyphs[idx])
		}

		buf = append(buf, '\n')
	}

	return string(buf)
}

// demoScene builds a deterministic synthetic scene. Band values combine a
// diagonal gradient with a sinusoidal bump and scale up with band number,
// so ratio expressions like NDVI produce a visible pattern. A block in the
// north-west corner is nodata across every band.
func demoScene(width, height, bands int, nodata float64) *raster.Dataset {
	d := raster.New("demo", width, height, bands, nodata)

	for b := range bands {
		scale := 100 * float64(b+1)

		for y := range height {
			gy := grad(y, height)

			for x := range width {
				gx := grad(x, width)

				if x < width/8 && y < height/8 {
					d.Bands[b][y*width+x] = float32(nodata)

					continue
				}

				v := scale * (0.2 +
					0.5*gx*gy +
					0.3*math.Sin(math.Pi*gx)*math.Cos(math.Pi*gy))
				d.Bands[b][y*width+x] = float32(v)
			}
		}
	}

	return d
}

// grad maps an index to [0, 1] across the axis extent.
func grad(i, n int) float64 {
	if n <= 1 {
		return 0
	}

	return float64(i) / float64(n-1)
}
