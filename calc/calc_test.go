package calc

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/raster"
)

const nodata = -9999

func grid(t *testing.T, name string, w, h int, bands ...[]float32) *raster.Dataset {
	t.Helper()

	d := raster.New(name, w, h, len(bands), nodata)
	for i, band := range bands {
		copy(d.Bands[i], band)
	}

	return d
}

func TestCalcIdentity(t *testing.T) {
	x := grid(t, "x", 2, 2, []float32{1.5, -2, 0, 42})

	out, err := Calc(context.Background(), "a",
		map[string]*raster.Dataset{"a": x})
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range out.Bands[0] {
		if v != x.Bands[0][i] {
			t.Errorf("pixel %d = %g, want %g", i, v, x.Bands[0][i])
		}
	}
}

func TestCalcBandSum(t *testing.T) {
	x := grid(t, "x", 2, 2,
		[]float32{1, 2, 3, 4},
		[]float32{10, 20, 30, 40},
	)

	out, err := Calc(context.Background(), "b1+b2",
		map[string]*raster.Dataset{"x": x})
	if err != nil {
		t.Fatal(err)
	}

	for i := range out.Bands[0] {
		want := x.Bands[0][i] + x.Bands[1][i]
		if out.Bands[0][i] != want {
			t.Errorf("pixel %d = %g, want %g", i, out.Bands[0][i], want)
		}
	}
}

func TestCalcTernaryConstant(t *testing.T) {
	x := grid(t, "x", 2, 2, []float32{7, nodata, -1, 0})

	out, err := Calc(context.Background(), "1>0 ? 5 : 10",
		map[string]*raster.Dataset{"x": x})
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range out.Bands[0] {
		if v != 5 {
			t.Errorf("pixel %d = %g, want 5", i, v)
		}
	}
}

func TestCalcNodataPropagation(t *testing.T) {
	a := grid(t, "a", 2, 2, []float32{1, nodata, 3, 4})
	b := grid(t, "b", 2, 2, []float32{10, 20, nodata, 40})

	out, err := Calc(context.Background(), "a+b",
		map[string]*raster.Dataset{"a": a, "b": b})
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{11, nodata, nodata, 44}
	for i, v := range out.Bands[0] {
		if v != want[i] {
			t.Errorf("pixel %d = %g, want %g", i, v, want[i])
		}
	}
}

func TestCalcDomainGuards(t *testing.T) {
	x := grid(t, "x", 2, 2, []float32{1, 1, 1, 1})
	inputs := map[string]*raster.Dataset{"a": x}

	for _, src := range []string{"1/0", "sqrt(-1)", "log(0)", "1%0"} {
		t.Run(src, func(t *testing.T) {
			out, err := Calc(context.Background(), src, inputs)
			if err != nil {
				t.Fatal(err)
			}

			for i, v := range out.Bands[0] {
				f := float64(v)
				if f != nodata || math.IsNaN(f) || math.IsInf(f, 0) {
					t.Errorf("pixel %d = %g, want nodata", i, v)
				}
			}
		})
	}
}

func TestCalcDimensionMismatch(t *testing.T) {
	a := grid(t, "a", 2, 2, []float32{1, 2, 3, 4})
	b := raster.New("b", 4, 4, 1, nodata)

	_, err := Calc(context.Background(), "a-b",
		map[string]*raster.Dataset{"a": a, "b": b})
	if !errors.Is(err, lang.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestCalcUnknownFunction(t *testing.T) {
	a := grid(t, "a", 2, 2, []float32{1, 2, 3, 4})

	_, err := Calc(context.Background(), "nosuchfn(a)",
		map[string]*raster.Dataset{"a": a})
	if !errors.Is(err, lang.ErrUnsupportedFunction) {
		t.Fatalf("err = %v, want ErrUnsupportedFunction", err)
	}
}

func TestCalcNoInputs(t *testing.T) {
	_, err := Calc(context.Background(), "1+1", nil)
	if err == nil {
		t.Fatal("Calc accepted an empty binding set")
	}
}

func TestCalcNDVIScenario(t *testing.T) {
	// 2x2 scene, red in b3, NIR in b4.
	scene := grid(t, "a", 2, 2,
		[]float32{0, 0, 0, 0},
		[]float32{0, 0, 0, 0},
		[]float32{200, 0, 200, 0},
		[]float32{800, 0, 400, 400},
	)

	out, err := Calc(context.Background(), "(a.b4-a.b3)/(a.b4+a.b3)",
		map[string]*raster.Dataset{"a": scene},
		WithName("ndvi"))
	if err != nil {
		t.Fatal(err)
	}

	// The 0/0 pixel is nodata here; the declarative ndvi() sugar
	// yields 0 for the same pixel. That asymmetry is load-bearing.
	want := []float64{0.6, nodata, 1.0 / 3.0, 1.0}
	for i, v := range out.Bands[0] {
		if math.Abs(float64(v)-want[i]) > 1e-6 {
			t.Errorf("pixel %d = %g, want %g", i, v, want[i])
		}
	}

	if out.Name != "ndvi" {
		t.Errorf("output name = %q", out.Name)
	}

	// Stretch bounds come from the non-nodata values.
	if math.Abs(out.StretchMin-1.0/3.0) > 1e-6 || out.StretchMax != 1 {
		t.Errorf("stretch = [%g, %g]", out.StretchMin, out.StretchMax)
	}
}

func TestCalcGoverningNodata(t *testing.T) {
	// Sorted name order decides which input's sentinel governs when
	// no primary is named: "a" wins over "z".
	a := raster.New("a", 1, 2, 1, -1)
	copy(a.Bands[0], []float32{-1, 5})

	z := raster.New("z", 1, 2, 1, -7777)
	copy(z.Bands[0], []float32{3, 4})

	out, err := Calc(context.Background(), "a+z",
		map[string]*raster.Dataset{"a": a, "z": z})
	if err != nil {
		t.Fatal(err)
	}

	if out.Nodata != -1 {
		t.Errorf("governing nodata = %g, want -1", out.Nodata)
	}

	if out.Bands[0][0] != -1 {
		t.Errorf("pixel 0 = %g, want nodata -1", out.Bands[0][0])
	}

	// WithPrimary redirects the choice.
	out, err = Calc(context.Background(), "a+z",
		map[string]*raster.Dataset{"a": a, "z": z},
		WithPrimary("z"))
	if err != nil {
		t.Fatal(err)
	}

	if out.Nodata != -7777 {
		t.Errorf("primary nodata = %g, want -7777", out.Nodata)
	}
}

func TestCalcWithStoreAndStretchOverride(t *testing.T) {
	store := raster.NewStore()
	x := grid(t, "x", 2, 2, []float32{1, 2, 3, 4})

	out, err := Calc(context.Background(), "a*2",
		map[string]*raster.Dataset{"a": x},
		WithName("doubled"),
		WithStore(store),
		WithStretch(0, 10),
	)
	if err != nil {
		t.Fatal(err)
	}

	if out.StretchMin != 0 || out.StretchMax != 10 {
		t.Errorf("stretch = [%g, %g], want pinned [0, 10]",
			out.StretchMin, out.StretchMax)
	}

	stored, ok := store.Lookup("doubled")
	if !ok || stored != out {
		t.Error("output was not registered with the store")
	}
}

func TestCalcProgressAndWorkers(t *testing.T) {
	height := 64
	x := raster.New("x", 8, height, 1, nodata)

	var (
		mu    sync.Mutex
		calls int
		total int
	)

	_, err := Calc(context.Background(), "a+1",
		map[string]*raster.Dataset{"a": x},
		WithWorkers(4),
		WithProgress(func(done, chunks int) {
			mu.Lock()
			defer mu.Unlock()

			calls++
			total = chunks
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls == 0 || calls != total {
		t.Errorf("progress calls = %d, total = %d", calls, total)
	}
}

func TestCalcCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := raster.New("x", 64, 64, 1, nodata)

	_, err := Calc(ctx, "a*a", map[string]*raster.Dataset{"a": x})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCalcStrictMode(t *testing.T) {
	x := grid(t, "x", 2, 2, []float32{1, 2, 3, 4})
	inputs := map[string]*raster.Dataset{"a": x}

	// Lenient default drops the stray '$' and still fails the parse
	// ("a a" is not an expression)...
	if _, err := Calc(context.Background(), "a $ 2", inputs); err == nil {
		t.Error("lenient parse of two adjacent values succeeded")
	}

	// ...while strict mode reports the character itself.
	_, err := Calc(context.Background(), "a $ 2", inputs, WithStrict(true))
	if !errors.Is(err, lang.ErrInvalidChar) {
		t.Errorf("err = %v, want ErrInvalidChar", err)
	}
}

func TestCalcSharedCache(t *testing.T) {
	cache := lang.NewCache()
	x := grid(t, "x", 2, 2, []float32{1, 2, 3, 4})
	inputs := map[string]*raster.Dataset{"a": x}

	for range 3 {
		if _, err := Calc(context.Background(), "a*a", inputs,
			WithCache(cache)); err != nil {
			t.Fatal(err)
		}
	}

	hits, misses := cache.Stats()
	if misses != 1 || hits != 2 {
		t.Errorf("cache stats = %d hits, %d misses, want 2/1", hits, misses)
	}
}

func TestCalcFloat32Narrowing(t *testing.T) {
	x := grid(t, "x", 1, 1, []float32{1})

	// The evaluator works in float64 but output storage is float32.
	out, err := Calc(context.Background(), "1/3",
		map[string]*raster.Dataset{"a": x})
	if err != nil {
		t.Fatal(err)
	}

	if out.Bands[0][0] != float32(1.0/3.0) {
		t.Errorf("pixel = %v, want float32(1/3)", out.Bands[0][0])
	}
}
