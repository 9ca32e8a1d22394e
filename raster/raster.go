// Package raster holds the in-memory raster dataset model shared by
// the expression backends and the calculator. Storage is deliberately
// simple: one float32 array per band, row-major, with a numeric nodata
// sentinel. Loaders and persistence live elsewhere; this package only
// owns the shape the engine computes against.
package raster

import (
	"fmt"
	"sync"
)

// DefaultNodata is the sentinel used when a dataset doesn't declare
// its own. It matches the convention of the demo GeoTIFF products.
const DefaultNodata = -9999

// Dataset is a gridded multi-band raster. Pixel i of band b lives at
// Bands[b][i] with i mapping row-major. Band values equal to Nodata
// mean "no measurement" and propagate through the eager evaluator.
//
// Datasets are treated as read-only snapshots while an evaluation is
// in flight; the engine takes no locks.
type Dataset struct {
	Name   string
	Width  int
	Height int
	Nodata float64
	Bands  [][]float32

	// StretchMin and StretchMax are default visualization bounds,
	// filled by the calculator from the non-nodata value range.
	StretchMin float64
	StretchMax float64
}

// New allocates a dataset with the given shape and band count, every
// pixel initialized to zero.
func New(name string, width, height, bands int, nodata float64) *Dataset {
	d := &Dataset{
		Name:   name,
		Width:  width,
		Height: height,
		Nodata: nodata,
		Bands:  make([][]float32, bands),
	}

	for i := range d.Bands {
		d.Bands[i] = make([]float32, width*height)
	}

	return d
}

// Validate checks that every band covers the full grid.
func (d *Dataset) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("raster %q has empty shape %dx%d",
			d.Name, d.Width, d.Height)
	}

	if len(d.Bands) == 0 {
		return fmt.Errorf("raster %q has no bands", d.Name)
	}

	want := d.Width * d.Height
	for i, band := range d.Bands {
		if len(band) != want {
			return fmt.Errorf("raster %q band %d has %d pixels, want %d",
				d.Name, i+1, len(band), want)
		}
	}

	return nil
}

// SameShape reports whether two datasets cover identical grids.
func (d *Dataset) SameShape(o *Dataset) bool {
	return d.Width == o.Width && d.Height == o.Height
}

// Pixels returns the number of pixels per band.
func (d *Dataset) Pixels() int { return d.Width * d.Height }

// Stretch scans one band (0-based) for its non-nodata value range.
// ok is false when the band holds nothing but nodata.
func (d *Dataset) Stretch(band int) (min, max float64, ok bool) {
	if band < 0 || band >= len(d.Bands) {
		return 0, 0, false
	}

	for _, v := range d.Bands[band] {
		f := float64(v)
		if f == d.Nodata {
			continue
		}

		if !ok {
			min, max, ok = f, f, true

			continue
		}

		if f < min {
			min = f
		}

		if f > max {
			max = f
		}
	}

	return min, max, ok
}

// Store is an in-memory registry of named layers. The calculator
// registers its output here so the surrounding application can pick it
// up as a new layer.
type Store struct {
	mu     sync.RWMutex
	byName map[string]*Dataset
	order  []string
}

// NewStore returns an empty layer store.
func NewStore() *Store {
	return &Store{byName: map[string]*Dataset{}}
}

// Register adds a dataset under its name, replacing any existing layer
// with the same name.
func (s *Store) Register(d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[d.Name]; !exists {
		s.order = append(s.order, d.Name)
	}

	s.byName[d.Name] = d

	return nil
}

// Lookup returns the layer with the given name.
func (s *Store) Lookup(name string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.byName[name]

	return d, ok
}

// Names returns the registered layer names in registration order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)

	return names
}
