// Package margin implements true 3D morphological margins over a contour
// set: the per-slice contours are voxelized onto a padded working grid,
// dilated or eroded by a physical distance, and re-extracted as per-slice
// contours. The working grid build follows the same pipeline shape as the
// rest of the engine: rasterize, close inter-slice gaps, morph, trace.
package margin

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"

	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/raster"
	"rtvoxel/pkg/structure"
)

// Params holds the margin engine configuration.
type Params struct {
	// Spacing is the working-grid voxel spacing in mm per axis.
	Spacing [3]float64

	// PaddingMM pads the contour bounding box on every side so dilation
	// has room to grow without clipping. Sensible values are 30-50.
	PaddingMM float64

	// SliceGapFill is the largest run of empty slices, per (x,y) column,
	// that is filled between two drawn slices. Gaps beyond it stay open.
	SliceGapFill int

	// Strategy picks the structuring-element realization.
	Strategy Strategy

	// SimplifyTolerance is the Douglas-Peucker threshold, in voxels,
	// applied to re-extracted contours.
	SimplifyTolerance float64

	// Workers bounds the goroutines used by the morphology passes.
	Workers int

	// Verbose enables step-by-step progress output.
	Verbose bool
}

// DefaultParams returns the engine defaults for the given voxel spacing.
func DefaultParams(spacing [3]float64) *Params {
	return &Params{
		Spacing:           spacing,
		PaddingMM:         40,
		SliceGapFill:      5,
		Strategy:          SeparableApprox,
		SimplifyTolerance: raster.DefaultSimplifyTolerance,
		Workers:           runtime.NumCPU(),
	}
}

// Engine applies 3D margins to contour sets. It owns an optional working
// grid cache; a nil cache disables reuse entirely.
type Engine struct {
	params *Params
	cache  *Cache
}

// NewEngine creates a margin engine. Zero-valued Params fields fall back
// to the defaults for the given spacing.
func NewEngine(params *Params) *Engine {
	def := DefaultParams(params.Spacing)
	if params.PaddingMM <= 0 {
		params.PaddingMM = def.PaddingMM
	}
	if params.SliceGapFill <= 0 {
		params.SliceGapFill = def.SliceGapFill
	}
	if params.SimplifyTolerance <= 0 {
		params.SimplifyTolerance = def.SimplifyTolerance
	}
	if params.Workers <= 0 {
		params.Workers = def.Workers
	}
	return &Engine{params: params, cache: NewCache()}
}

// Cache exposes the engine's working-grid cache for explicit invalidation.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Apply grows (marginMM > 0) or shrinks (marginMM < 0) the structure
// described by the contour set by |marginMM| millimeters. An empty contour
// set or a zero margin is a no-op returning the input unchanged. Contours
// failing Valid are skipped, never fatal.
func (e *Engine) Apply(contours []geometry.Contour, marginMM float64) ([]geometry.Contour, error) {
	valid := make([]geometry.Contour, 0, len(contours))
	for _, c := range contours {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 || marginMM == 0 {
		return contours, nil
	}

	p := e.params
	if p.Verbose {
		fmt.Printf("Step 1: Building working grid (%d contours, %.1f mm padding)...\n",
			len(valid), p.PaddingMM)
	}

	key := cacheKey(valid, marginMM, p.Spacing, p.PaddingMM, p.SliceGapFill)
	work, cached := e.cache.get(key)
	if !cached {
		var err error
		work, err = buildWorkGrid(valid, p.Spacing, p.PaddingMM, p.SliceGapFill)
		if err != nil {
			return nil, fmt.Errorf("margin: building working grid: %w", err)
		}
		if work == nil {
			return contours, nil
		}
		e.cache.put(key, work)
	}

	if p.Verbose {
		g := work.Grid
		fmt.Printf("Step 2: Applying %s %s of %.1f mm on %dx%dx%d grid...\n",
			p.Strategy, direction(marginMM), math.Abs(marginMM),
			g.XSize, g.YSize, g.ZSize)
	}
	morphed := p.Strategy.apply(work, math.Abs(marginMM), marginMM > 0, p.Workers)

	if p.Verbose {
		fmt.Println("Step 3: Re-extracting per-slice contours...")
	}
	return e.extract(morphed, slicePositions(valid)), nil
}

func direction(marginMM float64) string {
	if marginMM > 0 {
		return "dilation"
	}
	return "erosion"
}

// slicePositions returns the distinct slice positions of the set, sorted.
func slicePositions(contours []geometry.Contour) []float64 {
	seen := make(map[float64]bool, len(contours))
	var positions []float64
	for _, c := range contours {
		if !seen[c.SlicePosition] {
			seen[c.SlicePosition] = true
			positions = append(positions, c.SlicePosition)
		}
	}
	sort.Float64s(positions)
	return positions
}

// extract traces every island on each original slice of the morphed grid
// and maps the simplified boundaries back to world millimeters. A trace
// that exhausts its step budget keeps its partial polygon and is logged,
// not failed.
func (e *Engine) extract(work *structure.Mask, positions []float64) []geometry.Contour {
	g := work.Grid
	planeSize := g.XSize * g.YSize
	var out []geometry.Contour

	for _, pos := range positions {
		z, ok := g.SliceIndex(pos)
		if !ok {
			continue
		}
		plane := work.Data[z*planeSize : (z+1)*planeSize]
		polys, err := raster.TraceAll(plane, g.XSize, g.YSize)
		if err != nil {
			log.Printf("margin: slice %.2f: %v (keeping partial boundary)", pos, err)
		}
		for _, poly := range polys {
			simplified := raster.Simplify(poly, e.params.SimplifyTolerance)
			if len(simplified) < 6 {
				continue
			}
			points := make([]float64, 0, len(simplified)/2*3)
			for i := 0; i+1 < len(simplified); i += 2 {
				wx, wy, _ := g.VoxelToWorld(simplified[i], simplified[i+1], float64(z))
				points = append(points, wx, wy, pos)
			}
			out = append(out, geometry.Contour{SlicePosition: pos, Points: points})
		}
	}
	return out
}

// Apply3DMargin is the convenience entry point: a one-shot engine with
// default parameters for the given spacing.
func Apply3DMargin(contours []geometry.Contour, marginMM float64, spacing [3]float64) ([]geometry.Contour, error) {
	return NewEngine(DefaultParams(spacing)).Apply(contours, marginMM)
}
