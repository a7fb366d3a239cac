// Package raster bridges polygon and pixel space for one slice at a time:
// even-odd scanline filling of a polygon into a binary 2D mask, and the
// inverse Moore-neighborhood boundary trace that recovers a polygon from a
// mask. Both operate in pixel coordinates; callers map to and from world
// millimeters.
package raster

import (
	"math"
	"sort"
)

// Fill rasterizes a polygon into a width*height binary mask using the
// even-odd scanline rule. poly is a flat [x0,y0, x1,y1, ...] vertex list in
// pixel coordinates; the polygon is implicitly closed. Each row is sampled
// at y+0.5, horizontal edges are skipped, and an edge crosses the scanline
// iff minY < scanY <= maxY, so shared vertices are counted exactly once.
// Polygons with fewer than 3 vertices produce an empty mask, not an error.
func Fill(poly []float64, width, height int) []uint8 {
	mask := make([]uint8, width*height)
	n := len(poly) / 2
	if n < 3 {
		return mask
	}

	xs := make([]float64, 0, n)
	for y := 0; y < height; y++ {
		scanY := float64(y) + 0.5
		xs = xs[:0]

		for i := 0; i < n; i++ {
			j := (i + 1) % n
			x1, y1 := poly[2*i], poly[2*i+1]
			x2, y2 := poly[2*j], poly[2*j+1]
			if y1 == y2 {
				continue
			}
			minY, maxY := y1, y2
			if minY > maxY {
				minY, maxY = maxY, minY
			}
			if scanY <= minY || scanY > maxY {
				continue
			}
			t := (scanY - y1) / (y2 - y1)
			xs = append(xs, x1+t*(x2-x1))
		}

		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			fillSpan(mask[y*width:(y+1)*width], xs[i], xs[i+1], width)
		}
	}
	return mask
}

// fillSpan sets the pixels whose centers fall inside [x0, x1), clamped to
// the row.
func fillSpan(row []uint8, x0, x1 float64, width int) {
	start := int(math.Ceil(x0 - 0.5))
	end := int(math.Ceil(x1 - 0.5))
	if start < 0 {
		start = 0
	}
	if end > width {
		end = width
	}
	for x := start; x < end; x++ {
		row[x] = 1
	}
}
