package raster

import "math"

// DefaultSimplifyTolerance is the perpendicular-distance threshold, in
// pixels, used to drop near-collinear boundary points. Half a voxel keeps
// the simplified polygon within quantization error of the traced one.
const DefaultSimplifyTolerance = 0.5

// Simplify reduces a flat [x0,y0, x1,y1, ...] polyline with the
// Douglas-Peucker algorithm: points closer than tolerance to the chord
// between the retained endpoints are dropped. The first and last points
// always survive. Inputs with two or fewer points are returned as-is.
func Simplify(points []float64, tolerance float64) []float64 {
	n := len(points) / 2
	if n <= 2 {
		return points
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	simplifyRange(points, 0, n-1, tolerance, keep)

	out := make([]float64, 0, len(points))
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, points[2*i], points[2*i+1])
		}
	}
	return out
}

func simplifyRange(points []float64, lo, hi int, tolerance float64, keep []bool) {
	if hi-lo < 2 {
		return
	}
	maxDist := 0.0
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		d := perpendicularDistance(
			points[2*i], points[2*i+1],
			points[2*lo], points[2*lo+1],
			points[2*hi], points[2*hi+1],
		)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx < 0 || maxDist <= tolerance {
		return
	}
	keep[maxIdx] = true
	simplifyRange(points, lo, maxIdx, tolerance, keep)
	simplifyRange(points, maxIdx, hi, tolerance, keep)
}

// perpendicularDistance returns the distance from (px,py) to the segment
// (ax,ay)-(bx,by), falling back to point distance when the segment is
// degenerate.
func perpendicularDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	// Cross product magnitude over segment length.
	return math.Abs(dx*(ay-py)-dy*(ax-px)) / math.Sqrt(lenSq)
}
