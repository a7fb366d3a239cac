package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Contour is a closed planar polygon drawn on one axial slice, expressed in
// world millimeters. Points is a flat [x0,y0,z0, x1,y1,z1, ...] list; the
// polygon is implicitly closed from the last vertex back to the first.
// Polygons have no holes and self-intersection is not validated.
type Contour struct {
	// SlicePosition is the world Z of the slice the contour was drawn on.
	SlicePosition float64

	// Points holds the flat vertex coordinates. A valid polygon needs at
	// least 3 vertices (9 numbers).
	Points []float64
}

// Valid reports whether the contour can be rasterized: at least 3 vertices,
// a whole number of (x,y,z) triples, and a finite slice position. Invalid
// contours are treated as skippable input by every consumer, never as a
// fatal error.
func (c Contour) Valid() bool {
	if len(c.Points) < 9 || len(c.Points)%3 != 0 {
		return false
	}
	if math.IsNaN(c.SlicePosition) || math.IsInf(c.SlicePosition, 0) {
		return false
	}
	for _, v := range c.Points {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// VertexCount returns the number of (x,y,z) vertices.
func (c Contour) VertexCount() int {
	return len(c.Points) / 3
}

// Bounds holds an axis-aligned bounding box in world millimeters.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// BoundingBox computes the world-space bounding box of every valid contour
// in the set. The slice positions participate in the Z extent so that a
// single-slice contour set still has a well-defined box. The second return
// is false when the set contains no valid contour.
func BoundingBox(contours []Contour) (Bounds, bool) {
	var xs, ys, zs []float64
	for _, c := range contours {
		if !c.Valid() {
			continue
		}
		for i := 0; i+2 < len(c.Points); i += 3 {
			xs = append(xs, c.Points[i])
			ys = append(ys, c.Points[i+1])
		}
		zs = append(zs, c.SlicePosition)
	}
	if len(xs) == 0 {
		return Bounds{}, false
	}
	return Bounds{
		MinX: floats.Min(xs), MaxX: floats.Max(xs),
		MinY: floats.Min(ys), MaxY: floats.Max(ys),
		MinZ: floats.Min(zs), MaxZ: floats.Max(zs),
	}, true
}

// Pad returns the bounds grown by the given margin on every side.
func (b Bounds) Pad(mm float64) Bounds {
	return Bounds{
		MinX: b.MinX - mm, MaxX: b.MaxX + mm,
		MinY: b.MinY - mm, MaxY: b.MaxY + mm,
		MinZ: b.MinZ - mm, MaxZ: b.MaxZ + mm,
	}
}
