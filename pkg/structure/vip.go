// Package structure holds the two volume representations the engine
// operates on: the sparse run-length VIP form and the dense binary Mask
// form, together with lossless converters between them and between either
// form and clinician-drawn contours.
package structure

import (
	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/interval"
)

// VIP is a 3D binary volume stored as run-length intervals, one row of runs
// per (z,y). Rows is indexed [z][y]; every plane and row is allocated up
// front by NewVIP so there is no create-on-read path. Within a row the
// convention Index = y*XSize + xStart applies and rows are kept normalized
// (sorted, non-overlapping, adjacent runs merged).
type VIP struct {
	Grid geometry.Grid
	Rows [][][]interval.Interval
}

// NewVIP allocates an empty VIP volume on the given grid with every plane
// and row present.
func NewVIP(grid geometry.Grid) *VIP {
	rows := make([][][]interval.Interval, grid.ZSize)
	for z := range rows {
		rows[z] = make([][]interval.Interval, grid.YSize)
	}
	return &VIP{Grid: grid, Rows: rows}
}

// Clone returns a deep copy. The per-row interval slices are copied so the
// clone can be mutated row-by-row without touching the original; Boolean
// union and subtract build their result this way.
func (v *VIP) Clone() *VIP {
	out := NewVIP(v.Grid)
	for z := range v.Rows {
		for y, row := range v.Rows[z] {
			if len(row) == 0 {
				continue
			}
			cp := make([]interval.Interval, len(row))
			copy(cp, row)
			out.Rows[z][y] = cp
		}
	}
	return out
}

// Normalize re-merges every row in place and returns the receiver. Rows
// produced by the converters and the Boolean engine are already normalized;
// this exists for volumes assembled by hand.
func (v *VIP) Normalize() *VIP {
	for z := range v.Rows {
		for y, row := range v.Rows[z] {
			if len(row) > 0 {
				v.Rows[z][y] = interval.Merge(row)
			}
		}
	}
	return v
}

// VoxelCount returns the number of set voxels across the whole volume.
func (v *VIP) VoxelCount() int {
	n := 0
	for z := range v.Rows {
		for _, row := range v.Rows[z] {
			n += interval.Count(row)
		}
	}
	return n
}

// PlaneEmpty reports whether plane z has no runs at all. The Boolean
// engine uses this to skip planes without per-row work.
func (v *VIP) PlaneEmpty(z int) bool {
	for _, row := range v.Rows[z] {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two VIP volumes share a grid and identical rows.
func (v *VIP) Equal(other *VIP) bool {
	if v.Grid != other.Grid {
		return false
	}
	for z := range v.Rows {
		for y := range v.Rows[z] {
			if !interval.Equal(v.Rows[z][y], other.Rows[z][y]) {
				return false
			}
		}
	}
	return true
}
