package structure

import (
	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/interval"
	"rtvoxel/pkg/raster"
)

// MaskToVIP converts a dense mask to the sparse run-length form. Each
// (z,y) row is scanned left to right; a run is opened on a 0->1 edge and
// emitted on the 1->0 edge or at the row end. O(voxel count). The result
// is normalized by construction.
func MaskToVIP(m *Mask) *VIP {
	out := NewVIP(m.Grid)
	xSize := m.Grid.XSize
	for z := 0; z < m.Grid.ZSize; z++ {
		for y := 0; y < m.Grid.YSize; y++ {
			base := m.Grid.Index(0, y, z)
			var runs []interval.Interval
			start := -1
			for x := 0; x < xSize; x++ {
				inside := m.Data[base+x] != 0
				if inside && start < 0 {
					start = x
				} else if !inside && start >= 0 {
					runs = append(runs, interval.Interval{
						Index:  uint32(y*xSize + start),
						Length: uint32(x - start),
					})
					start = -1
				}
			}
			if start >= 0 {
				runs = append(runs, interval.Interval{
					Index:  uint32(y*xSize + start),
					Length: uint32(xSize - start),
				})
			}
			out.Rows[z][y] = runs
		}
	}
	return out
}

// VIPToMask paints every run into a fresh dense buffer. Runs reaching
// outside [0, XSize) are clamped rather than rejected; the sparse form is
// trusted input and a stray index should not take the conversion down.
func VIPToMask(v *VIP) *Mask {
	out := NewMask(v.Grid)
	xSize := v.Grid.XSize
	for z := range v.Rows {
		for y, row := range v.Rows[z] {
			base := v.Grid.Index(0, y, z)
			for _, run := range row {
				xStart := int(run.Index) - y*xSize
				xEnd := xStart + int(run.Length)
				if xStart < 0 {
					xStart = 0
				}
				if xEnd > xSize {
					xEnd = xSize
				}
				for x := xStart; x < xEnd; x++ {
					out.Data[base+x] = 1
				}
			}
		}
	}
	return out
}

// ContoursToMask rasterizes a contour set onto the given grid. Each valid
// contour is filled into the slice nearest its SlicePosition; contours
// whose slice falls outside the grid and contours failing Valid are
// dropped silently. Overlapping contours on one slice accumulate with OR,
// so the result is independent of contour order.
func ContoursToMask(grid geometry.Grid, contours []geometry.Contour) *Mask {
	out := NewMask(grid)
	planeSize := grid.XSize * grid.YSize
	for _, c := range contours {
		if !c.Valid() {
			continue
		}
		z, ok := grid.SliceIndex(c.SlicePosition)
		if !ok {
			continue
		}
		poly := make([]float64, 0, c.VertexCount()*2)
		for i := 0; i+2 < len(c.Points); i += 3 {
			px, py, _ := grid.WorldToVoxel(c.Points[i], c.Points[i+1], c.Points[i+2])
			poly = append(poly, px, py)
		}
		plane := raster.Fill(poly, grid.XSize, grid.YSize)
		base := z * planeSize
		for i, v := range plane {
			out.Data[base+i] |= v
		}
	}
	return out
}

// ContoursToVIP rasterizes a contour set and converts the result to the
// sparse form in one step.
func ContoursToVIP(grid geometry.Grid, contours []geometry.Contour) *VIP {
	return MaskToVIP(ContoursToMask(grid, contours))
}
