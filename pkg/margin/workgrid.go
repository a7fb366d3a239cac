package margin

import (
	"math"

	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/structure"
)

// buildWorkGrid voxelizes a contour set onto a fresh lattice sized to the
// contours' bounding box plus padding on every side, so a later dilation
// has room to grow without clipping. After rasterizing each contour into
// its slice, gaps between drawn slices are closed column by column: a run
// of empty voxels between two set voxels along z is filled when it spans
// at most gapFill slices. Larger gaps are left open on purpose, so
// unrelated contour islands far apart in z are never bridged.
func buildWorkGrid(contours []geometry.Contour, spacing [3]float64, paddingMM float64, gapFill int) (*structure.Mask, error) {
	bounds, ok := geometry.BoundingBox(contours)
	if !ok {
		return nil, nil
	}
	padded := bounds.Pad(paddingMM)

	nx := int(math.Ceil((padded.MaxX-padded.MinX)/spacing[0])) + 1
	ny := int(math.Ceil((padded.MaxY-padded.MinY)/spacing[1])) + 1
	nz := int(math.Ceil((padded.MaxZ-padded.MinZ)/spacing[2])) + 1

	grid, err := geometry.NewGrid(nx, ny, nz,
		[3]float64{padded.MinX, padded.MinY, padded.MinZ}, spacing)
	if err != nil {
		return nil, err
	}

	work := structure.ContoursToMask(grid, contours)
	fillSliceGaps(work, gapFill)
	return work, nil
}

// fillSliceGaps linearly fills short empty z-runs between drawn slices,
// independently for every (x,y) column.
func fillSliceGaps(m *structure.Mask, gapFill int) {
	if gapFill <= 0 {
		return
	}
	g := m.Grid
	planeSize := g.XSize * g.YSize
	for y := 0; y < g.YSize; y++ {
		for x := 0; x < g.XSize; x++ {
			col := y*g.XSize + x
			lastSet := -1
			for z := 0; z < g.ZSize; z++ {
				if m.Data[z*planeSize+col] == 0 {
					continue
				}
				if lastSet >= 0 && z-lastSet > 1 && z-lastSet-1 <= gapFill {
					for fz := lastSet + 1; fz < z; fz++ {
						m.Data[fz*planeSize+col] = 1
					}
				}
				lastSet = z
			}
		}
	}
}
