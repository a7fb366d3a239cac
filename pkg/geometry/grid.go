// Package geometry defines the spatial primitives shared by every other
// package in the engine: the sampling Grid, world-space contours, and the
// index arithmetic that maps between world millimeters and voxel indices.
package geometry

import (
	"fmt"
	"math"
)

// ErrInvalidGrid is returned when a grid is constructed with non-positive
// dimensions or spacing.
var ErrInvalidGrid = fmt.Errorf("geometry: invalid grid")

// Grid describes a regular 3D sampling lattice. It is a value type and is
// never mutated after construction; operations that need a different lattice
// build a new Grid.
type Grid struct {
	// XSize, YSize, ZSize are the voxel counts along each axis.
	XSize, YSize, ZSize int

	// OriginX, OriginY, OriginZ locate the center of voxel (0,0,0) in
	// world millimeters.
	OriginX, OriginY, OriginZ float64

	// XRes, YRes, ZRes are the voxel spacings in millimeters.
	XRes, YRes, ZRes float64
}

// NewGrid validates and constructs a Grid. All sizes and spacings must be
// strictly positive.
func NewGrid(xSize, ySize, zSize int, origin [3]float64, spacing [3]float64) (Grid, error) {
	if xSize <= 0 || ySize <= 0 || zSize <= 0 {
		return Grid{}, fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGrid, xSize, ySize, zSize)
	}
	if spacing[0] <= 0 || spacing[1] <= 0 || spacing[2] <= 0 {
		return Grid{}, fmt.Errorf("%w: spacing %gx%gx%g", ErrInvalidGrid, spacing[0], spacing[1], spacing[2])
	}
	return Grid{
		XSize: xSize, YSize: ySize, ZSize: zSize,
		OriginX: origin[0], OriginY: origin[1], OriginZ: origin[2],
		XRes: spacing[0], YRes: spacing[1], ZRes: spacing[2],
	}, nil
}

// VoxelCount returns the total number of voxels in the lattice.
func (g Grid) VoxelCount() int {
	return g.XSize * g.YSize * g.ZSize
}

// Index returns the flat row-major buffer offset of voxel (x,y,z).
// Layout is x + y*XSize + z*XSize*YSize; callers are responsible for
// bounds checking.
func (g Grid) Index(x, y, z int) int {
	return x + y*g.XSize + z*g.XSize*g.YSize
}

// Contains reports whether (x,y,z) lies inside the lattice.
func (g Grid) Contains(x, y, z int) bool {
	return x >= 0 && x < g.XSize && y >= 0 && y < g.YSize && z >= 0 && z < g.ZSize
}

// Compatible reports whether two grids may be combined by the Boolean
// engine. Only the voxel dimensions are compared: spacing and origin are
// the caller's responsibility (volumes are expected to be resampled onto a
// common lattice upstream). Use SameLattice for the strict check.
func (g Grid) Compatible(other Grid) bool {
	return g.XSize == other.XSize && g.YSize == other.YSize && g.ZSize == other.ZSize
}

// SameLattice reports whether two grids agree on dimensions, spacing, and
// origin (within 1e-9 mm). The Boolean engine deliberately does not call
// this; it exists for callers that want the full equality check.
func (g Grid) SameLattice(other Grid) bool {
	const eps = 1e-9
	return g.Compatible(other) &&
		math.Abs(g.XRes-other.XRes) < eps &&
		math.Abs(g.YRes-other.YRes) < eps &&
		math.Abs(g.ZRes-other.ZRes) < eps &&
		math.Abs(g.OriginX-other.OriginX) < eps &&
		math.Abs(g.OriginY-other.OriginY) < eps &&
		math.Abs(g.OriginZ-other.OriginZ) < eps
}

// WorldToVoxel maps a world-space point in millimeters to continuous voxel
// coordinates. Round the results to obtain indices.
func (g Grid) WorldToVoxel(x, y, z float64) (float64, float64, float64) {
	return (x - g.OriginX) / g.XRes,
		(y - g.OriginY) / g.YRes,
		(z - g.OriginZ) / g.ZRes
}

// VoxelToWorld maps voxel coordinates back to world millimeters.
func (g Grid) VoxelToWorld(x, y, z float64) (float64, float64, float64) {
	return x*g.XRes + g.OriginX,
		y*g.YRes + g.OriginY,
		z*g.ZRes + g.OriginZ
}

// SliceIndex returns the z index of the slice nearest to the given world Z
// position, and whether that index lies inside the grid.
func (g Grid) SliceIndex(worldZ float64) (int, bool) {
	z := int(math.Round((worldZ - g.OriginZ) / g.ZRes))
	return z, z >= 0 && z < g.ZSize
}
