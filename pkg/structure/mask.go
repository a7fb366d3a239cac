package structure

import (
	"bytes"

	"rtvoxel/pkg/geometry"
)

// Mask is a 3D binary volume stored as a dense flat buffer in row-major
// order (x + y*XSize + z*XSize*YSize). Values are restricted to {0,1}.
type Mask struct {
	Grid geometry.Grid
	Data []uint8
}

// NewMask allocates an all-zero mask on the given grid.
func NewMask(grid geometry.Grid) *Mask {
	return &Mask{Grid: grid, Data: make([]uint8, grid.VoxelCount())}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{Grid: m.Grid, Data: make([]uint8, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// At returns the voxel value at (x,y,z); out-of-range coordinates read 0.
func (m *Mask) At(x, y, z int) uint8 {
	if !m.Grid.Contains(x, y, z) {
		return 0
	}
	return m.Data[m.Grid.Index(x, y, z)]
}

// Set writes the voxel at (x,y,z); out-of-range coordinates are ignored.
func (m *Mask) Set(x, y, z int, v uint8) {
	if !m.Grid.Contains(x, y, z) {
		return
	}
	if v != 0 {
		v = 1
	}
	m.Data[m.Grid.Index(x, y, z)] = v
}

// VoxelCount returns the number of set voxels.
func (m *Mask) VoxelCount() int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Equal reports whether two masks share a grid and identical buffers.
func (m *Mask) Equal(other *Mask) bool {
	return m.Grid == other.Grid && bytes.Equal(m.Data, other.Data)
}
