package structure

import (
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a binary volume for reporting: set voxel count, physical
// volume, and the world-space centroid of the set voxels.
type Stats struct {
	Voxels   int
	VolumeCC float64
	Centroid [3]float64
}

// MaskStats computes summary statistics for a mask. The centroid is the
// unweighted mean of the set voxel centers in world millimeters; an empty
// mask reports a zero centroid.
func MaskStats(m *Mask) Stats {
	var xs, ys, zs []float64
	g := m.Grid
	for z := 0; z < g.ZSize; z++ {
		for y := 0; y < g.YSize; y++ {
			base := g.Index(0, y, z)
			for x := 0; x < g.XSize; x++ {
				if m.Data[base+x] == 0 {
					continue
				}
				wx, wy, wz := g.VoxelToWorld(float64(x), float64(y), float64(z))
				xs = append(xs, wx)
				ys = append(ys, wy)
				zs = append(zs, wz)
			}
		}
	}
	s := Stats{Voxels: len(xs)}
	// mm^3 -> cc
	s.VolumeCC = float64(s.Voxels) * g.XRes * g.YRes * g.ZRes / 1000.0
	if s.Voxels > 0 {
		s.Centroid = [3]float64{
			stat.Mean(xs, nil),
			stat.Mean(ys, nil),
			stat.Mean(zs, nil),
		}
	}
	return s
}

// VIPStats computes the same summary for the sparse form by converting the
// run bounds directly, without materializing a dense buffer.
func VIPStats(v *VIP) Stats {
	var xs, ys, zs []float64
	g := v.Grid
	for z := range v.Rows {
		for y, row := range v.Rows[z] {
			for _, run := range row {
				xStart := int(run.Index) - y*g.XSize
				for x := xStart; x < xStart+int(run.Length); x++ {
					wx, wy, wz := g.VoxelToWorld(float64(x), float64(y), float64(z))
					xs = append(xs, wx)
					ys = append(ys, wy)
					zs = append(zs, wz)
				}
			}
		}
	}
	s := Stats{Voxels: len(xs)}
	s.VolumeCC = float64(s.Voxels) * g.XRes * g.YRes * g.ZRes / 1000.0
	if s.Voxels > 0 {
		s.Centroid = [3]float64{
			stat.Mean(xs, nil),
			stat.Mean(ys, nil),
			stat.Mean(zs, nil),
		}
	}
	return s
}
