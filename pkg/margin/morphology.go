package margin

import (
	"fmt"
	"sync"

	"rtvoxel/pkg/structure"
)

// Strategy selects how the spherical structuring element is realized.
type Strategy int

const (
	// Exact tests every offset within the per-axis kernel radius against
	// the true Euclidean distance, giving a spherical structuring element.
	Exact Strategy = iota

	// SeparableApprox runs three sequential 1D box passes (X, Y, Z).
	// This approximates the sphere with a box and is not geometrically
	// equivalent to Exact under anisotropic spacing: dilation covers at
	// least the exact result, erosion removes at least as much. Accepted
	// approximation, traded for a large speedup on big grids.
	SeparableApprox
)

func (s Strategy) String() string {
	switch s {
	case Exact:
		return "exact"
	case SeparableApprox:
		return "separable"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a configuration name to its Strategy value.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "exact":
		return Exact, true
	case "separable":
		return SeparableApprox, true
	}
	return 0, false
}

// apply dilates (grow=true) or erodes the mask in place-equivalent fashion,
// returning a new mask. radiusMM is always positive here; the sign handling
// lives in the engine.
func (s Strategy) apply(m *structure.Mask, radiusMM float64, grow bool, workers int) *structure.Mask {
	if radiusMM <= 0 {
		return m.Clone()
	}
	switch s {
	case SeparableApprox:
		return separablePass(m, radiusMM, grow, workers)
	default:
		return exactPass(m, radiusMM, grow, workers)
	}
}

// exactPass evaluates the spherical structuring element directly: a voxel
// is set after dilation if any input voxel within Euclidean radiusMM is
// set, and after erosion only if all of them are. Work is chunked over z
// planes across the worker goroutines.
func exactPass(m *structure.Mask, radiusMM float64, grow bool, workers int) *structure.Mask {
	g := m.Grid
	offsets := sphereOffsets(radiusMM, [3]float64{g.XRes, g.YRes, g.ZRes})
	out := structure.NewMask(g)

	parallelZ(g.ZSize, workers, func(z0, z1 int) {
		for z := z0; z < z1; z++ {
			for y := 0; y < g.YSize; y++ {
				for x := 0; x < g.XSize; x++ {
					v := probeOffsets(m, x, y, z, offsets, grow)
					if v != 0 {
						out.Data[g.Index(x, y, z)] = 1
					}
				}
			}
		}
	})
	return out
}

// probeOffsets returns 1 when the structuring element reports "set" at the
// given center. Outside-grid samples read as 0, so erosion shrinks away
// from the volume boundary.
func probeOffsets(m *structure.Mask, x, y, z int, offsets [][3]int, grow bool) uint8 {
	for _, o := range offsets {
		set := m.At(x+o[0], y+o[1], z+o[2]) != 0
		if grow && set {
			return 1
		}
		if !grow && !set {
			return 0
		}
	}
	if grow {
		return 0
	}
	return 1
}

// sphereOffsets enumerates every integer offset whose physical displacement
// lies within radiusMM, bounded per axis by ceil(radius/spacing).
func sphereOffsets(radiusMM float64, spacing [3]float64) [][3]int {
	rx := kernelRadius(radiusMM, spacing[0])
	ry := kernelRadius(radiusMM, spacing[1])
	rz := kernelRadius(radiusMM, spacing[2])
	r2 := radiusMM * radiusMM

	var offsets [][3]int
	for dz := -rz; dz <= rz; dz++ {
		for dy := -ry; dy <= ry; dy++ {
			for dx := -rx; dx <= rx; dx++ {
				px := float64(dx) * spacing[0]
				py := float64(dy) * spacing[1]
				pz := float64(dz) * spacing[2]
				if px*px+py*py+pz*pz <= r2 {
					offsets = append(offsets, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return offsets
}

func kernelRadius(radiusMM, spacing float64) int {
	r := int(radiusMM / spacing)
	if float64(r)*spacing < radiusMM {
		r++
	}
	return r
}

// separablePass approximates the sphere with three sequential 1D box
// passes, one per axis, each taking the window max (dilation) or min
// (erosion) along that axis alone.
func separablePass(m *structure.Mask, radiusMM float64, grow bool, workers int) *structure.Mask {
	g := m.Grid
	cur := m.Clone()
	radii := [3]int{
		kernelRadius(radiusMM, g.XRes),
		kernelRadius(radiusMM, g.YRes),
		kernelRadius(radiusMM, g.ZRes),
	}
	strides := [3]int{1, g.XSize, g.XSize * g.YSize}
	lengths := [3]int{g.XSize, g.YSize, g.ZSize}

	for axis := 0; axis < 3; axis++ {
		next := structure.NewMask(g)
		axisPass(cur, next, axis, strides, lengths, radii[axis], grow, workers)
		cur = next
	}
	return cur
}

// axisPass runs one 1D box pass along the given axis, parallelized over z.
func axisPass(in, out *structure.Mask, axis int, strides, lengths [3]int, radius int, grow bool, workers int) {
	g := in.Grid
	stride := strides[axis]
	length := lengths[axis]

	parallelZ(g.ZSize, workers, func(z0, z1 int) {
		for z := z0; z < z1; z++ {
			for y := 0; y < g.YSize; y++ {
				for x := 0; x < g.XSize; x++ {
					pos := [3]int{x, y, z}
					idx := g.Index(x, y, z)
					out.Data[idx] = boxProbe(in.Data, idx, pos[axis], stride, length, radius, grow)
				}
			}
		}
	})
}

// boxProbe samples the window [c-radius, c+radius] along one axis.
// Dilation takes the max, erosion the min; samples past the ends of the
// axis read as 0, matching the exact pass's boundary behavior.
func boxProbe(data []uint8, idx, c, stride, length, radius int, grow bool) uint8 {
	lo, hi := c-radius, c+radius
	if !grow && (lo < 0 || hi >= length) {
		return 0
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= length {
		hi = length - 1
	}
	base := idx - c*stride
	for p := lo; p <= hi; p++ {
		set := data[base+p*stride] != 0
		if grow && set {
			return 1
		}
		if !grow && !set {
			return 0
		}
	}
	if grow {
		return 0
	}
	return 1
}

// parallelZ splits [0, zSize) into contiguous chunks and runs fn on each
// from its own goroutine.
func parallelZ(zSize, workers int, fn func(z0, z1 int)) {
	if workers < 1 {
		workers = 1
	}
	if workers > zSize {
		workers = zSize
	}
	chunk := (zSize + workers - 1) / workers

	var wg sync.WaitGroup
	for z0 := 0; z0 < zSize; z0 += chunk {
		z1 := z0 + chunk
		if z1 > zSize {
			z1 = zSize
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(z0, z1)
	}
	wg.Wait()
}
