// Package boolean implements union, intersection, and subtraction over two
// volumes sharing a compatible grid, for both the sparse VIP backend and
// the dense mask backend. Every operation validates grid compatibility
// before touching any data, so a failed call never leaves a partially
// mutated result.
package boolean

import (
	"fmt"

	"rtvoxel/pkg/interval"
	"rtvoxel/pkg/structure"
)

// ErrGridMismatch is returned when the operand grids differ in voxel
// dimensions. Spacing and origin are not compared; operands are expected
// to be resampled onto a common lattice before they reach this package.
var ErrGridMismatch = fmt.Errorf("boolean: operand grids have different dimensions")

// Op selects the set operation.
type Op int

const (
	OpUnion Op = iota
	OpIntersect
	OpSubtract
)

func (op Op) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersect:
		return "intersect"
	case OpSubtract:
		return "subtract"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// ParseOp maps the wire name of an operation to its Op value.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "union":
		return OpUnion, true
	case "intersect":
		return OpIntersect, true
	case "subtract":
		return OpSubtract, true
	}
	return 0, false
}

// Backend selects the volume representation an operation runs on.
type Backend int

const (
	BackendVIP Backend = iota
	BackendMask
)

func (b Backend) String() string {
	switch b {
	case BackendVIP:
		return "vip"
	case BackendMask:
		return "mask"
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend maps the wire name of a backend to its Backend value.
func ParseBackend(s string) (Backend, bool) {
	switch s {
	case "vip":
		return BackendVIP, true
	case "mask":
		return BackendMask, true
	}
	return 0, false
}

// UnionVIP returns A ∪ B. A is cloned and B's runs are merged into the
// clone plane by plane; planes where B is entirely empty are skipped.
func UnionVIP(a, b *structure.VIP) (*structure.VIP, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatch(a, b)
	}
	out := a.Clone()
	for z := range b.Rows {
		if b.PlaneEmpty(z) {
			continue
		}
		for y, row := range b.Rows[z] {
			if len(row) == 0 {
				continue
			}
			combined := append(append([]interval.Interval{}, out.Rows[z][y]...), row...)
			out.Rows[z][y] = interval.Merge(combined)
		}
	}
	return out, nil
}

// IntersectVIP returns A ∩ B as a fresh volume. Planes where either side
// is empty stay empty with no per-row work.
func IntersectVIP(a, b *structure.VIP) (*structure.VIP, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatch(a, b)
	}
	out := structure.NewVIP(a.Grid)
	for z := range a.Rows {
		if b.PlaneEmpty(z) {
			continue
		}
		for y, row := range a.Rows[z] {
			if len(row) == 0 || len(b.Rows[z][y]) == 0 {
				continue
			}
			out.Rows[z][y] = interval.Merge(interval.Overlap(row, b.Rows[z][y]))
		}
	}
	return out, nil
}

// SubtractVIP returns A \ B. A is cloned and each row overlapping a
// non-empty B plane is rewritten via interval subtraction.
func SubtractVIP(a, b *structure.VIP) (*structure.VIP, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatch(a, b)
	}
	out := a.Clone()
	for z := range b.Rows {
		if b.PlaneEmpty(z) {
			continue
		}
		for y, row := range b.Rows[z] {
			if len(row) == 0 || len(out.Rows[z][y]) == 0 {
				continue
			}
			out.Rows[z][y] = interval.Subtract(out.Rows[z][y], row)
		}
	}
	return out, nil
}

// ApplyVIP dispatches op over the VIP backend.
func ApplyVIP(op Op, a, b *structure.VIP) (*structure.VIP, error) {
	switch op {
	case OpUnion:
		return UnionVIP(a, b)
	case OpIntersect:
		return IntersectVIP(a, b)
	case OpSubtract:
		return SubtractVIP(a, b)
	}
	return nil, fmt.Errorf("boolean: unsupported operation %v", op)
}

// UnionMask returns A ∪ B with an elementwise OR over the flat buffers.
func UnionMask(a, b *structure.Mask) (*structure.Mask, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatchMask(a, b)
	}
	out := a.Clone()
	for i, v := range b.Data {
		out.Data[i] |= v & 1
	}
	return out, nil
}

// IntersectMask returns A ∩ B with an elementwise AND.
func IntersectMask(a, b *structure.Mask) (*structure.Mask, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatchMask(a, b)
	}
	out := a.Clone()
	for i, v := range b.Data {
		out.Data[i] &= v & 1
	}
	return out, nil
}

// SubtractMask returns A \ B with an elementwise AND NOT.
func SubtractMask(a, b *structure.Mask) (*structure.Mask, error) {
	if !a.Grid.Compatible(b.Grid) {
		return nil, mismatchMask(a, b)
	}
	out := a.Clone()
	for i, v := range b.Data {
		out.Data[i] &^= v & 1
	}
	return out, nil
}

// ApplyMask dispatches op over the mask backend.
func ApplyMask(op Op, a, b *structure.Mask) (*structure.Mask, error) {
	switch op {
	case OpUnion:
		return UnionMask(a, b)
	case OpIntersect:
		return IntersectMask(a, b)
	case OpSubtract:
		return SubtractMask(a, b)
	}
	return nil, fmt.Errorf("boolean: unsupported operation %v", op)
}

func mismatch(a, b *structure.VIP) error {
	return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrGridMismatch,
		a.Grid.XSize, a.Grid.YSize, a.Grid.ZSize,
		b.Grid.XSize, b.Grid.YSize, b.Grid.ZSize)
}

func mismatchMask(a, b *structure.Mask) error {
	return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrGridMismatch,
		a.Grid.XSize, a.Grid.YSize, a.Grid.ZSize,
		b.Grid.XSize, b.Grid.YSize, b.Grid.ZSize)
}
