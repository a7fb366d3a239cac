// Package interval implements run-length interval algebra over half-open
// integer runs. A run {Index, Length} covers voxels [Index, Index+Length)
// along one row of a volume; rows are combined with Merge, Overlap, and
// Subtract. These three operations are the foundation the sparse VIP
// representation and its Boolean engine are built on.
package interval

import "sort"

// Interval is a contiguous run of "inside" voxels along one row, half-open
// [Index, Index+Length). For row y of a volume with row width xSize the
// convention is Index = y*xSize + xStart. Length is always > 0 in a
// normalized row.
type Interval struct {
	Index  uint32
	Length uint32
}

// End returns the exclusive end position of the run.
func (iv Interval) End() uint32 {
	return iv.Index + iv.Length
}

// Merge sorts the runs by Index and folds overlapping and adjacent runs
// together. Adjacency counts as overlap: {0,5} followed by {5,3} becomes
// {0,8}. The input is not modified. The result is sorted and normalized
// (no two entries touch or overlap), and runs with zero Length are dropped.
// Merge is idempotent.
func Merge(runs []Interval) []Interval {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]Interval, 0, len(runs))
	for _, r := range runs {
		if r.Length > 0 {
			sorted = append(sorted, r)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	out := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.Index <= cur.End() {
			// Touching or overlapping: extend the current run.
			if next.End() > cur.End() {
				cur.Length = next.End() - cur.Index
			}
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}

// Overlap computes the intersection of two normalized rows with a
// two-pointer sweep. Both inputs must be sorted and non-overlapping (the
// form Merge produces). For every pair of runs the overlapping part
// [max(starts), min(ends)) is emitted when non-empty, and the run that ends
// first is advanced.
func Overlap(a, b []Interval) []Interval {
	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Index
		if b[j].Index > start {
			start = b[j].Index
		}
		end := a[i].End()
		if b[j].End() < end {
			end = b[j].End()
		}
		if start < end {
			out = append(out, Interval{Index: start, Length: end - start})
		}
		if a[i].End() <= b[j].End() {
			i++
		} else {
			j++
		}
	}
	return out
}

// Subtract removes the coverage of b from a. Both inputs must be
// normalized. Each a-run is split against every b-run that overlaps it:
// the part of the a-run left of the b-run survives, the covered part is
// discarded, and the remainder to the right carries on against the next
// b-run. An a-run fully covered by b emits nothing; a single b-run may
// consume several a-runs. The result is re-merged before returning.
func Subtract(a, b []Interval) []Interval {
	if len(a) == 0 {
		return nil
	}
	if len(b) == 0 {
		return Merge(a)
	}

	var out []Interval
	j := 0
	for _, run := range a {
		start, end := run.Index, run.End()

		// Skip b runs that end at or before this run's start.
		for j < len(b) && b[j].End() <= start {
			j++
		}

		k := j
		for k < len(b) && b[k].Index < end {
			if b[k].Index > start {
				out = append(out, Interval{Index: start, Length: b[k].Index - start})
			}
			if b[k].End() >= end {
				start = end
				break
			}
			start = b[k].End()
			k++
		}
		if start < end {
			out = append(out, Interval{Index: start, Length: end - start})
		}
	}
	return Merge(out)
}

// Equal reports whether two rows hold identical runs.
func Equal(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Count returns the total number of voxels covered by a normalized row.
func Count(runs []Interval) int {
	n := 0
	for _, r := range runs {
		n += int(r.Length)
	}
	return n
}
