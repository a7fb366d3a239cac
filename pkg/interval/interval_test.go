package interval

import (
	"math/rand"
	"testing"
)

// TestMergeAdjacency verifies that boundary-touching runs are folded into
// one, not just overlapping ones.
func TestMergeAdjacency(t *testing.T) {
	got := Merge([]Interval{{Index: 0, Length: 5}, {Index: 5, Length: 3}})
	want := []Interval{{Index: 0, Length: 8}}
	if !Equal(got, want) {
		t.Errorf("Merge adjacency: got %v, want %v", got, want)
	}
}

func TestMergeUnsortedOverlapping(t *testing.T) {
	in := []Interval{
		{Index: 10, Length: 5},
		{Index: 0, Length: 4},
		{Index: 12, Length: 10},
		{Index: 3, Length: 2},
	}
	want := []Interval{{Index: 0, Length: 5}, {Index: 10, Length: 12}}
	got := Merge(in)
	if !Equal(got, want) {
		t.Errorf("Merge: got %v, want %v", got, want)
	}
}

func TestMergeDropsZeroLength(t *testing.T) {
	got := Merge([]Interval{{Index: 3, Length: 0}, {Index: 7, Length: 2}})
	want := []Interval{{Index: 7, Length: 2}}
	if !Equal(got, want) {
		t.Errorf("Merge: got %v, want %v", got, want)
	}
	if Merge([]Interval{{Index: 3, Length: 0}}) != nil {
		t.Error("Merge of only zero-length runs should be empty")
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); got != nil {
		t.Errorf("Merge(nil) = %v, want nil", got)
	}
}

// TestMergeIdempotence checks merge(merge(X)) == merge(X) over random rows.
func TestMergeIdempotence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		runs := make([]Interval, rng.Intn(20))
		for i := range runs {
			runs[i] = Interval{
				Index:  uint32(rng.Intn(100)),
				Length: uint32(rng.Intn(10)),
			}
		}
		once := Merge(runs)
		twice := Merge(once)
		if !Equal(once, twice) {
			t.Fatalf("trial %d: merge not idempotent: %v vs %v", trial, once, twice)
		}
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []Interval
		want []Interval
	}{
		{
			name: "disjoint",
			a:    []Interval{{0, 5}},
			b:    []Interval{{10, 5}},
			want: nil,
		},
		{
			name: "touching is empty",
			a:    []Interval{{0, 5}},
			b:    []Interval{{5, 5}},
			want: nil,
		},
		{
			name: "partial",
			a:    []Interval{{0, 10}},
			b:    []Interval{{5, 10}},
			want: []Interval{{5, 5}},
		},
		{
			name: "contained",
			a:    []Interval{{0, 20}},
			b:    []Interval{{5, 3}, {10, 2}},
			want: []Interval{{5, 3}, {10, 2}},
		},
		{
			name: "many against one",
			a:    []Interval{{0, 3}, {4, 3}, {8, 3}},
			b:    []Interval{{2, 7}},
			want: []Interval{{2, 1}, {4, 3}, {8, 1}},
		},
	}
	for _, tt := range tests {
		got := Overlap(tt.a, tt.b)
		if !Equal(got, tt.want) {
			t.Errorf("%s: Overlap = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name string
		a, b []Interval
		want []Interval
	}{
		{
			name: "no overlap",
			a:    []Interval{{0, 5}},
			b:    []Interval{{10, 5}},
			want: []Interval{{0, 5}},
		},
		{
			name: "hole in the middle",
			a:    []Interval{{0, 10}},
			b:    []Interval{{3, 4}},
			want: []Interval{{0, 3}, {7, 3}},
		},
		{
			name: "fully consumed",
			a:    []Interval{{2, 4}},
			b:    []Interval{{0, 10}},
			want: nil,
		},
		{
			name: "b covers multiple a runs",
			a:    []Interval{{0, 3}, {5, 3}, {10, 3}},
			b:    []Interval{{1, 11}},
			want: []Interval{{0, 1}, {12, 1}},
		},
		{
			name: "left edge trimmed",
			a:    []Interval{{5, 10}},
			b:    []Interval{{0, 8}},
			want: []Interval{{8, 7}},
		},
		{
			name: "right edge trimmed",
			a:    []Interval{{5, 10}},
			b:    []Interval{{12, 10}},
			want: []Interval{{5, 7}},
		},
		{
			name: "subtract nothing",
			a:    []Interval{{5, 10}},
			b:    nil,
			want: []Interval{{5, 10}},
		},
	}
	for _, tt := range tests {
		got := Subtract(tt.a, tt.b)
		if !Equal(got, tt.want) {
			t.Errorf("%s: Subtract = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestSubtractThenOverlapDisjoint checks that a row minus b shares nothing
// with b afterwards.
func TestSubtractThenOverlapDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		a := randomRow(rng)
		b := randomRow(rng)
		diff := Subtract(a, b)
		if rem := Overlap(diff, b); len(rem) != 0 {
			t.Fatalf("trial %d: Subtract left overlap %v (a=%v b=%v)", trial, rem, a, b)
		}
	}
}

func TestCount(t *testing.T) {
	if n := Count([]Interval{{0, 5}, {10, 3}}); n != 8 {
		t.Errorf("Count = %d, want 8", n)
	}
	if n := Count(nil); n != 0 {
		t.Errorf("Count(nil) = %d, want 0", n)
	}
}

func randomRow(rng *rand.Rand) []Interval {
	runs := make([]Interval, rng.Intn(10))
	for i := range runs {
		runs[i] = Interval{
			Index:  uint32(rng.Intn(80)),
			Length: uint32(1 + rng.Intn(8)),
		}
	}
	return Merge(runs)
}
