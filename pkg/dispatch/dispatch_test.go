package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtvoxel/pkg/boolean"
	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/structure"
)

func demoOperands(t *testing.T) (*structure.VIP, *structure.VIP, *structure.Mask, *structure.Mask) {
	t.Helper()
	g, err := geometry.NewGrid(10, 10, 1, [3]float64{}, [3]float64{1, 1, 1})
	require.NoError(t, err)

	target := []geometry.Contour{{
		Points: []float64{2, 2, 0, 8, 2, 0, 8, 8, 0, 2, 8, 0},
	}}
	avoid := []geometry.Contour{{
		Points: []float64{4, 4, 0, 6, 4, 0, 6, 6, 0, 4, 6, 0},
	}}
	return structure.ContoursToVIP(g, target), structure.ContoursToVIP(g, avoid),
		structure.ContoursToMask(g, target), structure.ContoursToMask(g, avoid)
}

func TestRunSubtractVIP(t *testing.T) {
	va, vb, _, _ := demoOperands(t)

	resp := New().Run(Request{
		JobID:   "job-1",
		Op:      boolean.OpSubtract,
		Backend: boolean.BackendVIP,
		A:       va,
		B:       vb,
	})

	require.True(t, resp.OK, "unexpected failure: %s", resp.Err)
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, boolean.BackendVIP, resp.Backend)

	result, ok := resp.Result.(*structure.VIP)
	require.True(t, ok, "result should be *structure.VIP, got %T", resp.Result)
	assert.Equal(t, 32, result.VoxelCount())
	// Operands must be untouched.
	assert.Equal(t, 36, va.VoxelCount())
}

func TestRunMaskBackend(t *testing.T) {
	_, _, ma, mb := demoOperands(t)

	resp := New().Run(Request{
		JobID:   "job-2",
		Op:      boolean.OpUnion,
		Backend: boolean.BackendMask,
		A:       ma,
		B:       mb,
	})
	require.True(t, resp.OK, "unexpected failure: %s", resp.Err)
	result := resp.Result.(*structure.Mask)
	assert.Equal(t, 36, result.VoxelCount(), "avoidance square is inside the target")
}

func TestRunGridMismatchEnvelope(t *testing.T) {
	g1, _ := geometry.NewGrid(10, 10, 1, [3]float64{}, [3]float64{1, 1, 1})
	g2, _ := geometry.NewGrid(10, 10, 2, [3]float64{}, [3]float64{1, 1, 1})

	resp := New().Run(Request{
		JobID:   "job-3",
		Op:      boolean.OpUnion,
		Backend: boolean.BackendVIP,
		A:       structure.NewVIP(g1),
		B:       structure.NewVIP(g2),
	})
	assert.False(t, resp.OK)
	assert.Nil(t, resp.Result)
	assert.Contains(t, resp.Err, "different dimensions")
	assert.Equal(t, "job-3", resp.JobID, "the envelope must stay correlatable")
}

func TestRunUnknownOperationAndBackend(t *testing.T) {
	va, vb, ma, mb := demoOperands(t)

	resp := New().Run(Request{JobID: "bad-op", Op: boolean.Op(42), Backend: boolean.BackendVIP, A: va, B: vb})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "unknown operation")

	resp = New().Run(Request{JobID: "bad-backend", Op: boolean.OpUnion, Backend: boolean.Backend(7), A: ma, B: mb})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "unknown backend")
}

func TestRunOperandValidation(t *testing.T) {
	va, _, _, mb := demoOperands(t)

	// Mask operand on the VIP backend.
	resp := New().Run(Request{JobID: "job-4", Op: boolean.OpUnion, Backend: boolean.BackendVIP, A: va, B: mb})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "operand does not match backend")

	// Nil operands fail the same way instead of panicking.
	resp = New().Run(Request{JobID: "job-5", Op: boolean.OpUnion, Backend: boolean.BackendMask})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Err, "operand does not match backend")
}

func TestGoDeliversExactlyOneResponse(t *testing.T) {
	va, vb, _, _ := demoOperands(t)

	ch := New().Go(Request{JobID: "async", Op: boolean.OpIntersect, Backend: boolean.BackendVIP, A: va, B: vb})
	resp := <-ch
	require.True(t, resp.OK)
	assert.Equal(t, 4, resp.Result.(*structure.VIP).VoxelCount())

	_, open := <-ch
	assert.False(t, open, "response channel should be drained after one response")
}

func TestConcurrentJobsAreIndependent(t *testing.T) {
	va, vb, _, _ := demoOperands(t)
	d := New()

	const jobs = 16
	chans := make([]<-chan Response, jobs)
	for i := range chans {
		chans[i] = d.Go(Request{
			JobID:   fmt.Sprintf("job-%d", i),
			Op:      boolean.OpSubtract,
			Backend: boolean.BackendVIP,
			A:       va,
			B:       vb,
		})
	}
	for i, ch := range chans {
		resp := <-ch
		require.True(t, resp.OK, "job %d failed: %s", i, resp.Err)
		assert.Equal(t, fmt.Sprintf("job-%d", i), resp.JobID)
		assert.Equal(t, 32, resp.Result.(*structure.VIP).VoxelCount())
	}
	// Shared operands survive the concurrent runs unchanged.
	assert.Equal(t, 36, va.VoxelCount())
	assert.Equal(t, 4, vb.VoxelCount())
}

func TestServePumpsRequests(t *testing.T) {
	va, vb, ma, mb := demoOperands(t)

	reqs := make(chan Request)
	resps := make(chan Response)
	go New().Serve(context.Background(), reqs, resps)

	go func() {
		reqs <- Request{JobID: "a", Op: boolean.OpUnion, Backend: boolean.BackendVIP, A: va, B: vb}
		reqs <- Request{JobID: "b", Op: boolean.OpIntersect, Backend: boolean.BackendMask, A: ma, B: mb}
		reqs <- Request{JobID: "c", Op: boolean.Op(99), Backend: boolean.BackendVIP, A: va, B: vb}
		close(reqs)
	}()

	got := make(map[string]Response)
	for resp := range resps {
		got[resp.JobID] = resp
	}
	require.Len(t, got, 3)
	assert.True(t, got["a"].OK)
	assert.True(t, got["b"].OK)
	assert.False(t, got["c"].OK)
	assert.Contains(t, got["c"].Err, "unknown operation")
}
