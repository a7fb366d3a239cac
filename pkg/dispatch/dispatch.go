// Package dispatch runs Boolean jobs off the caller's thread and returns
// typed result envelopes. Each job is a pure function of its operands:
// there is no shared state, no queue, no retry, and no cancellation — a
// dispatched job always runs to completion or fails into its envelope.
// Callers correlate responses to requests by JobID.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"rtvoxel/pkg/boolean"
	"rtvoxel/pkg/structure"
)

var (
	// ErrUnknownOperation is reported when a request names an operation
	// the engine does not implement.
	ErrUnknownOperation = fmt.Errorf("dispatch: unknown operation")

	// ErrUnknownBackend is reported when a request names a backend the
	// engine does not implement.
	ErrUnknownBackend = fmt.Errorf("dispatch: unknown backend")

	// ErrBadOperand is reported when an operand does not match the
	// requested backend's representation.
	ErrBadOperand = fmt.Errorf("dispatch: operand does not match backend")
)

// Request is one Boolean job. A and B must both be *structure.VIP for the
// VIP backend or *structure.Mask for the mask backend.
type Request struct {
	JobID   string
	Op      boolean.Op
	Backend boolean.Backend
	A, B    any
}

// Response is the result envelope for one job. Exactly one of Result and
// Err is meaningful: OK is true with a *structure.VIP or *structure.Mask
// in Result, or false with the failure text in Err. There is no partial
// success.
type Response struct {
	JobID   string
	OK      bool
	Backend boolean.Backend
	Result  any
	Err     string
}

// Dispatcher executes jobs. The zero value is usable; New exists for
// symmetry with the rest of the engine.
type Dispatcher struct{}

// New returns a Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Go runs the request on its own goroutine and returns a channel that
// delivers exactly one Response. The channel is buffered, so a caller that
// walks away does not leak the goroutine.
func (d *Dispatcher) Go(req Request) <-chan Response {
	ch := make(chan Response, 1)
	go func() {
		ch <- d.Run(req)
		close(ch)
	}()
	return ch
}

// Run executes the request synchronously. Every failure, including
// operand validation, lands in the envelope; Run never panics across the
// boundary.
func (d *Dispatcher) Run(req Request) Response {
	resp := Response{JobID: req.JobID, Backend: req.Backend}

	switch req.Op {
	case boolean.OpUnion, boolean.OpIntersect, boolean.OpSubtract:
	default:
		resp.Err = fmt.Sprintf("%v: %v", ErrUnknownOperation, req.Op)
		return resp
	}

	switch req.Backend {
	case boolean.BackendVIP:
		a, okA := req.A.(*structure.VIP)
		b, okB := req.B.(*structure.VIP)
		if !okA || !okB || a == nil || b == nil {
			resp.Err = fmt.Sprintf("%v: want *structure.VIP operands", ErrBadOperand)
			return resp
		}
		result, err := boolean.ApplyVIP(req.Op, a, b)
		if err != nil {
			resp.Err = err.Error()
			return resp
		}
		resp.OK = true
		resp.Result = result

	case boolean.BackendMask:
		a, okA := req.A.(*structure.Mask)
		b, okB := req.B.(*structure.Mask)
		if !okA || !okB || a == nil || b == nil {
			resp.Err = fmt.Sprintf("%v: want *structure.Mask operands", ErrBadOperand)
			return resp
		}
		result, err := boolean.ApplyMask(req.Op, a, b)
		if err != nil {
			resp.Err = err.Error()
			return resp
		}
		resp.OK = true
		resp.Result = result

	default:
		resp.Err = fmt.Sprintf("%v: %v", ErrUnknownBackend, req.Backend)
	}
	return resp
}

// Serve pumps requests from reqs into responses on resps until reqs closes
// or ctx is cancelled. Each request still runs on its own goroutine, so a
// slow margin-scale job does not hold back the ones behind it. Serve
// closes resps when it returns.
func (d *Dispatcher) Serve(ctx context.Context, reqs <-chan Request, resps chan<- Response) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(resps)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-reqs:
			if !ok {
				return
			}
			wg.Add(1)
			go func(r Request) {
				defer wg.Done()
				select {
				case resps <- d.Run(r):
				case <-ctx.Done():
				}
			}(req)
		}
	}
}
