package models

import "time"

// JobReport summarizes one completed Boolean job for display.
type JobReport struct {
	// JobID is the caller-supplied correlation id.
	JobID string

	// Operation and Backend are the wire names from the request.
	Operation string
	Backend   string

	// OK mirrors the response envelope; Err holds the failure text when
	// OK is false.
	OK  bool
	Err string

	// Voxels is the set-voxel count of the result, when OK.
	Voxels int

	// Elapsed is the wall time the job took.
	Elapsed time.Duration
}

// MarginReport summarizes one margin application for display.
type MarginReport struct {
	// MarginMM is the signed distance applied.
	MarginMM float64

	// Strategy is the structuring-element realization used.
	Strategy string

	// ContoursIn and ContoursOut count the boundary loops before and
	// after the operation.
	ContoursIn  int
	ContoursOut int

	// Elapsed is the wall time the operation took.
	Elapsed time.Duration
}
