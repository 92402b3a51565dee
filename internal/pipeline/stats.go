// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/pdiddy/pdfa-engine/pkg/types"

// RunStats accumulates the outcome of a batch run.
type RunStats struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
	TimedOut  int

	// Results holds the per-file outcomes in processing order.
	Results []types.FileResult
}

// record folds one file result into the counters.
func (s *RunStats) record(r types.FileResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case types.OutcomeConverted:
		s.Converted++
	case types.OutcomeSkipped:
		s.Skipped++
	case types.OutcomeFailed:
		s.Failed++
	case types.OutcomeTimedOut:
		s.TimedOut++
	}
}

// Processed returns the number of files that reached a terminal outcome.
func (s RunStats) Processed() int {
	return len(s.Results)
}

// HasFailures reports whether any file failed or timed out.
func (s RunStats) HasFailures() bool {
	return s.Failed > 0 || s.TimedOut > 0
}
