// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Outcome classifies what happened to a single file during a batch run.
type Outcome string

const (
	// OutcomeConverted means the file was converted, post-processed, and
	// its source relocated (deleted, or kept with --keep-source).
	OutcomeConverted Outcome = "converted"

	// OutcomeSkipped means the output already existed and skip-existing
	// was enabled, or the run was a dry run.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means conversion or post-processing failed and the
	// source was moved to the error tree.
	OutcomeFailed Outcome = "failed"

	// OutcomeTimedOut means the conversion exceeded its sized deadline.
	// The source is relocated like a failure.
	OutcomeTimedOut Outcome = "timed_out"
)

// FileResult holds the outcome of processing one file.
type FileResult struct {
	// RelPath is the file's path relative to the input root. Output and
	// error locations preserve it.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Pages is the page count probed before conversion, or 0 when the
	// probe failed.
	Pages int `json:"pages" yaml:"pages"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Duration is the wall time spent converting and post-processing.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Err holds the failure description for failed and timed-out files.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}
