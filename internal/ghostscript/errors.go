// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ghostscript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no Ghostscript binary can be resolved.
var ErrNotFound = errors.New("ghostscript not found")

// ErrTimeout is returned when a conversion exceeds its sized deadline.
var ErrTimeout = errors.New("ghostscript timed out")

// ExitError wraps a non-zero Ghostscript exit with the captured stderr tail.
type ExitError struct {
	Src    string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("ghostscript failed for %s: %v", e.Src, e.Err)
	if tail := stderrTail(e.Stderr, 5); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// stderrTail returns the last n non-blank stderr lines joined by "; ".
// Ghostscript errors put the useful line at the very end of the stream.
func stderrTail(stderr string, n int) string {
	var lines []string
	for _, l := range strings.Split(stderr, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

// IsTimeout reports whether err classifies as a conversion timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
