// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ghostscript locates and runs the external Ghostscript engine that
// performs the actual PDF/A conversion. Everything that transforms PDF bytes
// lives behind this process boundary; this package only builds command lines,
// enforces deadlines, and classifies exits.
package ghostscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/pdiddy/pdfa-engine/pkg/types"
)

// binCandidates are the binary names probed on PATH, in order. The Windows
// console binaries follow the plain Unix name.
var binCandidates = []string{"gs", "gswin64c", "gswin32c"}

// Engine runs Ghostscript PDF/A conversions. Implementations are expected to
// honor the context deadline and return ErrTimeout when it expires.
type Engine interface {
	// Convert transforms the PDF at srcPath into a PDF/A file at outPath.
	// The context carries the per-file deadline.
	Convert(ctx context.Context, srcPath, outPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr *bytes.Buffer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stderr *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// engine is the production Engine bound to a resolved Ghostscript binary.
type engine struct {
	bin      string
	pdfaPart int
	exec     executor
}

// New resolves the Ghostscript binary from cfg and returns an Engine bound
// to it. An explicit cfg.Binary wins; otherwise the known binary names are
// probed on PATH. Returns ErrNotFound when no binary resolves.
func New(cfg types.GhostscriptConfig) (Engine, error) {
	return newEngine(cfg, defaultExec)
}

func newEngine(cfg types.GhostscriptConfig, ex executor) (Engine, error) {
	part := cfg.PDFAPart
	if part == 0 {
		part = 2
	}
	if part < 1 || part > 3 {
		return nil, fmt.Errorf("invalid PDF/A part %d: must be 1, 2, or 3", part)
	}

	bin, err := locate(cfg.Binary, ex)
	if err != nil {
		return nil, err
	}

	return &engine{bin: bin, pdfaPart: part, exec: ex}, nil
}

// locate resolves the Ghostscript binary path.
func locate(explicit string, ex executor) (string, error) {
	if explicit != "" {
		path, err := ex.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: configured binary %q: %v", ErrNotFound, explicit, err)
		}
		return path, nil
	}

	for _, name := range binCandidates {
		if path, err := ex.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v on PATH", ErrNotFound, binCandidates)
}

// Convert runs one Ghostscript invocation under the context deadline.
// Stderr is captured for diagnostics; Ghostscript writes page progress
// there even with -dQUIET when something is off.
func (e *engine) Convert(ctx context.Context, srcPath, outPath string) error {
	args := buildArgs(e.pdfaPart, srcPath, outPath)

	var stderr bytes.Buffer
	start := time.Now()
	err := e.exec.Run(ctx, e.bin, args, &stderr)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %s", ErrTimeout, time.Since(start).Round(time.Second), srcPath)
	}

	return &ExitError{Src: srcPath, Stderr: stderr.String(), Err: err}
}
