// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the batch conversion run: discover PDFs,
// convert each under a page-sized deadline, classify the outcome, and
// relocate the file (success deletes the source, failure moves it to the
// error tree at the same relative path).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdfa-engine/internal/ghostscript"
	"github.com/pdiddy/pdfa-engine/internal/postprocess"
	"github.com/pdiddy/pdfa-engine/pkg/types"
)

// Timeout sizing defaults. The original tooling had no deadline at all;
// pathological PDFs can pin Ghostscript for hours, so the allowance scales
// with page count between a floor and a ceiling.
const (
	defaultTimeoutBase    = 60 * time.Second
	defaultTimeoutPerPage = 10 * time.Second
	defaultTimeoutMax     = 30 * time.Minute
)

// Converter runs one external PDF/A conversion. ghostscript.Engine is the
// production implementation.
type Converter interface {
	Convert(ctx context.Context, srcPath, outPath string) error
}

// PostProcessor covers the pdfcpu operations applied around a conversion.
// postprocess.Processor is the production implementation.
type PostProcessor interface {
	PageCount(path string) (int, error)
	StripAnnotations(path string) error
	StampMetadata(path string, meta postprocess.Metadata) error
	Validate(path string) error
}

// Runner executes batch runs. Out receives the per-file status lines; Log
// receives structured progress and diagnostics.
type Runner struct {
	Cfg    types.PipelineConfig
	Engine Converter
	Post   PostProcessor
	Log    *logrus.Logger
	Out    io.Writer

	// Converter identifies the tool in stamped metadata, e.g. "pdfa-engine/1.2.0".
	Converter string

	// Conformance is the stamped conformance label, e.g. "PDF/A-2b".
	Conformance string

	// OnResult, when set, is invoked with each terminal file result.
	// The ledger hangs off this.
	OnResult func(types.FileResult)
}

// Run is the top-level batch entry point: discover, process sequentially,
// sweep empty input directories, summarize. Cancelling ctx stops the run
// between files.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	files, err := Discover(r.Cfg.InputDir)
	if err != nil {
		return stats, err
	}
	stats.Total = len(files)

	if len(files) == 0 {
		r.Log.WithField("input", r.Cfg.InputDir).Warn("No PDF files to process")
		fmt.Fprintf(r.Out, "No PDF files found under %s.\n", r.Cfg.InputDir)
		return stats, nil
	}

	r.Log.WithFields(logrus.Fields{
		"input": r.Cfg.InputDir,
		"files": len(files),
	}).Info("Starting batch conversion")

	for i, rel := range files {
		if ctx.Err() != nil {
			r.Log.Warn("Interrupted, stopping batch")
			break
		}
		r.Log.Infof("[%d/%d] %s", i+1, len(files), rel)
		stats.record(r.processFile(ctx, rel))
	}

	if !r.Cfg.DryRun {
		if err := SweepEmptyDirs(r.Cfg.InputDir); err != nil {
			r.Log.WithError(err).Warn("Could not sweep empty input directories")
		}
	}

	fmt.Fprintf(r.Out, "\nBatch summary: %d converted, %d skipped, %d failed, %d timed out (total: %d)\n",
		stats.Converted, stats.Skipped, stats.Failed, stats.TimedOut, stats.Total)
	if stats.HasFailures() {
		r.Log.Warnf("At least one file failed, check the %s folder", r.Cfg.ErrorDir)
	}

	return stats, nil
}

// processFile handles one PDF: probe → size timeout → convert → post-process
// → classify → relocate.
func (r *Runner) processFile(ctx context.Context, rel string) types.FileResult {
	src := filepath.Join(r.Cfg.InputDir, rel)
	out := filepath.Join(r.Cfg.OutputDir, rel)
	start := time.Now()

	res := types.FileResult{RelPath: rel}

	if r.Cfg.SkipExisting {
		if _, err := os.Stat(out); err == nil {
			fmt.Fprintf(r.Out, "skipped: %s (output exists)\n", rel)
			res.Outcome = types.OutcomeSkipped
			return r.finish(res, start)
		}
	}

	pages, err := r.Post.PageCount(src)
	if err != nil {
		// A failed probe is not fatal: Ghostscript may still cope with a
		// file pdfcpu cannot open. The base timeout alone applies.
		r.Log.WithError(err).Warnf("Page probe failed for %s", rel)
		pages = 0
	}
	res.Pages = pages

	timeout := sizeTimeout(r.Cfg.Timeout, pages)

	if r.Cfg.DryRun {
		fmt.Fprintf(r.Out, "planned: %s (%d pages, timeout %s)\n", rel, pages, timeout)
		res.Outcome = types.OutcomeSkipped
		return r.finish(res, start)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return r.fail(res, src, out, start, fmt.Errorf("creating output directory: %w", err))
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	err = r.Engine.Convert(cctx, src, out)
	cancel()
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			// Operator interrupt, not a property of the file: drop the
			// partial output and leave the source where it is. The loop in
			// Run stops before the next file.
			r.Log.Warnf("Interrupted during %s, leaving source in place", rel)
			if rmErr := os.Remove(out); rmErr != nil && !os.IsNotExist(rmErr) {
				r.Log.WithError(rmErr).Warnf("Could not remove partial output %s", out)
			}
			res.Outcome = types.OutcomeSkipped
			return r.finish(res, start)
		}
		if ghostscript.IsTimeout(err) {
			res.Outcome = types.OutcomeTimedOut
		}
		return r.fail(res, src, out, start, err)
	}

	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		return r.fail(res, src, out, start, fmt.Errorf("ghostscript exited cleanly but produced no output for %s", rel))
	}

	if err := r.postProcess(out, rel); err != nil {
		return r.fail(res, src, out, start, err)
	}

	if !r.Cfg.KeepSource {
		if err := os.Remove(src); err != nil {
			// The output is good; a stuck source is reported but does not
			// reclassify the conversion.
			r.Log.WithError(err).Warnf("Could not delete converted source %s", rel)
		}
	}

	fmt.Fprintf(r.Out, "converted: %s (%d pages, %s)\n", rel, pages, time.Since(start).Round(time.Second))
	res.Outcome = types.OutcomeConverted
	return r.finish(res, start)
}

// postProcess strips annotations, stamps the archival metadata, and
// validates the converted file.
func (r *Runner) postProcess(out, rel string) error {
	if err := r.Post.StripAnnotations(out); err != nil {
		return err
	}

	meta := postprocess.Metadata{
		ConformanceLevel: r.Conformance,
		ConvertedAt:      time.Now(),
		Converter:        r.Converter,
		SourceDocument:   filepath.ToSlash(rel),
	}
	if err := r.Post.StampMetadata(out, meta); err != nil {
		return err
	}

	return r.Post.Validate(out)
}

// fail removes any partial output, moves the source into the error tree at
// its relative path, and records the failure.
func (r *Runner) fail(res types.FileResult, src, out string, start time.Time, cause error) types.FileResult {
	if res.Outcome == "" {
		res.Outcome = types.OutcomeFailed
	}
	res.Err = cause.Error()

	r.Log.WithError(cause).Errorf("Conversion failed for %s", res.RelPath)
	fmt.Fprintf(r.Out, "failed:  %s (%v)\n", res.RelPath, cause)

	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		r.Log.WithError(err).Warnf("Could not remove partial output %s", out)
	}

	dest, err := r.moveToErrorTree(src, res.RelPath)
	if err != nil {
		r.Log.WithError(err).Errorf("Could not move %s to error tree", res.RelPath)
	} else {
		r.Log.Warnf("File moved to error directory: %s", dest)
	}

	return r.finish(res, start)
}

// moveToErrorTree relocates a failed source under the error root, preserving
// its relative path. An existing file at the destination is never
// overwritten; the name gets a numeric suffix instead.
func (r *Runner) moveToErrorTree(src, rel string) (string, error) {
	dest := filepath.Join(r.Cfg.ErrorDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating error directory: %w", err)
	}

	dest = uniquePath(dest)
	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (r *Runner) finish(res types.FileResult, start time.Time) types.FileResult {
	res.Duration = time.Since(start)
	if r.OnResult != nil {
		r.OnResult(res)
	}
	return res
}

// sizeTimeout computes the per-file deadline: base + perPage*pages, capped
// at max. Zero config fields fall back to the package defaults. A failed
// page probe (pages <= 0) grants the base alone.
func sizeTimeout(tc types.TimeoutConfig, pages int) time.Duration {
	base, perPage, max := tc.Base, tc.PerPage, tc.Max
	if base <= 0 {
		base = defaultTimeoutBase
	}
	if perPage <= 0 {
		perPage = defaultTimeoutPerPage
	}
	if max <= 0 {
		max = defaultTimeoutMax
	}

	if pages <= 0 {
		return base
	}
	d := base + time.Duration(pages)*perPage
	if d > max {
		return max
	}
	return d
}

// uniquePath returns path if nothing exists there, otherwise the first
// "name-N.ext" variant that is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := path[:len(path)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// moveFile renames src to dest, falling back to copy-and-delete when the
// rename crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dest, carrying over the source's file mode.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("moving %s: %w", src, err)
	}

	fi, err := in.Stat()
	if err != nil {
		in.Close()
		return fmt.Errorf("moving %s: %w", src, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		in.Close()
		return fmt.Errorf("moving %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		in.Close()
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("moving %s: %w", src, err)
	}
	in.Close()
	if err := out.Close(); err != nil {
		return fmt.Errorf("moving %s: %w", src, err)
	}
	return nil
}
