// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfa-engine/pkg/types"
)

// RunReport is the exported view of one run with its file outcomes.
type RunReport struct {
	Run   Run                `json:"run" yaml:"run"`
	Files []types.FileResult `json:"files" yaml:"files"`
}

// ExportYAML writes a report for the given run to path.
func (s *Store) ExportYAML(ctx context.Context, runID int64, path string) error {
	report, err := s.report(ctx, runID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling YAML report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) report(ctx context.Context, runID int64) (*RunReport, error) {
	run, err := s.RunByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	files, err := s.FilesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &RunReport{Run: run, Files: files}, nil
}
