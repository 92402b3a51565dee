package types

import "time"

// GhostscriptConfig holds settings for the external PDF/A conversion engine.
type GhostscriptConfig struct {
	// Binary is an explicit path to the Ghostscript executable. When empty,
	// the usual binary names are probed on PATH (gs, gswin64c, gswin32c).
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`

	// PDFAPart selects the PDF/A part to target: 1, 2, or 3 (default 2).
	PDFAPart int `json:"pdfa_part" yaml:"pdfa_part"`
}

// TimeoutConfig holds the per-file timeout sizing parameters. The effective
// deadline for a file is Base + PerPage*pages, capped at Max. When the page
// probe fails, Base alone applies.
type TimeoutConfig struct {
	// Base is the floor timeout granted to every conversion (default 60s).
	Base time.Duration `json:"base" yaml:"base"`

	// PerPage is the additional allowance per page (default 10s).
	PerPage time.Duration `json:"per_page" yaml:"per_page"`

	// Max caps the effective timeout regardless of page count (default 30m).
	Max time.Duration `json:"max" yaml:"max"`
}

// PipelineConfig holds settings for the batch conversion pipeline.
type PipelineConfig struct {
	// InputDir is the root of the tree to convert (default "PDFA_IN").
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives converted PDF/A files, mirroring the input tree
	// (default "PDFA_OUT").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ErrorDir receives sources that failed conversion, mirroring the input
	// tree (default "PDF_Not_Converted").
	ErrorDir string `json:"error_dir" yaml:"error_dir"`

	// DryRun reports planned actions without invoking Ghostscript or
	// touching any files.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// SkipExisting classifies a file as skipped when its output path
	// already exists.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// KeepSource leaves successfully converted sources in place instead of
	// deleting them.
	KeepSource bool `json:"keep_source" yaml:"keep_source"`

	Timeout TimeoutConfig `json:"timeout" yaml:"timeout"`
}

// LedgerConfig holds settings for the SQLite run ledger.
type LedgerConfig struct {
	// Disabled turns off run-history recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`

	// Dir is the directory holding the ledger database (default "ledger").
	Dir string `json:"dir" yaml:"dir"`
}

// ArchiveConfig groups all stage configurations for the converter.
type ArchiveConfig struct {
	Ghostscript GhostscriptConfig `json:"ghostscript" yaml:"ghostscript"`
	Pipeline    PipelineConfig    `json:"pipeline" yaml:"pipeline"`
	Ledger      LedgerConfig      `json:"ledger" yaml:"ledger"`
}
