// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfa-engine/internal/ghostscript"
	"github.com/pdiddy/pdfa-engine/internal/ledger"
	"github.com/pdiddy/pdfa-engine/internal/logging"
	"github.com/pdiddy/pdfa-engine/internal/pipeline"
	"github.com/pdiddy/pdfa-engine/internal/postprocess"
	"github.com/pdiddy/pdfa-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Batch-convert a tree of PDFs to PDF/A",
	Long: `Convert walks the input tree, converts every PDF to PDF/A via
Ghostscript under a page-sized timeout, strips annotations, stamps the
archival metadata, and validates the result.

Successfully converted sources are deleted (unless --keep-source); failed
sources move to the error tree at the same relative path. Directories left
empty in the input tree are removed after the run.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("input", "", "input tree root (default PDFA_IN)")
	convertCmd.Flags().String("output", "", "output tree root (default PDFA_OUT)")
	convertCmd.Flags().String("errored", "", "error tree root for failed sources (default PDF_Not_Converted)")
	convertCmd.Flags().String("gs", "", "path to the Ghostscript binary (default: probe PATH)")
	convertCmd.Flags().Int("pdfa-part", 0, "PDF/A part to target: 1, 2, or 3 (default 2)")
	convertCmd.Flags().Duration("timeout", 0, "base per-file timeout (default 60s)")
	convertCmd.Flags().Duration("timeout-per-page", 0, "additional timeout per page (default 10s)")
	convertCmd.Flags().Duration("timeout-max", 0, "timeout ceiling per file (default 30m)")
	convertCmd.Flags().Bool("dry-run", false, "report planned conversions without touching files")
	convertCmd.Flags().Bool("skip-existing", false, "skip files whose output already exists")
	convertCmd.Flags().Bool("keep-source", false, "do not delete sources after successful conversion")
	convertCmd.Flags().Bool("force", false, "clear non-empty output/error trees without prompting")
	convertCmd.Flags().Bool("no-ledger", false, "disable run-history recording")
	convertCmd.Flags().String("ledger-dir", "", "ledger database directory (default ledger)")
	convertCmd.Flags().String("export", "", "write a YAML run report to this path after the run")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig(cmd)

	verbose, _ := cmd.Flags().GetBool("verbose")
	logFile, _ := cmd.Flags().GetString("log-file")
	log, closer, err := logging.New(verbose, logFile)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	log.Infof("Starting PDF/A conversion, pdfa-engine %s", version)

	engine, err := ghostscript.New(cfg.Ghostscript)
	if err != nil {
		return err
	}

	if !cfg.Pipeline.DryRun {
		force, _ := cmd.Flags().GetBool("force")
		confirm := pipeline.StdinConfirm(os.Stdin, os.Stdout)
		if err := pipeline.PrepareWorkDirs(cfg.Pipeline.OutputDir, cfg.Pipeline.ErrorDir, force, confirm, log); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pdfaPart := cfg.Ghostscript.PDFAPart
	if pdfaPart == 0 {
		pdfaPart = 2
	}

	runner := &pipeline.Runner{
		Cfg:         cfg.Pipeline,
		Engine:      engine,
		Post:        postprocess.NewProcessor(),
		Log:         log,
		Out:         os.Stdout,
		Converter:   "pdfa-engine/" + version,
		Conformance: postprocess.ConformanceLabel(pdfaPart),
	}

	var (
		store *ledger.Store
		runID int64
	)
	if ledgerEnabled(cfg) {
		store, err = ledger.Open(cfg.Ledger.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err = store.BeginRun(ctx, cfg.Pipeline.InputDir)
		if err != nil {
			return err
		}
		runner.OnResult = func(r types.FileResult) {
			if err := store.RecordFile(context.Background(), runID, r); err != nil {
				log.WithError(err).Warn("Could not record file result in ledger")
			}
		}
	}

	start := time.Now()
	stats, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.FinishRun(context.Background(), runID,
			stats.Converted, stats.Skipped, stats.Failed, stats.TimedOut); err != nil {
			log.WithError(err).Warn("Could not finalize ledger run")
		}
		if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
			if err := store.ExportYAML(context.Background(), runID, exportPath); err != nil {
				return err
			}
			log.Infof("Run report written to %s", exportPath)
		}
	}

	log.Infof("Batch conversion process completed in %s", time.Since(start).Round(time.Second))

	if stats.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", stats.Failed+stats.TimedOut)
	}
	return nil
}

// ledgerEnabled reports whether the run should be recorded. Dry runs touch
// no files and stay out of the run history.
func ledgerEnabled(cfg types.ArchiveConfig) bool {
	return !cfg.Ledger.Disabled && !cfg.Pipeline.DryRun
}

// convertConfig assembles the run configuration: defaults, then config
// file/env via viper, then explicit flags.
func convertConfig(cmd *cobra.Command) types.ArchiveConfig {
	cfg := types.ArchiveConfig{
		Pipeline: types.PipelineConfig{
			InputDir:  "PDFA_IN",
			OutputDir: "PDFA_OUT",
			ErrorDir:  "PDF_Not_Converted",
		},
		Ledger: types.LedgerConfig{Dir: "ledger"},
	}

	applyString := func(target *string, viperKey, flag string) {
		if v := viper.GetString(viperKey); v != "" {
			*target = v
		}
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	applyDuration := func(target *time.Duration, viperKey, flag string) {
		if v := viper.GetDuration(viperKey); v > 0 {
			*target = v
		}
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetDuration(flag)
		}
	}

	applyString(&cfg.Pipeline.InputDir, "pipeline.input_dir", "input")
	applyString(&cfg.Pipeline.OutputDir, "pipeline.output_dir", "output")
	applyString(&cfg.Pipeline.ErrorDir, "pipeline.error_dir", "errored")
	applyString(&cfg.Ghostscript.Binary, "ghostscript.binary", "gs")
	applyString(&cfg.Ledger.Dir, "ledger.dir", "ledger-dir")

	applyDuration(&cfg.Pipeline.Timeout.Base, "pipeline.timeout.base", "timeout")
	applyDuration(&cfg.Pipeline.Timeout.PerPage, "pipeline.timeout.per_page", "timeout-per-page")
	applyDuration(&cfg.Pipeline.Timeout.Max, "pipeline.timeout.max", "timeout-max")

	if v := viper.GetInt("ghostscript.pdfa_part"); v != 0 {
		cfg.Ghostscript.PDFAPart = v
	}
	if cmd.Flags().Changed("pdfa-part") {
		cfg.Ghostscript.PDFAPart, _ = cmd.Flags().GetInt("pdfa-part")
	}

	cfg.Pipeline.DryRun, _ = cmd.Flags().GetBool("dry-run")
	cfg.Pipeline.SkipExisting, _ = cmd.Flags().GetBool("skip-existing")
	cfg.Pipeline.KeepSource, _ = cmd.Flags().GetBool("keep-source")

	cfg.Ledger.Disabled = viper.GetBool("ledger.disabled")
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		cfg.Ledger.Disabled = true
	}

	return cfg
}
