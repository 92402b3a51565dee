// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfa-engine/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Query the history of past conversion runs",
	Long: `Ledger reads the SQLite run history recorded by convert. Use
subcommands to list recent runs, show the files of one run, or export a
run report as YAML.`,
}

var ledgerRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent conversion runs",
	RunE:  runLedgerRuns,
}

var ledgerFilesCmd = &cobra.Command{
	Use:   "files RUN_ID",
	Short: "Show the per-file outcomes of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerFiles,
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export RUN_ID",
	Short: "Write a YAML report for one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerExport,
}

func init() {
	ledgerCmd.PersistentFlags().String("ledger-dir", "", "ledger database directory (default ledger)")
	ledgerRunsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	ledgerRunsCmd.Flags().Bool("json", false, "output as JSON")
	ledgerFilesCmd.Flags().Bool("json", false, "output as JSON")
	ledgerExportCmd.Flags().String("out", "run-report.yaml", "report output path")

	ledgerCmd.AddCommand(ledgerRunsCmd, ledgerFilesCmd, ledgerExportCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	dir := viper.GetString("ledger.dir")
	if dir == "" {
		dir = "ledger"
	}
	if cmd.Flags().Changed("ledger-dir") {
		dir, _ = cmd.Flags().GetString("ledger-dir")
	}
	return ledger.Open(dir)
}

func runLedgerRuns(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-5s  %-20s  %-20s  %-9s  %-7s  %-6s  %-9s  %s\n",
		"ID", "Started", "Finished", "Converted", "Skipped", "Failed", "Timed out", "Input")
	for _, r := range runs {
		fmt.Printf("%-5d  %-20s  %-20s  %-9d  %-7d  %-6d  %-9d  %s\n",
			r.ID, r.StartedAt, r.FinishedAt, r.Converted, r.Skipped, r.Failed, r.TimedOut, r.InputDir)
	}
	return nil
}

func runLedgerFiles(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := store.FilesForRun(context.Background(), runID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	if len(files) == 0 {
		fmt.Printf("No files recorded for run %d.\n", runID)
		return nil
	}

	fmt.Printf("%-10s  %-6s  %-10s  %s\n", "Outcome", "Pages", "Duration", "File")
	for _, f := range files {
		fmt.Printf("%-10s  %-6d  %-10s  %s\n", f.Outcome, f.Pages, f.Duration, f.RelPath)
		if f.Err != "" {
			fmt.Printf("%22s %s\n", "error:", f.Err)
		}
	}
	return nil
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("out")
	if err := store.ExportYAML(context.Background(), runID, out); err != nil {
		return err
	}
	fmt.Printf("Run %d exported to %s\n", runID, out)
	return nil
}
