// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfa-engine CLI, a batch
// PDF-to-PDF/A converter built around an external Ghostscript engine.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfa-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfa-engine",
	Short: "Batch conversion of PDF files to PDF/A archival format",
	Long: `pdfa-engine converts trees of PDF files to PDF/A by driving Ghostscript
per file, then post-processes each result: annotations are stripped and four
archival metadata properties are stamped. Successfully converted sources are
deleted; failures are moved to an error tree that mirrors the input layout.

The convert subcommand runs the batch pipeline; inspect examines a single
file; ledger queries the history of past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfa-engine.yaml or ~/.config/pdfa-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "pdf_conversion.log", "conversion log file (empty disables file logging)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfa-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfa-engine"))
		}
	}

	viper.SetEnvPrefix("PDFA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
