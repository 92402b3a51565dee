package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfa-engine/internal/postprocess"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show page count and stamped properties of a PDF",
	Long: `Inspect reads a single PDF and reports its page count and document
properties, including the archival metadata stamped by a previous
conversion.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the JSON shape of an inspect result.
type inspectReport struct {
	Path       string   `json:"path"`
	Pages      int      `json:"pages"`
	Properties []string `json:"properties"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	post := postprocess.NewProcessor()

	pages, err := post.PageCount(path)
	if err != nil {
		return err
	}
	props, err := post.Properties(path)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inspectReport{Path: path, Pages: pages, Properties: props})
	}

	fmt.Printf("File:  %s\n", path)
	fmt.Printf("Pages: %d\n", pages)
	if len(props) == 0 {
		fmt.Println("Properties: none")
		return nil
	}
	fmt.Println("Properties:")
	for _, p := range props {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
