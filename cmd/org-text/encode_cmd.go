package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treeline-hq/treeline/modules/org/infrastructure/persistence"
	"github.com/treeline-hq/treeline/modules/org/services"
)

type encodeOptions struct {
	snapshotPath string
	outputPath   string
}

func newEncodeCmd() *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Render a portfolio snapshot as an editable text document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts)
		},
	}

	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "Portfolio snapshot JSON (required)")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Output text file (default: stdout)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runEncode(opts encodeOptions) error {
	repo := persistence.NewSnapshotRepository()
	portfolio, err := repo.Load(opts.snapshotPath)
	if err != nil {
		return withCode(exitUsage, err)
	}

	text := services.EncodeOrgDoc(portfolio)
	if strings.TrimSpace(opts.outputPath) == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(opts.outputPath, []byte(text), 0o644); err != nil {
		return withCode(exitIO, fmt.Errorf("write %s: %w", opts.outputPath, err))
	}

	type summary struct {
		Status string `json:"status"`
		Output string `json:"output"`
		Lines  int    `json:"lines"`
	}
	return writeJSONLine(summary{
		Status: "ok",
		Output: opts.outputPath,
		Lines:  strings.Count(text, "\n"),
	})
}
