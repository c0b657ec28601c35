package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
	"github.com/treeline-hq/treeline/modules/org/infrastructure/persistence"
	"github.com/treeline-hq/treeline/modules/org/services"
)

type decodeOptions struct {
	inputPath  string
	outputPath string
}

func newDecodeCmd() *cobra.Command {
	var opts decodeOptions

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Parse a text document back into a portfolio snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputPath, "input", "", "Structured text document (required)")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Output snapshot JSON (required)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runDecode(opts decodeOptions) error {
	text, err := readTextFile(opts.inputPath)
	if err != nil {
		return err
	}

	result := services.DecodeOrgDoc(text, orgtree.NewUUIDGenerator())
	if len(result.Errors) > 0 {
		for _, pe := range result.Errors {
			fmt.Fprintln(os.Stderr, pe.Error())
		}
		return withCode(exitValidation, fmt.Errorf("%d parse error(s) in %s", len(result.Errors), opts.inputPath))
	}

	repo := persistence.NewSnapshotRepository()
	if err := repo.Save(opts.outputPath, result.Portfolio); err != nil {
		return withCode(exitIO, err)
	}

	teams := 0
	groups := len(result.Portfolio.Groups)
	for _, g := range result.Portfolio.Groups {
		teams += len(g.Teams)
	}
	for _, d := range result.Portfolio.Divisions {
		groups += len(d.Groups)
		for _, g := range d.Groups {
			teams += len(g.Teams)
		}
	}

	type summary struct {
		Status    string `json:"status"`
		Portfolio string `json:"portfolio"`
		Divisions int    `json:"divisions"`
		Groups    int    `json:"groups"`
		Teams     int    `json:"teams"`
		Output    string `json:"output"`
	}
	return writeJSONLine(summary{
		Status:    "ok",
		Portfolio: result.Portfolio.Name,
		Divisions: len(result.Portfolio.Divisions),
		Groups:    groups,
		Teams:     teams,
		Output:    opts.outputPath,
	})
}
