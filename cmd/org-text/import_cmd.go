package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
	"github.com/treeline-hq/treeline/modules/org/infrastructure/persistence"
	"github.com/treeline-hq/treeline/modules/org/infrastructure/spreadsheet"
	"github.com/treeline-hq/treeline/modules/org/services"
	"github.com/treeline-hq/treeline/pkg/configuration"
)

type importOptions struct {
	csvPath      string
	xlsxPath     string
	snapshotPath string
	outputDir    string
	maxRows      int
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Analyse a CSV/XLSX extract against a snapshot and emit a replacement plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts)
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Delimited extract (Portfolio,Group,Team,Role,Location,Vendor,Name)")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "XLSX workbook; first sheet is read in the same column layout")
	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "Portfolio snapshot JSON (required)")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "Output directory for report and plan files (required)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Max data rows accepted (default: ORG_IMPORT_MAX_ROWS)")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runImport(opts importOptions) error {
	hasCSV := strings.TrimSpace(opts.csvPath) != ""
	hasXLSX := strings.TrimSpace(opts.xlsxPath) != ""
	if hasCSV == hasXLSX {
		return withCode(exitUsage, fmt.Errorf("exactly one of --csv or --xlsx is required"))
	}

	var text, source string
	if hasCSV {
		var err error
		if text, err = readTextFile(opts.csvPath); err != nil {
			return err
		}
		source = opts.csvPath
	} else {
		var err error
		if text, err = spreadsheet.ReadDelimitedRows(opts.xlsxPath); err != nil {
			return withCode(exitUsage, err)
		}
		source = opts.xlsxPath
	}

	maxRows := opts.maxRows
	if maxRows <= 0 {
		maxRows = configuration.Use().OrgImportMaxRows
	}
	rows, short := services.ParseImportCSV(text)
	if n := len(rows) + len(short); n > maxRows {
		return withCode(exitValidation, fmt.Errorf("extract has %d rows, max is %d", n, maxRows))
	}

	repo := persistence.NewSnapshotRepository()
	portfolio, err := repo.Load(opts.snapshotPath)
	if err != nil {
		return withCode(exitUsage, err)
	}

	analysis := services.AnalyseImport(text, portfolio, orgtree.NewUUIDGenerator())

	runID := uuid.New()
	now := time.Now().UTC()
	reportPath := filepath.Join(opts.outputDir, "org_import_report.json")
	planPath := filepath.Join(opts.outputDir, "org_import_plan.json")

	if err := writeJSONFile(reportPath, importReportV1{
		SchemaVersion: importReportSchemaVersion,
		RunID:         runID,
		CreatedAt:     now,
		Source:        source,
		Report:        analysis.Report,
	}); err != nil {
		return err
	}
	if err := writeJSONFile(planPath, importPlanV1{
		SchemaVersion: importPlanSchemaVersion,
		RunID:         runID,
		CreatedAt:     now,
		PortfolioID:   portfolio.ID,
		Replacements:  analysis.Replacements,
	}); err != nil {
		return err
	}

	type summary struct {
		Status         string `json:"status"`
		RunID          string `json:"run_id"`
		Matched        int    `json:"matched"`
		Unmatched      int    `json:"unmatched"`
		MembersAdded   int    `json:"members_added"`
		MembersRemoved int    `json:"members_removed"`
		RowsSkipped    int    `json:"rows_skipped"`
		Report         string `json:"report"`
		Plan           string `json:"plan"`
	}
	return writeJSONLine(summary{
		Status:         "ok",
		RunID:          runID.String(),
		Matched:        analysis.Report.MatchedCount,
		Unmatched:      analysis.Report.UnmatchedCount,
		MembersAdded:   analysis.Report.MembersAdded,
		MembersRemoved: analysis.Report.MembersRemoved,
		RowsSkipped:    analysis.Report.RowsSkipped,
		Report:         reportPath,
		Plan:           planPath,
	})
}
