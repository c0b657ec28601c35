package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/treeline-hq/treeline/modules/org/domain/events"
	"github.com/treeline-hq/treeline/modules/org/infrastructure/persistence"
	"github.com/treeline-hq/treeline/modules/org/services"
	"github.com/treeline-hq/treeline/pkg/configuration"
	"github.com/treeline-hq/treeline/pkg/eventbus"
)

type applyOptions struct {
	planPath     string
	snapshotPath string
	outputPath   string
}

func newApplyCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an import plan's replacements to a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts)
		},
	}

	cmd.Flags().StringVar(&opts.planPath, "plan", "", "Import plan JSON (required)")
	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "Portfolio snapshot JSON (required)")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Output snapshot (default: overwrite --snapshot)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runApply(opts applyOptions) error {
	var plan importPlanV1
	if err := readJSONFile(opts.planPath, &plan); err != nil {
		return err
	}
	if err := plan.validate(); err != nil {
		return err
	}

	repo := persistence.NewSnapshotRepository()
	portfolio, err := repo.Load(opts.snapshotPath)
	if err != nil {
		return withCode(exitUsage, err)
	}

	log := configuration.Use().Logger()
	bus := eventbus.NewEventPublisher(log)
	bus.Subscribe(func(e *events.TeamMembersReplaced) {
		log.Infof("replaced members of team %q (%d members)", e.TeamName, e.Members)
	})

	svc := services.NewTeamReplacementService(bus)
	if err := svc.Apply(portfolio, plan.Replacements); err != nil {
		return withCode(exitValidation, err)
	}

	outPath := opts.outputPath
	if strings.TrimSpace(outPath) == "" {
		outPath = opts.snapshotPath
	}
	if err := repo.Save(outPath, portfolio); err != nil {
		return withCode(exitIO, err)
	}

	type summary struct {
		Status   string `json:"status"`
		RunID    string `json:"run_id"`
		Replaced int    `json:"replaced"`
		Output   string `json:"output"`
	}
	return writeJSONLine(summary{
		Status:   "ok",
		RunID:    plan.RunID.String(),
		Replaced: len(plan.Replacements),
		Output:   outPath,
	})
}
