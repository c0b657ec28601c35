package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treeline-hq/treeline/modules/org/services"
)

const (
	importReportSchemaVersion = "org_import_report.v1"
	importPlanSchemaVersion   = "org_import_plan.v1"
)

type importReportV1 struct {
	SchemaVersion string                `json:"schema_version"`
	RunID         uuid.UUID             `json:"run_id"`
	CreatedAt     time.Time             `json:"created_at"`
	Source        string                `json:"source"`
	Report        services.ImportReport `json:"report"`
}

// importPlanV1 is the replacement plan artifact: the instructions the apply
// command feeds to the apply layer, plus enough metadata to trace the run
// that produced them.
type importPlanV1 struct {
	SchemaVersion string                           `json:"schema_version"`
	RunID         uuid.UUID                        `json:"run_id"`
	CreatedAt     time.Time                        `json:"created_at"`
	PortfolioID   uuid.UUID                        `json:"portfolio_id"`
	Replacements  []services.TeamMemberReplacement `json:"replacements"`
}

func (p *importPlanV1) validate() error {
	if p.SchemaVersion != importPlanSchemaVersion {
		return withCode(exitValidation, fmt.Errorf("unsupported plan schema %q (want %s)", p.SchemaVersion, importPlanSchemaVersion))
	}
	if p.PortfolioID == uuid.Nil {
		return withCode(exitValidation, fmt.Errorf("plan has no portfolio_id"))
	}
	for i, r := range p.Replacements {
		if r.PortfolioID != p.PortfolioID {
			return withCode(exitValidation, fmt.Errorf("replacement %d targets portfolio %s, plan is for %s", i, r.PortfolioID, p.PortfolioID))
		}
		if r.GroupID == uuid.Nil || r.TeamID == uuid.Nil {
			return withCode(exitValidation, fmt.Errorf("replacement %d is missing group or team id", i))
		}
	}
	return nil
}
