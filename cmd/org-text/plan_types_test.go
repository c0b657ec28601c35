package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/treeline-hq/treeline/modules/org/services"
)

func validPlan() importPlanV1 {
	portfolioID := uuid.New()
	return importPlanV1{
		SchemaVersion: importPlanSchemaVersion,
		RunID:         uuid.New(),
		CreatedAt:     time.Now().UTC(),
		PortfolioID:   portfolioID,
		Replacements: []services.TeamMemberReplacement{{
			PortfolioID: portfolioID,
			GroupID:     uuid.New(),
			TeamID:      uuid.New(),
		}},
	}
}

func TestImportPlanValidate(t *testing.T) {
	plan := validPlan()
	require.NoError(t, plan.validate())

	bad := validPlan()
	bad.SchemaVersion = "org_import_plan.v9"
	err := bad.validate()
	require.Error(t, err)
	require.Equal(t, exitValidation, exitCode(err))
	require.Contains(t, err.Error(), "unsupported plan schema")

	bad = validPlan()
	bad.PortfolioID = uuid.Nil
	require.Error(t, bad.validate())

	bad = validPlan()
	bad.Replacements[0].PortfolioID = uuid.New()
	err = bad.validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "targets portfolio")

	bad = validPlan()
	bad.Replacements[0].TeamID = uuid.Nil
	err = bad.validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing group or team id")
}
