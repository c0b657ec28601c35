package services

import (
	"github.com/google/uuid"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

// PersonChange is a human-readable view of one member being added to or
// removed from a team, as shown in the review UI.
type PersonChange struct {
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Vendor   string `json:"vendor,omitempty"`
}

// MatchedTeam records which existing team a CSV team-group was matched to
// and why.
type MatchedTeam struct {
	CsvGroup         string `json:"csvGroup"`
	CsvTeam          string `json:"csvTeam"`
	Division         string `json:"division,omitempty"`
	Group            string `json:"group"`
	Team             string `json:"team"`
	Rationale        string `json:"rationale"`
	ManagerConfirmed bool   `json:"managerConfirmed"`
}

// TeamChange is a matched team plus the member changes the import would
// make.
type TeamChange struct {
	MatchedTeam
	Added   []PersonChange `json:"added,omitempty"`
	Removed []PersonChange `json:"removed,omitempty"`
}

// SkippedRow is a single source row that the analysis could not or chose
// not to import.
type SkippedRow struct {
	Line   int    `json:"line"`
	Row    string `json:"row"`
	Reason string `json:"reason"`
}

// UnmatchedTeam is a CSV team-group that found no acceptable existing team.
// Suggestions carry the closest existing team names for the review UI.
type UnmatchedTeam struct {
	CsvGroup    string   `json:"csvGroup"`
	CsvTeam     string   `json:"csvTeam"`
	RowCount    int      `json:"rowCount"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ImportReport aggregates the outcome of one analysis run. Totals are plain
// sums over the per-team-group results.
type ImportReport struct {
	Matched   []TeamChange    `json:"matched,omitempty"`
	Unmatched []UnmatchedTeam `json:"unmatched,omitempty"`
	Skipped   []SkippedRow    `json:"skipped,omitempty"`

	MatchedCount   int `json:"matchedCount"`
	UnmatchedCount int `json:"unmatchedCount"`
	MembersAdded   int `json:"membersAdded"`
	MembersRemoved int `json:"membersRemoved"`
	RowsSkipped    int `json:"rowsSkipped"`
}

// TeamMemberReplacement is the instruction consumed by the apply layer: a
// full replacement of one team's member list, keyed by stable identifiers.
// Replacing rather than patching keeps re-runs of the same import
// idempotent.
type TeamMemberReplacement struct {
	PortfolioID uuid.UUID        `json:"portfolioId"`
	DivisionID  *uuid.UUID       `json:"divisionId,omitempty"`
	GroupID     uuid.UUID        `json:"groupId"`
	TeamID      uuid.UUID        `json:"teamId"`
	Members     []orgtree.Person `json:"members"`
}

// ImportAnalysis is the full result of AnalyseImport: advisory until a
// caller applies the replacements.
type ImportAnalysis struct {
	Report       ImportReport            `json:"report"`
	Replacements []TeamMemberReplacement `json:"replacements"`
}

func personChange(p orgtree.Person) PersonChange {
	return PersonChange{
		Name:     p.Name,
		Role:     p.Role.Label(),
		Type:     string(p.Type),
		Location: string(p.Location),
		Vendor:   p.Vendor,
	}
}
