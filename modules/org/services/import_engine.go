package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

// matchThreshold is the minimum acceptable match score for a CSV team-group.
// Rejection is strictly below the threshold: a score of exactly 0.45 is a
// match.
const matchThreshold = 0.45

const (
	teamNameWeight     = 0.55
	contextWeight      = 0.30
	managerMatchBonus  = 0.15
	maxTeamSuggestions = 3
)

func meetsMatchThreshold(score float64) bool {
	return score >= matchThreshold
}

type teamGroupKey struct {
	Group string
	Team  string
}

// csvTeamGroup is the set of CSV rows sharing a (group, team) key, treated
// as one matchable unit. Manager rows feed the confirmation bonus; engineer
// rows become imported members.
type csvTeamGroup struct {
	key      teamGroupKey
	rows     []CsvRow
	managers []CsvRow
}

// groupCsvRows buckets rows by (csvGroup, teamName) preserving the order in
// which each key first appears; claiming later walks groups in this order.
func groupCsvRows(rows []CsvRow) []*csvTeamGroup {
	byKey := map[teamGroupKey]*csvTeamGroup{}
	var out []*csvTeamGroup
	for _, row := range rows {
		key := teamGroupKey{Group: row.Group, Team: row.TeamName}
		tg, ok := byKey[key]
		if !ok {
			tg = &csvTeamGroup{key: key}
			byKey[key] = tg
			out = append(out, tg)
		}
		tg.rows = append(tg.rows, row)
		if role, ok := orgtree.RoleFromLabel(row.Role); ok && role == orgtree.RoleEngineeringManager {
			tg.managers = append(tg.managers, row)
		}
	}
	return out
}

// teamCandidate is one existing team with its full context, flattened out of
// the portfolio for all-pairs scoring.
type teamCandidate struct {
	portfolioID  uuid.UUID
	divisionID   *uuid.UUID
	divisionName string
	groupID      uuid.UUID
	groupName    string
	team         *orgtree.Team
	managerName  string
}

func enumerateTeams(p *orgtree.Portfolio) []teamCandidate {
	var out []teamCandidate
	appendGroup := func(g *orgtree.Group, divisionID *uuid.UUID, divisionName string) {
		managerName := ""
		if g.Manager != nil {
			managerName = g.Manager.Name
		}
		for i := range g.Teams {
			out = append(out, teamCandidate{
				portfolioID:  p.ID,
				divisionID:   divisionID,
				divisionName: divisionName,
				groupID:      g.ID,
				groupName:    g.Name,
				team:         &g.Teams[i],
				managerName:  managerName,
			})
		}
	}
	for i := range p.Divisions {
		d := &p.Divisions[i]
		for j := range d.Groups {
			id := d.ID
			appendGroup(&d.Groups[j], &id, d.Name)
		}
	}
	for i := range p.Groups {
		appendGroup(&p.Groups[i], nil, "")
	}
	return out
}

type candidateScore struct {
	total            float64
	managerConfirmed bool
	rationale        string
}

// scoreCandidate combines weighted team-name and context similarity with
// the manager-confirmation bonus. The bonus is additive, so totals can
// exceed 1.0.
func scoreCandidate(tg *csvTeamGroup, c teamCandidate) candidateScore {
	teamSim := simScore(tg.key.Team, c.team.Name)
	var contextSim float64
	if c.divisionName != "" {
		contextSim = max(simScore(tg.key.Group, c.divisionName), simScore(tg.key.Group, c.groupName))
	} else {
		contextSim = simScore(tg.key.Group, c.groupName)
	}

	confirmed := false
	if c.managerName != "" {
		for _, m := range tg.managers {
			if namesMatch(m.Name, c.managerName) {
				confirmed = true
				break
			}
		}
	}

	total := teamSim*teamNameWeight + contextSim*contextWeight
	rationale := fmt.Sprintf("team name similarity %.2f, context similarity %.2f", teamSim, contextSim)
	if confirmed {
		total += managerMatchBonus
		rationale += ", manager confirmed"
	}
	rationale += fmt.Sprintf("; score %.2f", total)
	return candidateScore{total: total, managerConfirmed: confirmed, rationale: rationale}
}

// AnalyseImport parses the delimited extract, fuzzily matches each CSV
// team-group to an existing team in the portfolio and computes a
// non-destructive replacement plan. The portfolio is never mutated; the
// returned replacements are advisory until applied. Matching is greedy in
// input order with no backtracking: a team claimed by an earlier CSV group
// is unavailable to later ones, which can be globally suboptimal under
// contention and is an accepted trade-off.
func AnalyseImport(csvText string, p *orgtree.Portfolio, ids orgtree.IDGenerator) ImportAnalysis {
	rows, skipped := ParseImportCSV(csvText)
	groups := groupCsvRows(rows)
	candidates := enumerateTeams(p)

	report := ImportReport{Skipped: skipped}
	var replacements []TeamMemberReplacement

	claimed := map[uuid.UUID]bool{}
	for _, tg := range groups {
		bestIdx := -1
		var best candidateScore
		for i, c := range candidates {
			if claimed[c.team.ID] {
				continue
			}
			// Strictly-greater keeps the earliest candidate on ties.
			if s := scoreCandidate(tg, c); bestIdx < 0 || s.total > best.total {
				bestIdx, best = i, s
			}
		}

		if bestIdx < 0 || !meetsMatchThreshold(best.total) {
			reason := "no candidate teams exist"
			if bestIdx >= 0 {
				reason = fmt.Sprintf("best candidate %q scored %.2f, below threshold %.2f",
					candidates[bestIdx].team.Name, best.total, matchThreshold)
			}
			report.Unmatched = append(report.Unmatched, UnmatchedTeam{
				CsvGroup:    tg.key.Group,
				CsvTeam:     tg.key.Team,
				RowCount:    len(tg.rows),
				Reason:      reason,
				Suggestions: suggestTeamNames(tg.key.Team, candidates),
			})
			for _, row := range tg.rows {
				report.Skipped = append(report.Skipped, SkippedRow{
					Line:   row.Line,
					Row:    rawCsvRow(row),
					Reason: reason,
				})
			}
			continue
		}

		winner := candidates[bestIdx]
		claimed[winner.team.ID] = true

		change, replacement := buildTeamChange(tg, winner, best, ids, &report)
		report.Matched = append(report.Matched, change)
		replacements = append(replacements, replacement)
	}

	report.MatchedCount = len(report.Matched)
	report.UnmatchedCount = len(report.Unmatched)
	for _, m := range report.Matched {
		report.MembersAdded += len(m.Added)
		report.MembersRemoved += len(m.Removed)
	}
	report.RowsSkipped = len(report.Skipped)

	return ImportAnalysis{Report: report, Replacements: replacements}
}

// buildTeamChange classifies every row of a matched team-group, partitions
// the existing members and assembles the full-replace member list:
// preserved non-engineer members first, then the newly parsed engineers.
func buildTeamChange(
	tg *csvTeamGroup,
	winner teamCandidate,
	score candidateScore,
	ids orgtree.IDGenerator,
	report *ImportReport,
) (TeamChange, TeamMemberReplacement) {
	change := TeamChange{
		MatchedTeam: MatchedTeam{
			CsvGroup:         tg.key.Group,
			CsvTeam:          tg.key.Team,
			Division:         winner.divisionName,
			Group:            winner.groupName,
			Team:             winner.team.Name,
			Rationale:        score.rationale,
			ManagerConfirmed: score.managerConfirmed,
		},
	}

	var added []orgtree.Person
	for _, row := range tg.rows {
		role, ok := orgtree.RoleFromLabel(row.Role)
		if !ok {
			report.Skipped = append(report.Skipped, SkippedRow{
				Line: row.Line, Row: rawCsvRow(row), Reason: fmt.Sprintf("Unknown role %q", row.Role),
			})
			continue
		}
		switch role {
		case orgtree.RoleEngineeringManager:
			report.Skipped = append(report.Skipped, SkippedRow{
				Line: row.Line, Row: rawCsvRow(row), Reason: "used for matching only",
			})
		case orgtree.RoleStaffEngineer:
			report.Skipped = append(report.Skipped, SkippedRow{
				Line: row.Line, Row: rawCsvRow(row), Reason: "management layer, not imported",
			})
		case orgtree.RolePrincipalEngineer, orgtree.RoleHeadOfEngineering:
			report.Skipped = append(report.Skipped, SkippedRow{
				Line: row.Line, Row: rawCsvRow(row), Reason: "leadership layer, not imported",
			})
		default:
			added = append(added, importedPerson(row, role, ids))
		}
	}

	var preserved []orgtree.Person
	for _, m := range winner.team.Members {
		if m.Role.IsEngineer() {
			change.Removed = append(change.Removed, personChange(m))
		} else {
			preserved = append(preserved, m)
		}
	}
	for _, p := range added {
		change.Added = append(change.Added, personChange(p))
	}

	replacement := TeamMemberReplacement{
		PortfolioID: winner.portfolioID,
		DivisionID:  winner.divisionID,
		GroupID:     winner.groupID,
		TeamID:      winner.team.ID,
		Members:     append(preserved, added...),
	}
	return change, replacement
}

// importedPerson maps one engineer row to a person. The vendor column
// doubles as an employment marker: the in-house vendor code "M&S" means
// employee (onshore, no vendor, overriding the CSV location); anything else
// is a contractor with that vendor.
func importedPerson(row CsvRow, role orgtree.Role, ids orgtree.IDGenerator) orgtree.Person {
	if strings.EqualFold(row.Vendor, "M&S") {
		return orgtree.NewPerson(ids.NewID(), row.Name, role, orgtree.TypeEmployee, orgtree.LocationOnshore, "")
	}
	return orgtree.NewPerson(ids.NewID(), row.Name, role, orgtree.TypeContractor, orgtree.LocationFromString(row.Location), row.Vendor)
}

// suggestTeamNames returns the closest existing team names to an unmatched
// CSV team name, for the review UI.
func suggestTeamNames(csvTeam string, candidates []teamCandidate) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.team.Name)
	}
	ranks := fuzzy.RankFindNormalizedFold(csvTeam, names)
	sort.Sort(ranks)
	out := make([]string, 0, maxTeamSuggestions)
	for _, r := range ranks {
		out = append(out, r.Target)
		if len(out) == maxTeamSuggestions {
			break
		}
	}
	return out
}

func rawCsvRow(row CsvRow) string {
	return strings.Join([]string{row.Portfolio, row.Group, row.TeamName, row.Role, row.Location, row.Vendor, row.Name}, ",")
}
