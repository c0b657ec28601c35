package services

import (
	gerrors "github.com/go-faster/errors"

	"github.com/treeline-hq/treeline/modules/org/domain/events"
	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
	"github.com/treeline-hq/treeline/pkg/eventbus"
)

// TeamReplacementService is the apply layer for import plans: it consumes
// TeamMemberReplacement instructions against a portfolio snapshot and swaps
// each team's member list wholesale. The engines themselves never mutate a
// tree; this is the single writer.
type TeamReplacementService struct {
	publisher eventbus.EventBus
}

func NewTeamReplacementService(publisher eventbus.EventBus) *TeamReplacementService {
	return &TeamReplacementService{publisher: publisher}
}

// Apply runs every replacement against the portfolio. Replacements are
// validated against the snapshot's identifiers before any mutation, so a
// stale plan fails without partially applying.
func (s *TeamReplacementService) Apply(p *orgtree.Portfolio, replacements []TeamMemberReplacement) error {
	teams := make([]*orgtree.Team, len(replacements))
	for i, r := range replacements {
		team, err := findTeam(p, r)
		if err != nil {
			return err
		}
		teams[i] = team
	}
	for i, r := range replacements {
		teams[i].Members = r.Members
		s.publisher.Publish(&events.TeamMembersReplaced{
			PortfolioID: r.PortfolioID,
			DivisionID:  r.DivisionID,
			GroupID:     r.GroupID,
			TeamID:      r.TeamID,
			TeamName:    teams[i].Name,
			Members:     len(r.Members),
		})
	}
	return nil
}

func findTeam(p *orgtree.Portfolio, r TeamMemberReplacement) (*orgtree.Team, error) {
	if p.ID != r.PortfolioID {
		return nil, gerrors.Errorf("replacement targets portfolio %s, snapshot is %s", r.PortfolioID, p.ID)
	}
	var group *orgtree.Group
	if r.DivisionID != nil {
		for i := range p.Divisions {
			if p.Divisions[i].ID != *r.DivisionID {
				continue
			}
			for j := range p.Divisions[i].Groups {
				if p.Divisions[i].Groups[j].ID == r.GroupID {
					group = &p.Divisions[i].Groups[j]
				}
			}
		}
	} else {
		for i := range p.Groups {
			if p.Groups[i].ID == r.GroupID {
				group = &p.Groups[i]
			}
		}
	}
	if group == nil {
		return nil, gerrors.Errorf("group %s not found in portfolio %s", r.GroupID, p.ID)
	}
	for i := range group.Teams {
		if group.Teams[i].ID == r.TeamID {
			return &group.Teams[i], nil
		}
	}
	return nil, gerrors.Errorf("team %s not found in group %s", r.TeamID, r.GroupID)
}
