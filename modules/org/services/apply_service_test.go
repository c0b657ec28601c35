package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/treeline-hq/treeline/modules/org/domain/events"
	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
	"github.com/treeline-hq/treeline/pkg/eventbus"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestTeamReplacementService_AppliesAndPublishes(t *testing.T) {
	ids := &seqIDs{}
	p := platformFixture(ids)
	team := &p.Divisions[0].Groups[0].Teams[0]

	newMember := orgtree.NewPerson(ids.NewID(), "New Hire", orgtree.RoleEngineer, orgtree.TypeContractor, orgtree.LocationNearshore, "Globex")
	divisionID := p.Divisions[0].ID
	replacement := TeamMemberReplacement{
		PortfolioID: p.ID,
		DivisionID:  &divisionID,
		GroupID:     p.Divisions[0].Groups[0].ID,
		TeamID:      team.ID,
		Members:     []orgtree.Person{newMember},
	}

	bus := quietBus()
	var published []*events.TeamMembersReplaced
	bus.Subscribe(func(e *events.TeamMembersReplaced) {
		published = append(published, e)
	})

	svc := NewTeamReplacementService(bus)
	require.NoError(t, svc.Apply(p, []TeamMemberReplacement{replacement}))

	require.Equal(t, []orgtree.Person{newMember}, team.Members)
	require.Len(t, published, 1)
	require.Equal(t, team.ID, published[0].TeamID)
	require.Equal(t, "Core Services", published[0].TeamName)
	require.Equal(t, 1, published[0].Members)
}

func TestTeamReplacementService_DirectGroupLookup(t *testing.T) {
	ids := &seqIDs{}
	p := &orgtree.Portfolio{
		ID: ids.NewID(), Name: "Acme", OnshoreTarget: orgtree.DefaultOnshoreTarget,
		Groups: []orgtree.Group{{
			ID: ids.NewID(), Name: "Platform",
			Teams: []orgtree.Team{{ID: ids.NewID(), Name: "Alpha"}},
		}},
	}

	member := orgtree.NewPerson(ids.NewID(), "Ann", orgtree.RoleEngineer, orgtree.TypeEmployee, orgtree.LocationOnshore, "")
	svc := NewTeamReplacementService(quietBus())
	err := svc.Apply(p, []TeamMemberReplacement{{
		PortfolioID: p.ID,
		GroupID:     p.Groups[0].ID,
		TeamID:      p.Groups[0].Teams[0].ID,
		Members:     []orgtree.Person{member},
	}})
	require.NoError(t, err)
	require.Equal(t, "Ann", p.Groups[0].Teams[0].Members[0].Name)
}

func TestTeamReplacementService_StalePlanFailsWithoutMutation(t *testing.T) {
	ids := &seqIDs{}
	p := platformFixture(ids)
	team := &p.Divisions[0].Groups[0].Teams[0]
	divisionID := p.Divisions[0].ID

	good := TeamMemberReplacement{
		PortfolioID: p.ID,
		DivisionID:  &divisionID,
		GroupID:     p.Divisions[0].Groups[0].ID,
		TeamID:      team.ID,
		Members:     nil,
	}
	stale := good
	stale.TeamID = uuid.New()

	svc := NewTeamReplacementService(quietBus())
	err := svc.Apply(p, []TeamMemberReplacement{good, stale})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")

	// The valid replacement in the same plan must not have been applied.
	require.Len(t, team.Members, 2)
}

func TestTeamReplacementService_WrongPortfolioRejected(t *testing.T) {
	ids := &seqIDs{}
	p := platformFixture(ids)

	svc := NewTeamReplacementService(quietBus())
	err := svc.Apply(p, []TeamMemberReplacement{{PortfolioID: uuid.New()}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "snapshot is")
}
