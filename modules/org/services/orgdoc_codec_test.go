package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

const roundTripDoc = `# Acme Digital (60% onshore target)
Head of Engineering: Alice Johnson
Principal Engineer: Principal Engineer [contractor, nearshore, Globex]

## Division: Consumer

### Platform Engineering
Manager: Jane Smith
Staff: Sam Carter
Staff: Staff Engineer [contractor, offshore, TCS]

#### Core Services
- 3x Engineer [contractor, offshore, TCS]
- Senior Engineer
- John Smith, Engineer
- Priya Patel, Senior Engineer [contractor, nearshore, Globex]

#### Payments
- Engineer

## Mobile Apps
Managed by: Head of Mobile
Staff: Sam Carter

### iOS
- 2x Engineer
- Maya Chen, Engineer
`

func TestOrgDoc_RoundTrip(t *testing.T) {
	ids := orgtree.NewUUIDGenerator()

	result := DecodeOrgDoc(roundTripDoc, ids)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Portfolio)

	p := result.Portfolio
	require.Equal(t, "Acme Digital", p.Name)
	require.Equal(t, 60, p.OnshoreTarget)
	require.NotNil(t, p.Head)
	require.Equal(t, "Alice Johnson", p.Head.Name)
	require.Equal(t, orgtree.RoleHeadOfEngineering, p.Head.Role)
	require.Len(t, p.Principals, 1)
	require.Empty(t, p.Principals[0].Name)
	require.Equal(t, orgtree.TypeContractor, p.Principals[0].Type)

	require.Len(t, p.Divisions, 1)
	require.Len(t, p.Divisions[0].Groups, 1)
	platform := p.Divisions[0].Groups[0]
	require.Equal(t, "Platform Engineering", platform.Name)
	require.NotNil(t, platform.Manager)
	require.Equal(t, "Jane Smith", platform.Manager.Name)
	require.Equal(t, orgtree.RoleEngineeringManager, platform.Manager.Role)
	require.Len(t, platform.Staff, 2)
	require.Len(t, platform.Teams, 2)
	require.Len(t, platform.Teams[0].Members, 6)

	require.Len(t, p.Groups, 1)
	mobile := p.Groups[0]
	require.Nil(t, mobile.Manager)
	require.Equal(t, "Head of Mobile", mobile.ExternalManager)
	require.Len(t, mobile.Teams, 1)
	require.Len(t, mobile.Teams[0].Members, 3)

	require.Equal(t, roundTripDoc, EncodeOrgDoc(p))
}

func TestDecodeOrgDoc_DefaultOnshoreTarget(t *testing.T) {
	result := DecodeOrgDoc("# Acme\n", orgtree.NewUUIDGenerator())
	require.Empty(t, result.Errors)
	require.Equal(t, orgtree.DefaultOnshoreTarget, result.Portfolio.OnshoreTarget)
}

func TestDecodeOrgDoc_OnshoreTargetOverHundred(t *testing.T) {
	result := DecodeOrgDoc("# Acme (140% onshore target)\n", orgtree.NewUUIDGenerator())
	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Line)
	require.Nil(t, result.Portfolio)
}

func TestDecodeOrgDoc_QuantityExpandsToDistinctPersons(t *testing.T) {
	doc := "# Acme\n\n## Platform\n\n### Core\n- 3x Senior Engineer [contractor, offshore, TCS]\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Empty(t, result.Errors)

	members := result.Portfolio.Groups[0].Teams[0].Members
	require.Len(t, members, 3)
	seen := map[string]bool{}
	for _, m := range members {
		require.Empty(t, m.Name)
		require.Equal(t, orgtree.RoleSeniorEngineer, m.Role)
		require.Equal(t, orgtree.TypeContractor, m.Type)
		require.Equal(t, orgtree.LocationOffshore, m.Location)
		require.Equal(t, "TCS", m.Vendor)
		seen[m.ID.String()] = true
	}
	require.Len(t, seen, 3)
}

func TestDecodeOrgDoc_EmployeePropsForceOnshore(t *testing.T) {
	doc := "# Acme\n\n## Platform\n\n### Core\n- Bob, Engineer [employee, offshore, TCS]\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Empty(t, result.Errors)

	m := result.Portfolio.Groups[0].Teams[0].Members[0]
	require.Equal(t, orgtree.TypeEmployee, m.Type)
	require.Equal(t, orgtree.LocationOnshore, m.Location)
	require.Empty(t, m.Vendor)
}

func TestDecodeOrgDoc_NameKeepsEarlierCommas(t *testing.T) {
	doc := "# Acme\n\n## Platform\n\n### Core\n- Smith, Jr., Engineer\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Empty(t, result.Errors)
	require.Equal(t, "Smith, Jr.", result.Portfolio.Groups[0].Teams[0].Members[0].Name)
}

func TestDecodeOrgDoc_AnyErrorYieldsNoPortfolio(t *testing.T) {
	doc := "# Acme\n\n## Platform\n\n### Core\n- Engineer\n- Bob, Wizard\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Nil(t, result.Portfolio)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 7, result.Errors[0].Line)
	require.Equal(t, `Unknown role "Wizard"`, result.Errors[0].Message)
	require.Equal(t, `line 7: Unknown role "Wizard"`, result.Errors[0].Error())
}

func TestDecodeOrgDoc_MissingPortfolioHeading(t *testing.T) {
	result := DecodeOrgDoc("## Platform\n", orgtree.NewUUIDGenerator())
	require.Nil(t, result.Portfolio)
	require.NotEmpty(t, result.Errors)
	require.Equal(t, ParseError{Line: 1, Message: "Heading before portfolio heading"}, result.Errors[0])
	require.Contains(t, result.Errors, ParseError{Line: 1, Message: "Missing portfolio heading"})
}

func TestDecodeOrgDoc_DecorationsAreIgnored(t *testing.T) {
	doc := "# Acme\n\n> hand-written note\n---\n<!-- generated -->\n\n## Platform\n\n### Core\n- Engineer\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Portfolio)
}

func TestDecodeOrgDoc_UnrecognizedLine(t *testing.T) {
	result := DecodeOrgDoc("# Acme\nsome stray prose\n", orgtree.NewUUIDGenerator())
	require.Nil(t, result.Portfolio)
	require.Equal(t, []ParseError{{Line: 2, Message: "Unrecognized line"}}, result.Errors)
}

func TestDecodeOrgDoc_LeadershipMustPrecedeSections(t *testing.T) {
	doc := "# Acme\n\n## Platform\nHead of Engineering: Alice\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Len(t, result.Errors, 1)
	require.Equal(t, 4, result.Errors[0].Line)
}

func TestDecodeOrgDoc_DuplicateHeadRejected(t *testing.T) {
	doc := "# Acme\nHead of Engineering: Alice\nHead of Engineering: Bob\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Duplicate Head of Engineering line", result.Errors[0].Message)
}

func TestDecodeOrgDoc_DuplicateManagerRejected(t *testing.T) {
	doc := "# Acme\n\n## Platform\nManager: Jane Smith\nManager: John Doe\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Len(t, result.Errors, 1)
	require.Equal(t, ParseError{Line: 5, Message: "Duplicate Manager line"}, result.Errors[0])
}

func TestDecodeOrgDoc_TeamHeadingNeedsGroup(t *testing.T) {
	doc := "# Acme\n\n## Division: Consumer\n\n#### Core\n- Engineer\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Contains(t, result.Errors, ParseError{Line: 5, Message: "Team heading has no enclosing group"})
}

func TestDecodeOrgDoc_ListItemNeedsTeam(t *testing.T) {
	doc := "# Acme\n\n## Platform\n- Engineer\n"
	result := DecodeOrgDoc(doc, orgtree.NewUUIDGenerator())
	require.Equal(t, []ParseError{{Line: 4, Message: "List item outside any team"}}, result.Errors)
}

func TestEncodeOrgDoc_CoalescesUnnamedMembers(t *testing.T) {
	ids := orgtree.NewUUIDGenerator()
	team := orgtree.Team{ID: ids.NewID(), Name: "Core", Members: []orgtree.Person{
		orgtree.NewPerson(ids.NewID(), "", orgtree.RoleEngineer, orgtree.TypeContractor, orgtree.LocationOffshore, "TCS"),
		orgtree.NewPerson(ids.NewID(), "Ada Byron", orgtree.RoleSeniorEngineer, orgtree.TypeEmployee, orgtree.LocationOnshore, ""),
		orgtree.NewPerson(ids.NewID(), "", orgtree.RoleEngineer, orgtree.TypeContractor, orgtree.LocationOffshore, "TCS"),
	}}
	p := &orgtree.Portfolio{ID: ids.NewID(), Name: "Acme", OnshoreTarget: orgtree.DefaultOnshoreTarget,
		Groups: []orgtree.Group{{ID: ids.NewID(), Name: "Platform", Teams: []orgtree.Team{team}}}}

	out := EncodeOrgDoc(p)
	require.Contains(t, out, "- 2x Engineer [contractor, offshore, TCS]\n- Ada Byron, Senior Engineer\n")
}
