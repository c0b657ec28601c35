package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

const (
	headOfEngineeringPrefix = "Head of Engineering"
	principalEngineerPrefix = "Principal Engineer"
)

// ParseError is a single line-numbered diagnostic. Line numbers are 1-based
// and every error maps to exactly one originating line.
type ParseError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// DecodeResult carries exactly one populated branch: a parsed portfolio or a
// non-empty error list. A document that produced any error yields no
// portfolio at all.
type DecodeResult struct {
	Portfolio *orgtree.Portfolio `json:"portfolio,omitempty"`
	Errors    []ParseError       `json:"errors,omitempty"`
}

var (
	portfolioTargetPattern = regexp.MustCompile(`^(.*?)\s*\((\d+)%\s*onshore target\)$`)
	quantityPattern        = regexp.MustCompile(`^(\d+)x\s+(.+)$`)
)

// DecodeOrgDoc parses a structured-text document, potentially hand-edited,
// back into a portfolio. The scan is a single forward pass over lines with a
// small context stack (division / group / team); errors are collected across
// the whole document rather than aborting at the first one. Every parsed
// entity receives a freshly minted identifier.
func DecodeOrgDoc(text string, ids orgtree.IDGenerator) DecodeResult {
	p := &docParser{ids: ids}
	for i, raw := range strings.Split(text, "\n") {
		p.handleLine(i+1, strings.TrimRight(raw, "\r"))
	}
	p.finishDivision()

	if p.portfolio == nil {
		p.errs = append(p.errs, ParseError{Line: 1, Message: "Missing portfolio heading"})
	}
	if len(p.errs) > 0 {
		return DecodeResult{Errors: p.errs}
	}
	return DecodeResult{Portfolio: p.portfolio}
}

type docParser struct {
	ids  orgtree.IDGenerator
	errs []ParseError

	portfolio *orgtree.Portfolio
	division  *orgtree.Division
	group     *orgtree.Group
	team      *orgtree.Team

	sawSection bool
}

func (p *docParser) errorf(line int, format string, args ...any) {
	p.errs = append(p.errs, ParseError{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (p *docParser) finishTeam() {
	if p.team != nil {
		p.group.Teams = append(p.group.Teams, *p.team)
		p.team = nil
	}
}

func (p *docParser) finishGroup() {
	p.finishTeam()
	if p.group == nil {
		return
	}
	if p.division != nil {
		p.division.Groups = append(p.division.Groups, *p.group)
	} else {
		p.portfolio.Groups = append(p.portfolio.Groups, *p.group)
	}
	p.group = nil
}

func (p *docParser) finishDivision() {
	p.finishGroup()
	if p.division != nil {
		p.portfolio.Divisions = append(p.portfolio.Divisions, *p.division)
		p.division = nil
	}
}

func (p *docParser) handleLine(line int, raw string) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return
	case strings.HasPrefix(s, ">"), strings.HasPrefix(s, "---"), strings.HasPrefix(s, "<!--"):
		// Comments and decorations survive hand edits; they carry no data.
		return
	}

	if level, rest, ok := splitHeading(s); ok {
		p.handleHeading(line, level, rest)
		return
	}

	switch {
	case strings.HasPrefix(s, headOfEngineeringPrefix+":"):
		p.handleLeadership(line, strings.TrimPrefix(s, headOfEngineeringPrefix+":"), orgtree.RoleHeadOfEngineering)
	case strings.HasPrefix(s, principalEngineerPrefix+":"):
		p.handleLeadership(line, strings.TrimPrefix(s, principalEngineerPrefix+":"), orgtree.RolePrincipalEngineer)
	case strings.HasPrefix(s, "Manager:"):
		p.handleManager(line, strings.TrimPrefix(s, "Manager:"))
	case strings.HasPrefix(s, "Managed by:"):
		p.handleManagedBy(line, strings.TrimPrefix(s, "Managed by:"))
	case strings.HasPrefix(s, "Staff:"):
		p.handleStaff(line, strings.TrimPrefix(s, "Staff:"))
	case strings.HasPrefix(s, "- "), strings.HasPrefix(s, "* "):
		p.handleListItem(line, s[2:])
	default:
		p.errorf(line, "Unrecognized line")
	}
}

func splitHeading(s string) (level int, rest string, ok bool) {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n >= len(s) || s[n] != ' ' {
		return 0, "", false
	}
	return n, strings.TrimSpace(s[n+1:]), true
}

func (p *docParser) handleHeading(line, level int, rest string) {
	switch level {
	case 1:
		p.handlePortfolioHeading(line, rest)
	case 2:
		p.handleSectionHeading(line, rest)
	case 3:
		// Depth is context-sensitive: inside a division this opens a group,
		// inside a direct group it opens a team.
		switch {
		case p.portfolio == nil:
			p.errorf(line, "Heading before portfolio heading")
		case p.division != nil:
			p.finishGroup()
			p.group = &orgtree.Group{ID: p.ids.NewID(), Name: rest}
		case p.group != nil:
			p.finishTeam()
			p.team = &orgtree.Team{ID: p.ids.NewID(), Name: rest}
		default:
			p.errorf(line, "Heading has no enclosing division or group")
		}
	case 4:
		if p.division != nil && p.group != nil {
			p.finishTeam()
			p.team = &orgtree.Team{ID: p.ids.NewID(), Name: rest}
		} else {
			p.errorf(line, "Team heading has no enclosing group")
		}
	default:
		p.errorf(line, "Unrecognized heading")
	}
}

func (p *docParser) handlePortfolioHeading(line int, rest string) {
	if p.portfolio != nil {
		p.errorf(line, "Duplicate portfolio heading")
		return
	}
	name := rest
	target := orgtree.DefaultOnshoreTarget
	if m := portfolioTargetPattern.FindStringSubmatch(rest); m != nil {
		name = strings.TrimSpace(m[1])
		target, _ = strconv.Atoi(m[2])
		if target > 100 {
			p.errorf(line, "Onshore target must be between 0 and 100")
			target = orgtree.DefaultOnshoreTarget
		}
	}
	if name == "" {
		p.errorf(line, "Portfolio name is empty")
		return
	}
	p.portfolio = &orgtree.Portfolio{ID: p.ids.NewID(), Name: name, OnshoreTarget: target}
}

func (p *docParser) handleSectionHeading(line int, rest string) {
	if p.portfolio == nil {
		p.errorf(line, "Heading before portfolio heading")
		return
	}
	p.finishDivision()
	p.sawSection = true
	if after, ok := strings.CutPrefix(rest, "Division:"); ok {
		name := strings.TrimSpace(after)
		if name == "" {
			p.errorf(line, "Division name is empty")
			return
		}
		p.division = &orgtree.Division{ID: p.ids.NewID(), Name: name}
		return
	}
	p.group = &orgtree.Group{ID: p.ids.NewID(), Name: rest}
}

func (p *docParser) handleLeadership(line int, rest string, implied orgtree.Role) {
	if p.portfolio == nil {
		p.errorf(line, "Leadership line before portfolio heading")
		return
	}
	if p.sawSection {
		p.errorf(line, "Leadership line must appear directly under the portfolio heading")
		return
	}
	spec := parseLeaderLine(rest, implied)
	person := p.mintPerson(spec)
	if implied == orgtree.RoleHeadOfEngineering {
		if p.portfolio.Head != nil {
			p.errorf(line, "Duplicate Head of Engineering line")
			return
		}
		p.portfolio.Head = &person
		return
	}
	p.portfolio.Principals = append(p.portfolio.Principals, person)
}

func (p *docParser) handleManager(line int, rest string) {
	if p.group == nil {
		p.errorf(line, "Manager line outside any group")
		return
	}
	if p.group.Manager != nil {
		p.errorf(line, "Duplicate Manager line")
		return
	}
	person := p.mintPerson(parseLeaderLine(rest, orgtree.RoleEngineeringManager))
	p.group.Manager = &person
}

func (p *docParser) handleManagedBy(line int, rest string) {
	if p.group == nil {
		p.errorf(line, "Managed by line outside any group")
		return
	}
	p.group.ExternalManager = strings.TrimSpace(rest)
}

func (p *docParser) handleStaff(line int, rest string) {
	if p.group == nil {
		p.errorf(line, "Staff line outside any group")
		return
	}
	spec := parseLeaderLine(rest, orgtree.RoleStaffEngineer)
	p.group.Staff = append(p.group.Staff, p.mintPersons(spec)...)
}

func (p *docParser) handleListItem(line int, rest string) {
	if p.team == nil {
		p.errorf(line, "List item outside any team")
		return
	}
	spec, err := parsePersonLine(rest)
	if err != nil {
		p.errorf(line, "%s", err.Error())
		return
	}
	p.team.Members = append(p.team.Members, p.mintPersons(spec)...)
}

func (p *docParser) mintPerson(spec personSpec) orgtree.Person {
	return orgtree.NewPerson(p.ids.NewID(), spec.name, spec.role, spec.typ, spec.location, spec.vendor)
}

// mintPersons expands a quantity-prefixed spec into distinct persons, each
// with its own identifier.
func (p *docParser) mintPersons(spec personSpec) []orgtree.Person {
	out := make([]orgtree.Person, 0, spec.qty)
	for i := 0; i < spec.qty; i++ {
		out = append(out, p.mintPerson(spec))
	}
	return out
}

type personSpec struct {
	name     string
	role     orgtree.Role
	qty      int
	typ      orgtree.EmploymentType
	location orgtree.Location
	vendor   string
}

// parsePersonLine parses the person-line grammar shared by team list items
// and leadership lines: "Nx Role [props]", "Name, Role [props]" (split on
// the last comma) or a bare "Role [props]" for a single unnamed person.
func parsePersonLine(s string) (personSpec, error) {
	spec := personSpec{qty: 1, typ: orgtree.TypeEmployee, location: orgtree.LocationOnshore}
	body, props := splitPersonProps(s)
	applyPersonProps(&spec, props)

	if m := quantityPattern.FindStringSubmatch(body); m != nil {
		role, ok := orgtree.RoleFromLabel(m[2])
		if !ok {
			return personSpec{}, fmt.Errorf("Unknown role %q", strings.TrimSpace(m[2]))
		}
		spec.qty, _ = strconv.Atoi(m[1])
		spec.role = role
		return spec, nil
	}

	if idx := strings.LastIndex(body, ","); idx >= 0 {
		label := strings.TrimSpace(body[idx+1:])
		role, ok := orgtree.RoleFromLabel(label)
		if !ok {
			return personSpec{}, fmt.Errorf("Unknown role %q", label)
		}
		spec.name = strings.TrimSpace(body[:idx])
		spec.role = role
		return spec, nil
	}

	role, ok := orgtree.RoleFromLabel(body)
	if !ok {
		return personSpec{}, fmt.Errorf("Unknown role %q", strings.TrimSpace(body))
	}
	spec.role = role
	return spec, nil
}

// parseLeaderLine accepts the full person-line form; when that fails the
// entire remainder (minus props) is taken as a name with the role implied by
// the line prefix, so leadership lines never produce an unknown-role error.
func parseLeaderLine(s string, implied orgtree.Role) personSpec {
	if spec, err := parsePersonLine(s); err == nil {
		spec.qty = 1
		return spec
	}
	spec := personSpec{qty: 1, typ: orgtree.TypeEmployee, location: orgtree.LocationOnshore, role: implied}
	body, props := splitPersonProps(s)
	applyPersonProps(&spec, props)
	spec.name = body
	return spec
}

func splitPersonProps(s string) (body string, props []string) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "]") {
		return s, nil
	}
	idx := strings.LastIndex(s, "[")
	if idx < 0 {
		return s, nil
	}
	for _, tok := range strings.Split(s[idx+1:len(s)-1], ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			props = append(props, tok)
		}
	}
	return strings.TrimSpace(s[:idx]), props
}

// applyPersonProps interprets bracket tokens: employment type and location
// keywords are recognized case-insensitively, anything else is a vendor
// name. The employee invariant is enforced later at construction.
func applyPersonProps(spec *personSpec, props []string) {
	for _, tok := range props {
		switch strings.ToLower(tok) {
		case "contractor":
			spec.typ = orgtree.TypeContractor
		case "employee":
			spec.typ = orgtree.TypeEmployee
		case string(orgtree.LocationOnshore), string(orgtree.LocationNearshore), string(orgtree.LocationOffshore):
			spec.location = orgtree.Location(strings.ToLower(tok))
		default:
			spec.vendor = tok
		}
	}
}
