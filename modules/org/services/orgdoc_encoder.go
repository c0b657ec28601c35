package services

import (
	"fmt"
	"strings"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

// EncodeOrgDoc renders a portfolio into the editable structured-text
// document. The output is deterministic and is the canonical form accepted
// by DecodeOrgDoc: heading depth encodes nesting, group body lines carry
// leadership, and team members render as list items.
func EncodeOrgDoc(p *orgtree.Portfolio) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%d%% onshore target)\n", p.Name, p.OnshoreTarget)
	if p.Head != nil {
		fmt.Fprintf(&b, "%s: %s\n", headOfEngineeringPrefix, encodeLeaderLine(*p.Head))
	}
	for i := range p.Principals {
		fmt.Fprintf(&b, "%s: %s\n", principalEngineerPrefix, encodeLeaderLine(p.Principals[i]))
	}

	for i := range p.Divisions {
		d := &p.Divisions[i]
		fmt.Fprintf(&b, "\n## Division: %s\n", d.Name)
		for j := range d.Groups {
			encodeGroup(&b, &d.Groups[j], 3)
		}
	}
	for i := range p.Groups {
		encodeGroup(&b, &p.Groups[i], 2)
	}

	return b.String()
}

func encodeGroup(b *strings.Builder, g *orgtree.Group, depth int) {
	fmt.Fprintf(b, "\n%s %s\n", strings.Repeat("#", depth), g.Name)
	if g.Manager != nil {
		fmt.Fprintf(b, "Manager: %s\n", encodeLeaderLine(*g.Manager))
	}
	if g.ExternalManager != "" {
		fmt.Fprintf(b, "Managed by: %s\n", g.ExternalManager)
	}
	for i := range g.Staff {
		fmt.Fprintf(b, "Staff: %s\n", encodeLeaderLine(g.Staff[i]))
	}
	for i := range g.Teams {
		encodeTeam(b, &g.Teams[i], depth+1)
	}
}

func encodeTeam(b *strings.Builder, t *orgtree.Team, depth int) {
	fmt.Fprintf(b, "\n%s %s\n", strings.Repeat("#", depth), t.Name)

	// Unnamed members with identical props coalesce into one quantity line,
	// in first-appearance order. Named members keep one line each.
	type propsKey struct {
		role     orgtree.Role
		typ      orgtree.EmploymentType
		location orgtree.Location
		vendor   string
	}
	counts := map[propsKey]int{}
	var order []propsKey
	for _, m := range t.Members {
		if m.Name != "" {
			continue
		}
		k := propsKey{m.Role, m.Type, m.Location, m.Vendor}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		suffix := encodePersonProps(k.typ, k.location, k.vendor)
		if n := counts[k]; n > 1 {
			fmt.Fprintf(b, "- %dx %s%s\n", n, k.role.Label(), suffix)
		} else {
			fmt.Fprintf(b, "- %s%s\n", k.role.Label(), suffix)
		}
	}
	for _, m := range t.Members {
		if m.Name == "" {
			continue
		}
		fmt.Fprintf(b, "- %s, %s%s\n", m.Name, m.Role.Label(), encodePersonProps(m.Type, m.Location, m.Vendor))
	}
}

// encodeLeaderLine renders a leadership person (head, principal, manager,
// staff) without the line prefix. Named people render as a bare name so the
// parser's name fallback reads them back; unnamed people render as their
// role label, which parses as an unnamed person of that role.
func encodeLeaderLine(p orgtree.Person) string {
	body := p.Name
	if body == "" {
		body = p.Role.Label()
	}
	return body + encodePersonProps(p.Type, p.Location, p.Vendor)
}

// encodePersonProps renders the bracketed props suffix. A default employee
// (employee, onshore, no vendor) renders nothing. For contractors the word
// "contractor" comes first, the location is included only when not onshore
// and the vendor only when set.
func encodePersonProps(typ orgtree.EmploymentType, location orgtree.Location, vendor string) string {
	if typ != orgtree.TypeContractor {
		return ""
	}
	parts := []string{"contractor"}
	if location != orgtree.LocationOnshore && location != "" {
		parts = append(parts, string(location))
	}
	if vendor != "" {
		parts = append(parts, vendor)
	}
	return " [" + strings.Join(parts, ", ") + "]"
}
