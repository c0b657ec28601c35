package orgtree

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultOnshoreTarget is used when a portfolio carries no explicit target.
const DefaultOnshoreTarget = 50

// Person is a single member of the org tree. Employees are always onshore
// and carry no vendor; only contractors may have a vendor or a non-onshore
// location. Construct through NewPerson so the invariant holds.
type Person struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name,omitempty"`
	Role     Role           `json:"role"`
	Type     EmploymentType `json:"type"`
	Vendor   string         `json:"vendor,omitempty"`
	Location Location       `json:"location"`
}

// NewPerson builds a person and enforces the employee invariant: an employee
// is forced onshore with no vendor regardless of the requested values.
func NewPerson(id uuid.UUID, name string, role Role, typ EmploymentType, location Location, vendor string) Person {
	if typ != TypeContractor {
		typ = TypeEmployee
	}
	if typ == TypeEmployee {
		location = LocationOnshore
		vendor = ""
	}
	if location == "" {
		location = LocationOnshore
	}
	return Person{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Role:     role,
		Type:     typ,
		Vendor:   strings.TrimSpace(vendor),
		Location: location,
	}
}

type Team struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Members []Person  `json:"members,omitempty"`
}

// Group holds teams plus its leadership. Manager and ExternalManager are
// mutually exclusive in well-formed trees but that is not enforced here.
type Group struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Manager         *Person   `json:"manager,omitempty"`
	ExternalManager string    `json:"externalManager,omitempty"`
	Staff           []Person  `json:"staff,omitempty"`
	Teams           []Team    `json:"teams,omitempty"`
}

// Division is an optional intermediate layer between a portfolio and its
// groups. A portfolio may hold direct groups with no divisions at all.
type Division struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Groups []Group   `json:"groups,omitempty"`
}

type Portfolio struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Head          *Person    `json:"head,omitempty"`
	Principals    []Person   `json:"principals,omitempty"`
	Divisions     []Division `json:"divisions,omitempty"`
	Groups        []Group    `json:"groups,omitempty"`
	OnshoreTarget int        `json:"onshoreTarget"`
}
