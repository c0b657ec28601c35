package events

import "github.com/google/uuid"

// TeamMembersReplaced is published after an import replacement has been
// applied to a team.
type TeamMembersReplaced struct {
	PortfolioID uuid.UUID
	DivisionID  *uuid.UUID
	GroupID     uuid.UUID
	TeamID      uuid.UUID
	TeamName    string
	Members     int
}
