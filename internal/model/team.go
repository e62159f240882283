package model

import "strings"

// Team identifies who is acting on a query. Operations raises queries;
// Sales and Credit handle them.
type Team string

const (
	TeamSales      Team = "sales"
	TeamCredit     Team = "credit"
	TeamOperations Team = "operations"
)

// ParseTeam accepts any casing and surrounding whitespace.
func ParseTeam(s string) (Team, bool) {
	switch Team(strings.ToLower(strings.TrimSpace(s))) {
	case TeamSales:
		return TeamSales, true
	case TeamCredit:
		return TeamCredit, true
	case TeamOperations:
		return TeamOperations, true
	}
	return "", false
}

// IsHandling reports whether the team can be a routing target.
func (t Team) IsHandling() bool {
	return t == TeamSales || t == TeamCredit
}

// MarkedFor is the routing declaration stored on each query item.
type MarkedFor string

const (
	MarkedForSales  MarkedFor = "sales"
	MarkedForCredit MarkedFor = "credit"
	MarkedForBoth   MarkedFor = "both"
)

func (m MarkedFor) Valid() bool {
	return m == MarkedForSales || m == MarkedForCredit || m == MarkedForBoth
}
