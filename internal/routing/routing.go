// Package routing maps an item's marked-for declaration to the teams that may
// see and act on it. Every function here is pure.
package routing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"querydesk.app/engine/internal/model"
)

var (
	ErrEmptySendTo   = errors.New("sendTo is empty")
	ErrUnknownTeam   = errors.New("unknown team")
	ErrNotHandling   = errors.New("team does not handle queries")
	ErrNotSubsetTeam = errors.New("item routing must be a subset of the group's sendTo")
)

// VisibleTeams returns the handling teams an item is routed to, in a stable order.
// Operations is not included; its access is decided by CanRead and CanSubmit.
func VisibleTeams(m model.MarkedFor) []model.Team {
	switch m {
	case model.MarkedForSales:
		return []model.Team{model.TeamSales}
	case model.MarkedForCredit:
		return []model.Team{model.TeamCredit}
	case model.MarkedForBoth:
		return []model.Team{model.TeamSales, model.TeamCredit}
	}
	return nil
}

// IsVisibleTo reports whether team is one of the item's routed teams.
func IsVisibleTo(m model.MarkedFor, team model.Team) bool {
	return slices.Contains(VisibleTeams(m), team)
}

// CanRead reports whether team may see the item. Operations raised every item
// and sees all of them.
func CanRead(team model.Team, item model.QueryItem) bool {
	if team == model.TeamOperations {
		return true
	}
	return IsVisibleTo(item.MarkedFor, team)
}

// CanSubmit reports whether team may append an entry of the given kind.
// Operations may post messages but never transitions.
func CanSubmit(team model.Team, item model.QueryItem, kind model.EntryKind) bool {
	if team == model.TeamOperations {
		return kind == model.EntryKindMessage
	}
	return IsVisibleTo(item.MarkedFor, team)
}

// MarkedForFilter returns the stored marked_for values visible to team.
// An empty team or operations sees every value.
func MarkedForFilter(team model.Team) []string {
	switch team {
	case model.TeamSales:
		return []string{string(model.MarkedForSales), string(model.MarkedForBoth)}
	case model.TeamCredit:
		return []string{string(model.MarkedForCredit), string(model.MarkedForBoth)}
	default:
		return []string{string(model.MarkedForSales), string(model.MarkedForCredit), string(model.MarkedForBoth)}
	}
}

// ParseSendTo accepts a single team name or a comma-joined list, in any casing.
// "both" expands to sales and credit. Duplicates collapse.
func ParseSendTo(s string) ([]model.Team, error) {
	var teams []model.Team
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, string(model.MarkedForBoth)) {
			teams = appendTeam(teams, model.TeamSales)
			teams = appendTeam(teams, model.TeamCredit)
			continue
		}
		team, ok := model.ParseTeam(part)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, part)
		}
		if !team.IsHandling() {
			return nil, fmt.Errorf("%w: %s", ErrNotHandling, team)
		}
		teams = appendTeam(teams, team)
	}
	if len(teams) == 0 {
		return nil, ErrEmptySendTo
	}
	slices.Sort(teams)
	return teams, nil
}

// MarkingFor collapses a set of handling teams into the stored marking.
func MarkingFor(teams []model.Team) (model.MarkedFor, error) {
	sales := slices.Contains(teams, model.TeamSales)
	credit := slices.Contains(teams, model.TeamCredit)
	for _, t := range teams {
		if !t.IsHandling() {
			return "", fmt.Errorf("%w: %s", ErrNotHandling, t)
		}
	}
	switch {
	case sales && credit:
		return model.MarkedForBoth, nil
	case sales:
		return model.MarkedForSales, nil
	case credit:
		return model.MarkedForCredit, nil
	}
	return "", ErrEmptySendTo
}

// ItemMarking resolves the marking of one item of a group. An empty override
// inherits the group's teams; otherwise the override must stay inside them.
func ItemMarking(groupTeams []model.Team, override string) (model.MarkedFor, error) {
	if strings.TrimSpace(override) == "" {
		return MarkingFor(groupTeams)
	}
	teams, err := ParseSendTo(override)
	if err != nil {
		return "", err
	}
	for _, t := range teams {
		if !slices.Contains(groupTeams, t) {
			return "", fmt.Errorf("%w: %s", ErrNotSubsetTeam, t)
		}
	}
	return MarkingFor(teams)
}

func appendTeam(teams []model.Team, t model.Team) []model.Team {
	if slices.Contains(teams, t) {
		return teams
	}
	return append(teams, t)
}
