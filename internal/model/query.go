package model

import (
	"strings"
	"time"
)

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusDeferred ItemStatus = "deferred"
	ItemStatusOTC      ItemStatus = "otc"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusApproved, ItemStatusDeferred, ItemStatusOTC:
		return true
	}
	return false
}

// IsResolved is true for every status other than pending.
func (s ItemStatus) IsResolved() bool {
	return s.Valid() && s != ItemStatusPending
}

// RequiresAssignee is true for the statuses that hand the item to a named person.
func (s ItemStatus) RequiresAssignee() bool {
	return s == ItemStatusDeferred || s == ItemStatusOTC
}

// StatusFilter selects items for list views. Resolved is a read-time alias for
// "status is not pending", never a stored status.
type StatusFilter string

const (
	StatusFilterPending  StatusFilter = "pending"
	StatusFilterResolved StatusFilter = "resolved"
	StatusFilterAll      StatusFilter = "all"
)

func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusFilterAll:
		return StatusFilterAll, true
	case StatusFilterPending:
		return StatusFilterPending, true
	case StatusFilterResolved:
		return StatusFilterResolved, true
	}
	return "", false
}

// Matches reports whether an item status passes the filter.
func (f StatusFilter) Matches(s ItemStatus) bool {
	switch f {
	case StatusFilterPending:
		return s == ItemStatusPending
	case StatusFilterResolved:
		return s.IsResolved()
	default:
		return true
	}
}

type QueryGroup struct {
	ID           string      `json:"id"`
	AppNumber    string      `json:"app_number"`
	CustomerName string      `json:"customer_name"`
	Branch       string      `json:"branch"`
	BranchCode   string      `json:"branch_code"`
	SubmittedBy  string      `json:"submitted_by"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	TargetTeams  []Team      `json:"target_teams"`
	Items        []QueryItem `json:"items"`
}

// PendingCount is derived from the items on every call and never stored.
func (g QueryGroup) PendingCount() int {
	n := 0
	for _, it := range g.Items {
		if it.Status == ItemStatusPending {
			n++
		}
	}
	return n
}

type QueryItem struct {
	ID               string     `json:"id"`
	GroupID          string     `json:"group_id"`
	Position         int        `json:"position"`
	Text             string     `json:"text"`
	Status           ItemStatus `json:"status"`
	MarkedFor        MarkedFor  `json:"marked_for"`
	AssignedTo       string     `json:"assigned_to,omitempty"`
	ResolvedBy       string     `json:"resolved_by,omitempty"`
	ResolvedTeam     Team       `json:"resolved_team,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolutionReason string     `json:"resolution_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// GroupFilter narrows listGroups. An empty Team means no visibility filter.
type GroupFilter struct {
	Team      Team
	Status    StatusFilter
	AppNumber string
	Limit     int32
	Offset    int32
}

// ItemStats is the derived count summary behind list badges and reports.
type ItemStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Deferred int64 `json:"deferred"`
	OTC      int64 `json:"otc"`
	Resolved int64 `json:"resolved"`
	Total    int64 `json:"total"`
	Groups   int64 `json:"groups"`
}
