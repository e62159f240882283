package model

import "time"

type EntryKind string

const (
	EntryKindMessage      EntryKind = "message"
	EntryKindAction       EntryKind = "action"
	EntryKindSystemNotice EntryKind = "system_notice"
)

type ActionType string

const (
	ActionApprove ActionType = "approve"
	ActionDefer   ActionType = "defer"
	ActionOTC     ActionType = "otc"
	ActionRevert  ActionType = "revert"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionApprove, ActionDefer, ActionOTC, ActionRevert:
		return true
	}
	return false
}

// ThreadEntry is one immutable record in an item's communication log.
// Entries of one item are ordered by CreatedAt, then Seq.
type ThreadEntry struct {
	ID         int64       `json:"id"`
	Seq        int64       `json:"seq"`
	ItemID     string      `json:"item_id"`
	Kind       EntryKind   `json:"kind"`
	Action     *ActionType `json:"action,omitempty"`
	Actor      string      `json:"actor"`
	ActorTeam  Team        `json:"actor_team"`
	Body       string      `json:"body"`
	AssignedTo string      `json:"assigned_to,omitempty"`
	RequestID  *string     `json:"request_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (e ThreadEntry) IsAction(a ActionType) bool {
	return e.Kind == EntryKindAction && e.Action != nil && *e.Action == a
}

// HistoryFilter selects thread entries for one item.
type HistoryFilter struct {
	ItemID      string
	Team        Team
	AfterSeq    int64
	ActionsOnly bool
}
