package domain

import (
	"fmt"
	"time"

	"querydesk.app/engine/internal/model"
)

type transitionKey struct {
	from   model.ItemStatus
	action model.ActionType
}

// transitions is the whole state machine. Every resolution is reachable only from
// pending and every resolution can be reverted, so there is no terminal state.
var transitions = map[transitionKey]model.ItemStatus{
	{model.ItemStatusPending, model.ActionApprove}: model.ItemStatusApproved,
	{model.ItemStatusPending, model.ActionDefer}:   model.ItemStatusDeferred,
	{model.ItemStatusPending, model.ActionOTC}:     model.ItemStatusOTC,
	{model.ItemStatusApproved, model.ActionRevert}: model.ItemStatusPending,
	{model.ItemStatusDeferred, model.ActionRevert}: model.ItemStatusPending,
	{model.ItemStatusOTC, model.ActionRevert}:      model.ItemStatusPending,
}

// NextStatus looks up the transition table.
func NextStatus(from model.ItemStatus, action model.ActionType) (model.ItemStatus, bool) {
	to, ok := transitions[transitionKey{from, action}]
	return to, ok
}

// Transition is the outcome of applying an action to an item.
type Transition struct {
	From model.ItemStatus
	Item model.QueryItem
}

// Apply computes the item after cmd. It does not check routing; callers
// authorize before applying.
func Apply(item model.QueryItem, cmd ActionCommand, now time.Time) (Transition, error) {
	if err := cmd.Validate(); err != nil {
		return Transition{}, err
	}

	to, ok := NextStatus(item.Status, cmd.Action())
	if !ok {
		return Transition{}, fmt.Errorf("%w: cannot %s an item that is %s", ErrIllegalTransition, cmd.Action(), item.Status)
	}

	next := item
	next.Status = to
	meta := cmd.Header()

	if to == model.ItemStatusPending {
		next.AssignedTo = ""
		next.ResolvedBy = ""
		next.ResolvedTeam = ""
		next.ResolvedAt = nil
		next.ResolutionReason = ""
	} else {
		at := now.UTC()
		next.AssignedTo = cmd.Assignee()
		next.ResolvedBy = meta.Actor
		next.ResolvedTeam = meta.Team
		next.ResolvedAt = &at
		next.ResolutionReason = cmd.Remarks()
	}
	next.UpdatedAt = now.UTC()

	return Transition{From: item.Status, Item: next}, nil
}
