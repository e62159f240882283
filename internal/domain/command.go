package domain

import (
	"errors"
	"fmt"
	"strings"

	"querydesk.app/engine/internal/model"
)

var (
	ErrMissingItem       = errors.New("queryId is required")
	ErrMissingActor      = errors.New("addedBy is required")
	ErrInvalidTeam       = errors.New("team is invalid")
	ErrAssigneeRequired  = errors.New("assignedTo is required for this action")
	ErrEmptyMessage      = errors.New("message is required")
	ErrUnknownAction     = errors.New("unknown action")
	ErrIllegalTransition = errors.New("transition not allowed from current status")
)

// Meta is carried by every command.
type Meta struct {
	ItemID    string
	Actor     string
	Team      model.Team
	RequestID string
}

func (m Meta) validate() error {
	if strings.TrimSpace(m.ItemID) == "" {
		return ErrMissingItem
	}
	if strings.TrimSpace(m.Actor) == "" {
		return ErrMissingActor
	}
	if _, ok := model.ParseTeam(string(m.Team)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTeam, m.Team)
	}
	return nil
}

// Command is a request to append one entry to an item's thread.
// The concrete types form a closed set.
type Command interface {
	Header() Meta
	Kind() model.EntryKind
	Validate() error
	sealed()
}

// ActionCommand is a Command that transitions the item.
type ActionCommand interface {
	Command
	Action() model.ActionType
	// Remarks is the free text stored as the entry body.
	Remarks() string
	// Assignee is empty for actions that do not hand the item over.
	Assignee() string
}

type ApproveCommand struct {
	Meta
	Note string
}

type DeferCommand struct {
	Meta
	Note       string
	AssignedTo string
}

type OTCCommand struct {
	Meta
	Note       string
	AssignedTo string
}

type RevertCommand struct {
	Meta
	Reason string
}

type MessageCommand struct {
	Meta
	Body string
}

func (c ApproveCommand) Header() Meta             { return c.Meta }
func (c ApproveCommand) Kind() model.EntryKind    { return model.EntryKindAction }
func (c ApproveCommand) Action() model.ActionType { return model.ActionApprove }
func (c ApproveCommand) Remarks() string          { return c.Note }
func (c ApproveCommand) Assignee() string         { return "" }
func (c ApproveCommand) Validate() error          { return c.Meta.validate() }
func (ApproveCommand) sealed()                    {}

func (c DeferCommand) Header() Meta             { return c.Meta }
func (c DeferCommand) Kind() model.EntryKind    { return model.EntryKindAction }
func (c DeferCommand) Action() model.ActionType { return model.ActionDefer }
func (c DeferCommand) Remarks() string          { return c.Note }
func (c DeferCommand) Assignee() string         { return strings.TrimSpace(c.AssignedTo) }
func (c DeferCommand) Validate() error          { return validateHandOff(c.Meta, c.AssignedTo) }
func (DeferCommand) sealed()                    {}

func (c OTCCommand) Header() Meta             { return c.Meta }
func (c OTCCommand) Kind() model.EntryKind    { return model.EntryKindAction }
func (c OTCCommand) Action() model.ActionType { return model.ActionOTC }
func (c OTCCommand) Remarks() string          { return c.Note }
func (c OTCCommand) Assignee() string         { return strings.TrimSpace(c.AssignedTo) }
func (c OTCCommand) Validate() error          { return validateHandOff(c.Meta, c.AssignedTo) }
func (OTCCommand) sealed()                    {}

func (c RevertCommand) Header() Meta             { return c.Meta }
func (c RevertCommand) Kind() model.EntryKind    { return model.EntryKindAction }
func (c RevertCommand) Action() model.ActionType { return model.ActionRevert }
func (c RevertCommand) Remarks() string          { return c.Reason }
func (c RevertCommand) Assignee() string         { return "" }
func (c RevertCommand) Validate() error          { return c.Meta.validate() }
func (RevertCommand) sealed()                    {}

func (c MessageCommand) Header() Meta          { return c.Meta }
func (c MessageCommand) Kind() model.EntryKind { return model.EntryKindMessage }
func (MessageCommand) sealed()                 {}

func (c MessageCommand) Validate() error {
	if err := c.Meta.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Body) == "" {
		return ErrEmptyMessage
	}
	return nil
}

func validateHandOff(m Meta, assignedTo string) error {
	if err := m.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(assignedTo) == "" {
		return ErrAssigneeRequired
	}
	return nil
}

// NewActionCommand builds the variant for action. Unknown actions are rejected here
// so nothing further down sees them.
func NewActionCommand(action model.ActionType, meta Meta, remarks, assignedTo string) (ActionCommand, error) {
	switch action {
	case model.ActionApprove:
		return ApproveCommand{Meta: meta, Note: remarks}, nil
	case model.ActionDefer:
		return DeferCommand{Meta: meta, Note: remarks, AssignedTo: assignedTo}, nil
	case model.ActionOTC:
		return OTCCommand{Meta: meta, Note: remarks, AssignedTo: assignedTo}, nil
	case model.ActionRevert:
		return RevertCommand{Meta: meta, Reason: remarks}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// WithAssignee returns a copy of cmd carrying the canonical assignee spelling.
// Commands without an assignee are returned unchanged.
func WithAssignee(cmd ActionCommand, assignee string) ActionCommand {
	switch c := cmd.(type) {
	case DeferCommand:
		c.AssignedTo = assignee
		return c
	case OTCCommand:
		c.AssignedTo = assignee
		return c
	}
	return cmd
}
