package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"querydesk.app/engine/internal/domain"
	"querydesk.app/engine/internal/model"
)

const (
	SubmissionTypeAction  = "action"
	SubmissionTypeMessage = "message"
)

// QueryActionRequest is the body of POST /query-actions.
type QueryActionRequest struct {
	Type       string `json:"type" binding:"required,oneof=action message" jsonschema:"enum=action,enum=message"`
	QueryID    string `json:"queryId" binding:"required" jsonschema:"minLength=1"`
	Action     string `json:"action,omitempty" jsonschema:"enum=approve,enum=deferral,enum=otc,enum=revert"`
	Remarks    string `json:"remarks,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty" jsonschema:"description=Required for deferral and otc"`
	Message    string `json:"message,omitempty" jsonschema:"description=Required when type is message"`
	AddedBy    string `json:"addedBy" jsonschema:"minLength=1"`
	Team       string `json:"team" jsonschema:"enum=sales,enum=credit,enum=operations"`
	RequestID  string `json:"requestId,omitempty" jsonschema:"description=Client idempotency key; a replay returns the original entry"`
}

var actionNames = map[string]model.ActionType{
	"approve":  model.ActionApprove,
	"deferral": model.ActionDefer,
	"defer":    model.ActionDefer,
	"otc":      model.ActionOTC,
	"revert":   model.ActionRevert,
}

// ParseAction maps the wire action name to the model action.
func ParseAction(s string) (model.ActionType, bool) {
	a, ok := actionNames[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// ActionName is the wire name of a model action.
func ActionName(a model.ActionType) string {
	if a == model.ActionDefer {
		return "deferral"
	}
	return string(a)
}

// ToCommand builds the domain command. Errors are caller errors.
func (r QueryActionRequest) ToCommand() (domain.Command, error) {
	team, ok := model.ParseTeam(r.Team)
	if !ok {
		team = model.Team(r.Team)
	}
	meta := domain.Meta{
		ItemID:    strings.TrimSpace(r.QueryID),
		Actor:     strings.TrimSpace(r.AddedBy),
		Team:      team,
		RequestID: strings.TrimSpace(r.RequestID),
	}

	var cmd domain.Command
	switch r.Type {
	case SubmissionTypeMessage:
		cmd = domain.MessageCommand{Meta: meta, Body: r.Message}
	case SubmissionTypeAction:
		action, ok := ParseAction(r.Action)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, r.Action)
		}
		ac, err := domain.NewActionCommand(action, meta, r.Remarks, r.AssignedTo)
		if err != nil {
			return nil, err
		}
		cmd = ac
	default:
		return nil, fmt.Errorf("unknown submission type %q", r.Type)
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

type ThreadEntryResponse struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	QueryID    string    `json:"queryId"`
	Type       string    `json:"type"`
	Action     string    `json:"action,omitempty"`
	Message    string    `json:"message"`
	AddedBy    string    `json:"addedBy"`
	Team       string    `json:"team"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func ToThreadEntryResponse(e model.ThreadEntry) ThreadEntryResponse {
	resp := ThreadEntryResponse{
		ID:         strconv.FormatInt(e.ID, 10),
		Seq:        e.Seq,
		QueryID:    e.ItemID,
		Type:       string(e.Kind),
		Message:    e.Body,
		AddedBy:    e.Actor,
		Team:       string(e.ActorTeam),
		AssignedTo: e.AssignedTo,
		Timestamp:  e.CreatedAt,
	}
	if e.Action != nil {
		resp.Action = ActionName(*e.Action)
	}
	if e.RequestID != nil {
		resp.RequestID = *e.RequestID
	}
	return resp
}

func ToThreadEntryResponses(entries []model.ThreadEntry) []ThreadEntryResponse {
	out := make([]ThreadEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToThreadEntryResponse(e)
	}
	return out
}

// ActionResponse is the data of an accepted submission.
type ActionResponse struct {
	Applied  bool                `json:"applied"`
	Replayed bool                `json:"replayed"`
	Query    QueryItemResponse   `json:"query"`
	Entry    ThreadEntryResponse `json:"entry"`
}
