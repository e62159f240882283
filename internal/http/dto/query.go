package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/routing"
)

// QueryText is one element of "queries": either a bare string or an object
// that narrows routing for that item.
type QueryText struct {
	Text   string `json:"text"`
	SendTo string `json:"sendTo,omitempty"`
}

func (q *QueryText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &q.Text)
	}
	if len(b) > 0 && b[0] == '{' {
		type plain QueryText
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*q = QueryText(p)
		return nil
	}
	return errors.New("query must be a string or an object with text")
}

type CreateQueryRequest struct {
	AppNo   string      `json:"appNo" binding:"required"`
	Queries []QueryText `json:"queries" binding:"required,min=1"`
	SendTo  string      `json:"sendTo" binding:"required"`
	AddedBy string      `json:"addedBy,omitempty"`
}

type QueryItemResponse struct {
	ID               string     `json:"id"`
	GroupID          string     `json:"groupId"`
	Position         int        `json:"position"`
	Text             string     `json:"text"`
	Status           string     `json:"status"`
	MarkedFor        string     `json:"markedForTeam"`
	VisibleTeams     []string   `json:"visibleTeams"`
	AssignedTo       string     `json:"assignedTo,omitempty"`
	ResolvedBy       string     `json:"resolvedBy,omitempty"`
	ResolvedTeam     string     `json:"resolvedTeam,omitempty"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
	ResolutionReason string     `json:"resolutionReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type QueryGroupResponse struct {
	ID           string              `json:"id"`
	AppNo        string              `json:"appNo"`
	CustomerName string              `json:"customerName"`
	Branch       string              `json:"branch"`
	BranchCode   string              `json:"branchCode"`
	SubmittedBy  string              `json:"submittedBy"`
	SubmittedAt  time.Time           `json:"submittedAt"`
	SendTo       []string            `json:"sendTo"`
	PendingCount int                 `json:"pendingCount"`
	Queries      []QueryItemResponse `json:"queries"`
}

func ToQueryItemResponse(item model.QueryItem) QueryItemResponse {
	teams := routing.VisibleTeams(item.MarkedFor)
	visible := make([]string, len(teams))
	for i, t := range teams {
		visible[i] = string(t)
	}
	return QueryItemResponse{
		ID:               item.ID,
		GroupID:          item.GroupID,
		Position:         item.Position,
		Text:             item.Text,
		Status:           string(item.Status),
		MarkedFor:        string(item.MarkedFor),
		VisibleTeams:     visible,
		AssignedTo:       item.AssignedTo,
		ResolvedBy:       item.ResolvedBy,
		ResolvedTeam:     string(item.ResolvedTeam),
		ResolvedAt:       item.ResolvedAt,
		ResolutionReason: item.ResolutionReason,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

func ToQueryGroupResponse(g model.QueryGroup) QueryGroupResponse {
	sendTo := make([]string, len(g.TargetTeams))
	for i, t := range g.TargetTeams {
		sendTo[i] = string(t)
	}
	queries := make([]QueryItemResponse, len(g.Items))
	for i, item := range g.Items {
		queries[i] = ToQueryItemResponse(item)
	}
	return QueryGroupResponse{
		ID:           g.ID,
		AppNo:        g.AppNumber,
		CustomerName: g.CustomerName,
		Branch:       g.Branch,
		BranchCode:   g.BranchCode,
		SubmittedBy:  g.SubmittedBy,
		SubmittedAt:  g.SubmittedAt,
		SendTo:       sendTo,
		PendingCount: g.PendingCount(),
		Queries:      queries,
	}
}

func ToQueryGroupResponses(groups []model.QueryGroup) []QueryGroupResponse {
	out := make([]QueryGroupResponse, len(groups))
	for i, g := range groups {
		out[i] = ToQueryGroupResponse(g)
	}
	return out
}
