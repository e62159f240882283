package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/routing"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type queryGroupStore struct {
	queries *sqlc.Queries
}

func newQueryGroupStore(queries *sqlc.Queries) QueryGroupStore {
	return &queryGroupStore{queries: queries}
}

func (s *queryGroupStore) Create(ctx context.Context, group model.QueryGroup) (model.QueryGroup, error) {
	groupID := group.ID
	if groupID == "" {
		groupID = id.NewGroupID()
	}
	teams := make([]string, len(group.TargetTeams))
	for i, t := range group.TargetTeams {
		teams[i] = string(t)
	}

	row, err := s.queries.CreateQueryGroup(ctx, sqlc.CreateQueryGroupParams{
		ID:           groupID,
		AppNumber:    group.AppNumber,
		CustomerName: group.CustomerName,
		Branch:       group.Branch,
		BranchCode:   group.BranchCode,
		SubmittedBy:  group.SubmittedBy,
		SubmittedAt:  pgtype.Timestamptz{Time: group.SubmittedAt, Valid: true},
		TargetTeams:  teams,
	})
	if err != nil {
		return model.QueryGroup{}, err
	}
	return toQueryGroupModel(row), nil
}

func (s *queryGroupStore) GetByID(ctx context.Context, id string) (model.QueryGroup, error) {
	row, err := s.queries.GetQueryGroup(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QueryGroup{}, ErrNotFound
		}
		return model.QueryGroup{}, err
	}
	return toQueryGroupModel(row), nil
}

func (s *queryGroupStore) List(ctx context.Context, filter model.GroupFilter) ([]model.QueryGroup, error) {
	status := filter.Status
	if status == "" {
		status = model.StatusFilterAll
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	rows, err := s.queries.ListQueryGroups(ctx, sqlc.ListQueryGroupsParams{
		MarkedFor:    routing.MarkedForFilter(filter.Team),
		StatusFilter: string(status),
		AppNumber:    filter.AppNumber,
		RowLimit:     limit,
		RowOffset:    max(filter.Offset, 0),
	})
	if err != nil {
		return nil, err
	}
	groups := make([]model.QueryGroup, len(rows))
	for i, row := range rows {
		groups[i] = toQueryGroupModel(row)
	}
	return groups, nil
}

func toQueryGroupModel(row sqlc.QueryGroup) model.QueryGroup {
	teams := make([]model.Team, len(row.TargetTeams))
	for i, t := range row.TargetTeams {
		teams[i] = model.Team(t)
	}
	return model.QueryGroup{
		ID:           row.ID,
		AppNumber:    row.AppNumber,
		CustomerName: row.CustomerName,
		Branch:       row.Branch,
		BranchCode:   row.BranchCode,
		SubmittedBy:  row.SubmittedBy,
		SubmittedAt:  row.SubmittedAt.Time.UTC(),
		TargetTeams:  teams,
	}
}
