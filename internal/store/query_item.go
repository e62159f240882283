package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/routing"
)

type queryItemStore struct {
	queries *sqlc.Queries
}

func newQueryItemStore(queries *sqlc.Queries) QueryItemStore {
	return &queryItemStore{queries: queries}
}

func (s *queryItemStore) Create(ctx context.Context, item model.QueryItem) (model.QueryItem, error) {
	itemID := item.ID
	if itemID == "" {
		itemID = id.NewItemID()
	}
	row, err := s.queries.CreateQueryItem(ctx, sqlc.CreateQueryItemParams{
		ID:        itemID,
		GroupID:   item.GroupID,
		Position:  int32(item.Position),
		Text:      item.Text,
		MarkedFor: string(item.MarkedFor),
	})
	if err != nil {
		return model.QueryItem{}, err
	}
	return toQueryItemModel(row), nil
}

func (s *queryItemStore) GetByID(ctx context.Context, id string) (model.QueryItem, error) {
	row, err := s.queries.GetQueryItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QueryItem{}, ErrNotFound
		}
		return model.QueryItem{}, err
	}
	return toQueryItemModel(row), nil
}

func (s *queryItemStore) GetForUpdate(ctx context.Context, id string) (model.QueryItem, error) {
	row, err := s.queries.GetQueryItemForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QueryItem{}, ErrNotFound
		}
		return model.QueryItem{}, err
	}
	return toQueryItemModel(row), nil
}

func (s *queryItemStore) ListByGroups(ctx context.Context, groupIDs []string, team model.Team) ([]model.QueryItem, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	rows, err := s.queries.ListQueryItemsByGroups(ctx, sqlc.ListQueryItemsByGroupsParams{
		GroupIds:  groupIDs,
		MarkedFor: routing.MarkedForFilter(team),
	})
	if err != nil {
		return nil, err
	}
	items := make([]model.QueryItem, len(rows))
	for i, row := range rows {
		items[i] = toQueryItemModel(row)
	}
	return items, nil
}

func (s *queryItemStore) Transition(ctx context.Context, from model.ItemStatus, next model.QueryItem) (model.QueryItem, error) {
	row, err := s.queries.TransitionQueryItem(ctx, sqlc.TransitionQueryItemParams{
		ToStatus:         string(next.Status),
		AssignedTo:       next.AssignedTo,
		ResolvedBy:       next.ResolvedBy,
		ResolvedTeam:     string(next.ResolvedTeam),
		ResolvedAt:       timeToPgTimestamptz(next.ResolvedAt),
		ResolutionReason: next.ResolutionReason,
		ID:               next.ID,
		FromStatus:       string(from),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.QueryItem{}, ErrStatusChanged
		}
		return model.QueryItem{}, err
	}
	return toQueryItemModel(row), nil
}

func (s *queryItemStore) Stats(ctx context.Context, team model.Team) (model.ItemStats, error) {
	row, err := s.queries.QueryItemStats(ctx, routing.MarkedForFilter(team))
	if err != nil {
		return model.ItemStats{}, err
	}
	return model.ItemStats{
		Pending:  row.Pending,
		Approved: row.Approved,
		Deferred: row.Deferred,
		OTC:      row.Otc,
		Resolved: row.Approved + row.Deferred + row.Otc,
		Total:    row.Total,
		Groups:   row.Groups,
	}, nil
}

func toQueryItemModel(row sqlc.QueryItem) model.QueryItem {
	return model.QueryItem{
		ID:               row.ID,
		GroupID:          row.GroupID,
		Position:         int(row.Position),
		Text:             row.Text,
		Status:           model.ItemStatus(row.Status),
		MarkedFor:        model.MarkedFor(row.MarkedFor),
		AssignedTo:       row.AssignedTo,
		ResolvedBy:       row.ResolvedBy,
		ResolvedTeam:     model.Team(row.ResolvedTeam),
		ResolvedAt:       pgTimestamptzToTime(row.ResolvedAt),
		ResolutionReason: row.ResolutionReason,
		CreatedAt:        row.CreatedAt.Time.UTC(),
		UpdatedAt:        row.UpdatedAt.Time.UTC(),
	}
}
