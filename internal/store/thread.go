package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/model"
)

const requestIDIndex = "thread_entries_item_request_key"

type threadStore struct {
	queries *sqlc.Queries
}

func newThreadStore(queries *sqlc.Queries) ThreadStore {
	return &threadStore{queries: queries}
}

// Append is the only write the ledger accepts. The database assigns seq and
// created_at.
func (s *threadStore) Append(ctx context.Context, entry model.ThreadEntry) (model.ThreadEntry, error) {
	var action *string
	if entry.Action != nil {
		a := string(*entry.Action)
		action = &a
	}
	row, err := s.queries.CreateThreadEntry(ctx, sqlc.CreateThreadEntryParams{
		ID:         id.New(),
		ItemID:     entry.ItemID,
		Kind:       string(entry.Kind),
		Action:     action,
		Actor:      entry.Actor,
		ActorTeam:  string(entry.ActorTeam),
		Body:       entry.Body,
		AssignedTo: entry.AssignedTo,
		RequestID:  strPtr(derefStr(entry.RequestID)),
	})
	if err != nil {
		if isUniqueViolation(err, requestIDIndex) {
			return model.ThreadEntry{}, ErrDuplicateRequest
		}
		return model.ThreadEntry{}, err
	}
	return toThreadEntryModel(row), nil
}

func (s *threadStore) GetByID(ctx context.Context, id int64) (model.ThreadEntry, error) {
	row, err := s.queries.GetThreadEntry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ThreadEntry{}, ErrNotFound
		}
		return model.ThreadEntry{}, err
	}
	return toThreadEntryModel(row), nil
}

func (s *threadStore) GetByRequestID(ctx context.Context, itemID, requestID string) (model.ThreadEntry, error) {
	row, err := s.queries.GetThreadEntryByRequestID(ctx, sqlc.GetThreadEntryByRequestIDParams{
		ItemID:    itemID,
		RequestID: &requestID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ThreadEntry{}, ErrNotFound
		}
		return model.ThreadEntry{}, err
	}
	return toThreadEntryModel(row), nil
}

func (s *threadStore) ListByItem(ctx context.Context, filter model.HistoryFilter) ([]model.ThreadEntry, error) {
	rows, err := s.queries.ListThreadEntries(ctx, sqlc.ListThreadEntriesParams{
		ItemID:      filter.ItemID,
		AfterSeq:    filter.AfterSeq,
		ActionsOnly: filter.ActionsOnly,
	})
	if err != nil {
		return nil, err
	}
	entries := make([]model.ThreadEntry, len(rows))
	for i, row := range rows {
		entries[i] = toThreadEntryModel(row)
	}
	return entries, nil
}

func toThreadEntryModel(row sqlc.ThreadEntry) model.ThreadEntry {
	var action *model.ActionType
	if row.Action != nil {
		a := model.ActionType(*row.Action)
		action = &a
	}
	return model.ThreadEntry{
		ID:         row.ID,
		Seq:        row.Seq,
		ItemID:     row.ItemID,
		Kind:       model.EntryKind(row.Kind),
		Action:     action,
		Actor:      row.Actor,
		ActorTeam:  model.Team(row.ActorTeam),
		Body:       row.Body,
		AssignedTo: row.AssignedTo,
		RequestID:  row.RequestID,
		CreatedAt:  row.CreatedAt.Time.UTC(),
	}
}
