package store

import (
	"context"
	"fmt"
	"time"

	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/model"
)

type reportStore struct {
	queries *sqlc.Queries
}

func newReportStore(queries *sqlc.Queries) ReportStore {
	return &reportStore{queries: queries}
}

func (s *reportStore) MarkProcessed(ctx context.Context, entryID int64) (bool, error) {
	n, err := s.queries.MarkReportEntryProcessed(ctx, entryID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *reportStore) Increment(ctx context.Context, day time.Time, team model.Team, action model.ActionType) error {
	return s.queries.IncrementDailyAction(ctx, sqlc.IncrementDailyActionParams{
		Day:    dayToPgDate(day),
		Team:   string(team),
		Action: string(action),
	})
}

func (s *reportStore) ListDaily(ctx context.Context, filter model.ReportFilter) ([]model.DailyActionCount, error) {
	rows, err := s.queries.ListDailyActions(ctx, sqlc.ListDailyActionsParams{
		FromDay: dayToPgDate(filter.From),
		ToDay:   dayToPgDate(filter.To),
		Team:    string(filter.Team),
	})
	if err != nil {
		return nil, err
	}
	counts := make([]model.DailyActionCount, len(rows))
	for i, row := range rows {
		counts[i] = model.DailyActionCount{
			Day:    row.Day.Time,
			Team:   model.Team(row.Team),
			Action: model.ActionType(row.Action),
			Count:  row.Count,
		}
	}
	return counts, nil
}

func (s *reportStore) Rebuild(ctx context.Context) (int64, error) {
	if err := s.queries.ClearDailyActions(ctx); err != nil {
		return 0, fmt.Errorf("clearing daily actions: %w", err)
	}
	n, err := s.queries.RebuildDailyActions(ctx)
	if err != nil {
		return 0, fmt.Errorf("rebuilding daily actions: %w", err)
	}
	if err := s.queries.MarkAllActionEntriesProcessed(ctx); err != nil {
		return 0, fmt.Errorf("marking entries processed: %w", err)
	}
	return n, nil
}
