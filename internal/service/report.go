package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/store"
)

const maxReportRange = 366 * 24 * time.Hour

type ReportService interface {
	Daily(ctx context.Context, filter model.ReportFilter) ([]model.DailyActionCount, error)
	// RecordEntry folds one action entry into the daily counts. It returns false
	// when the entry is not an action or was already counted.
	RecordEntry(ctx context.Context, entryID int64) (bool, error)
	// Rebuild recomputes the daily counts from the whole ledger.
	Rebuild(ctx context.Context) (int64, error)
}

type reportService struct {
	threads  store.ThreadStore
	reports  store.ReportStore
	txRunner TxRunner
	now      func() time.Time
}

func NewReportService(threads store.ThreadStore, reports store.ReportStore, txRunner TxRunner) ReportService {
	return &reportService{
		threads:  threads,
		reports:  reports,
		txRunner: txRunner,
		now:      time.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, filter model.ReportFilter) ([]model.DailyActionCount, error) {
	if filter.To.IsZero() {
		filter.To = s.now().UTC()
	}
	if filter.From.IsZero() {
		filter.From = filter.To.AddDate(0, 0, -6)
	}
	if filter.From.After(filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrValidation)
	}
	if filter.To.Sub(filter.From) > maxReportRange {
		return nil, fmt.Errorf("%w: report range is limited to one year", ErrValidation)
	}
	if filter.Team != "" && !filter.Team.IsHandling() {
		return nil, fmt.Errorf("%w: only sales and credit submit actions", ErrValidation)
	}

	rows, err := s.reports.ListDaily(ctx, filter)
	if err != nil {
		return nil, storageErr("listing daily actions", err)
	}
	if rows == nil {
		rows = []model.DailyActionCount{}
	}
	return rows, nil
}

func (s *reportService) RecordEntry(ctx context.Context, entryID int64) (bool, error) {
	entry, err := s.threads.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, fmt.Errorf("%w: thread entry %d", ErrNotFound, entryID)
		}
		return false, storageErr("fetching thread entry", err)
	}
	if entry.Kind != model.EntryKindAction || entry.Action == nil {
		return false, nil
	}

	var counted bool
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		first, err := sp.Reports().MarkProcessed(ctx, entry.ID)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
		counted = true
		return sp.Reports().Increment(ctx, entry.CreatedAt, entry.ActorTeam, *entry.Action)
	})
	if err != nil {
		return false, storageErr("recording report entry", err)
	}
	return counted, nil
}

func (s *reportService) Rebuild(ctx context.Context) (int64, error) {
	var rows int64
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		n, err := sp.Reports().Rebuild(ctx)
		rows = n
		return err
	})
	if err != nil {
		return 0, storageErr("rebuilding daily report", err)
	}
	slog.InfoContext(ctx, "daily action report rebuilt", "rows", rows)
	return rows, nil
}
