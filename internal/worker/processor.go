package worker

import (
	"context"
	"fmt"
	"log/slog"

	"querydesk.app/engine/internal/queue"
)

// ReportProcessor folds transition events into the daily action report.
// Other event types are acknowledged without work.
type ReportProcessor struct {
	reports ReportRecorder
}

func NewReportProcessor(reports ReportRecorder) *ReportProcessor {
	return &ReportProcessor{reports: reports}
}

func (p *ReportProcessor) Handle(ctx context.Context, event queue.QueryEvent) error {
	if event.EventType != queue.EventItemTransitioned {
		return nil
	}
	if event.EntryID == nil {
		return fmt.Errorf("transition event without entry id")
	}

	counted, err := p.reports.RecordEntry(ctx, *event.EntryID)
	if err != nil {
		return fmt.Errorf("recording entry %d: %w", *event.EntryID, err)
	}
	if !counted {
		slog.DebugContext(ctx, "entry already counted", "entry_id", *event.EntryID)
	}
	return nil
}
