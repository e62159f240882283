package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/internal/domain"
	"querydesk.app/engine/internal/metrics"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/routing"
	"querydesk.app/engine/internal/store"
)

// ActionResult is the state after an accepted submission. Replayed is set when
// the request id matched an earlier submission and nothing was applied.
type ActionResult struct {
	Item     model.QueryItem
	Entry    model.ThreadEntry
	Replayed bool
}

type ActionService interface {
	// SubmitAction applies one transition and appends its entry atomically,
	// or changes nothing.
	SubmitAction(ctx context.Context, cmd domain.ActionCommand) (ActionResult, error)
	SubmitMessage(ctx context.Context, cmd domain.MessageCommand) (ActionResult, error)
	// History returns entries ordered by timestamp then insertion sequence.
	History(ctx context.Context, filter model.HistoryFilter) ([]model.ThreadEntry, error)
}

type actionService struct {
	items    store.QueryItemStore
	threads  store.ThreadStore
	roster   Roster
	txRunner TxRunner
	events   queue.Producer
	timeout  time.Duration
	now      func() time.Time
}

func NewActionService(items store.QueryItemStore, threads store.ThreadStore, roster Roster, txRunner TxRunner, events queue.Producer, timeout time.Duration) ActionService {
	return &actionService{
		items:    items,
		threads:  threads,
		roster:   roster,
		txRunner: txRunner,
		events:   events,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *actionService) SubmitAction(ctx context.Context, cmd domain.ActionCommand) (ActionResult, error) {
	action := cmd.Action()
	span := logger.StartSpan(ctx, "service.submit_action")
	defer span.End()
	span.SetAttributes(
		attribute.String("query.item_id", cmd.Header().ItemID),
		attribute.String("query.action", string(action)),
		attribute.String("query.team", string(cmd.Header().Team)),
	)

	res, err := s.submitAction(span.Context(), cmd)
	span.RecordError(err)
	recordOutcome(string(action), res, err)
	return res, err
}

func (s *actionService) submitAction(ctx context.Context, cmd domain.ActionCommand) (ActionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ActionResult{}, validationErr(err)
	}
	meta := cmd.Header()
	ctx = withCommandFields(ctx, meta)
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.authorize(ctx, meta, model.EntryKindAction)
	if err != nil {
		return ActionResult{}, err
	}

	if assignee := cmd.Assignee(); assignee != "" {
		canonical, ok, err := s.roster.Lookup(ctx, assignee)
		if err != nil {
			return ActionResult{}, storageErr("looking up roster", err)
		}
		if !ok {
			return ActionResult{}, fmt.Errorf("%w: %q is not on the personnel roster", ErrValidation, assignee)
		}
		cmd = domain.WithAssignee(cmd, canonical)
	}

	var (
		result ActionResult
		from   model.ItemStatus
	)
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		current, err := sp.QueryItems().GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}

		if replay, ok, err := findReplay(ctx, sp, meta, func(e model.ThreadEntry) bool {
			return e.IsAction(cmd.Action()) && e.AssignedTo == cmd.Assignee()
		}); err != nil {
			return err
		} else if ok {
			result = ActionResult{Item: current, Entry: replay, Replayed: true}
			return nil
		}

		t, err := domain.Apply(current, cmd, s.now())
		if err != nil {
			return err
		}
		from = t.From
		updated, err := sp.QueryItems().Transition(ctx, t.From, t.Item)
		if err != nil {
			return err
		}

		act := cmd.Action()
		entry, err := sp.Threads().Append(ctx, model.ThreadEntry{
			ItemID:     item.ID,
			Kind:       model.EntryKindAction,
			Action:     &act,
			Actor:      meta.Actor,
			ActorTeam:  meta.Team,
			Body:       cmd.Remarks(),
			AssignedTo: cmd.Assignee(),
			RequestID:  requestIDPtr(meta.RequestID),
		})
		if err != nil {
			return err
		}
		result = ActionResult{Item: updated, Entry: entry}
		return nil
	})
	if err != nil {
		return ActionResult{}, classifyTxErr(ctx, "applying action", err)
	}

	if result.Replayed {
		slog.InfoContext(ctx, "replayed query action", "entry_id", result.Entry.ID)
		return result, nil
	}

	slog.InfoContext(ctx, "query action applied",
		"action", cmd.Action(),
		"from", from,
		"to", result.Item.Status,
		"assigned_to", result.Item.AssignedTo,
		"entry_id", result.Entry.ID)

	publish(ctx, s.events, queue.QueryEvent{
		EventType: queue.EventItemTransitioned,
		GroupID:   result.Item.GroupID,
		ItemID:    result.Item.ID,
		EntryID:   &result.Entry.ID,
		Action:    string(cmd.Action()),
		Team:      string(meta.Team),
	})
	return result, nil
}

func (s *actionService) SubmitMessage(ctx context.Context, cmd domain.MessageCommand) (ActionResult, error) {
	span := logger.StartSpan(ctx, "service.submit_message")
	defer span.End()
	span.SetAttributes(attribute.String("query.item_id", cmd.Header().ItemID))

	res, err := s.submitMessage(span.Context(), cmd)
	span.RecordError(err)
	recordOutcome(string(model.EntryKindMessage), res, err)
	return res, err
}

func (s *actionService) submitMessage(ctx context.Context, cmd domain.MessageCommand) (ActionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ActionResult{}, validationErr(err)
	}
	meta := cmd.Header()
	ctx = withCommandFields(ctx, meta)
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.authorize(ctx, meta, model.EntryKindMessage)
	if err != nil {
		return ActionResult{}, err
	}

	var result ActionResult
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		// The row lock serialises appends per item so timestamps follow commit order.
		current, err := sp.QueryItems().GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}

		if replay, ok, err := findReplay(ctx, sp, meta, func(e model.ThreadEntry) bool {
			return e.Kind == model.EntryKindMessage && e.Body == cmd.Body
		}); err != nil {
			return err
		} else if ok {
			result = ActionResult{Item: current, Entry: replay, Replayed: true}
			return nil
		}

		entry, err := sp.Threads().Append(ctx, model.ThreadEntry{
			ItemID:    item.ID,
			Kind:      model.EntryKindMessage,
			Actor:     meta.Actor,
			ActorTeam: meta.Team,
			Body:      cmd.Body,
			RequestID: requestIDPtr(meta.RequestID),
		})
		if err != nil {
			return err
		}
		result = ActionResult{Item: current, Entry: entry}
		return nil
	})
	if err != nil {
		return ActionResult{}, classifyTxErr(ctx, "appending message", err)
	}

	if !result.Replayed {
		slog.InfoContext(ctx, "query message posted", "entry_id", result.Entry.ID)
		publish(ctx, s.events, queue.QueryEvent{
			EventType: queue.EventMessagePosted,
			GroupID:   result.Item.GroupID,
			ItemID:    result.Item.ID,
			EntryID:   &result.Entry.ID,
			Team:      string(meta.Team),
		})
	}
	return result, nil
}

func (s *actionService) History(ctx context.Context, filter model.HistoryFilter) ([]model.ThreadEntry, error) {
	if filter.ItemID == "" {
		return nil, fmt.Errorf("%w: queryId is required", ErrValidation)
	}
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.items.GetByID(ctx, filter.ItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: query item %q", ErrNotFound, filter.ItemID)
		}
		return nil, storageErr("fetching query item", err)
	}
	if filter.Team != "" && !routing.CanRead(filter.Team, item) {
		return nil, fmt.Errorf("%w: query item %q is not routed to %s", ErrUnauthorized, item.ID, filter.Team)
	}

	entries, err := s.threads.ListByItem(ctx, filter)
	if err != nil {
		return nil, storageErr("listing thread entries", err)
	}
	if entries == nil {
		entries = []model.ThreadEntry{}
	}
	return entries, nil
}

func (s *actionService) authorize(ctx context.Context, meta domain.Meta, kind model.EntryKind) (model.QueryItem, error) {
	item, err := s.items.GetByID(ctx, meta.ItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.QueryItem{}, fmt.Errorf("%w: query item %q", ErrNotFound, meta.ItemID)
		}
		return model.QueryItem{}, storageErr("fetching query item", err)
	}
	if !routing.CanSubmit(meta.Team, item, kind) {
		slog.InfoContext(ctx, "rejected submission from team outside routing",
			"marked_for", item.MarkedFor,
			"kind", kind)
		return model.QueryItem{}, fmt.Errorf("%w: team %s may not submit %s on query item %q", ErrUnauthorized, meta.Team, kind, item.ID)
	}
	return item, nil
}

// findReplay looks up an earlier entry recorded under the same request id.
// A request id reused for a different command is a duplicate, not a retry.
func findReplay(ctx context.Context, sp StoreProvider, meta domain.Meta, sameCommand func(model.ThreadEntry) bool) (model.ThreadEntry, bool, error) {
	if meta.RequestID == "" {
		return model.ThreadEntry{}, false, nil
	}
	entry, err := sp.Threads().GetByRequestID(ctx, meta.ItemID, meta.RequestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.ThreadEntry{}, false, nil
		}
		return model.ThreadEntry{}, false, err
	}
	if !sameCommand(entry) {
		return model.ThreadEntry{}, false, store.ErrDuplicateRequest
	}
	return entry, true, nil
}

// classifyTxErr maps errors raised inside a submission transaction to the
// caller-facing kinds. Nothing was committed when this runs.
func classifyTxErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, store.ErrStatusChanged):
		return fmt.Errorf("%w: item changed while applying; re-fetch and retry", ErrConflict)
	case errors.Is(err, store.ErrDuplicateRequest):
		return fmt.Errorf("%w: request id already used for this item", ErrConflict)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, domain.ErrAssigneeRequired), errors.Is(err, domain.ErrMissingActor):
		return validationErr(err)
	case isKnown(err):
		return err
	}
	slog.ErrorContext(ctx, "submission failed in store", "error", err, "op", op)
	return storageErr(op, err)
}

func recordOutcome(action string, res ActionResult, err error) {
	outcome := metrics.OutcomeApplied
	switch {
	case err == nil && res.Replayed:
		outcome = metrics.OutcomeReplayed
	case errors.Is(err, ErrConflict):
		outcome = metrics.OutcomeConflict
	case errors.Is(err, ErrStorage):
		outcome = metrics.OutcomeError
	case err != nil:
		outcome = metrics.OutcomeRejected
	}
	metrics.QueryActions.WithLabelValues(action, outcome).Inc()
}

func withCommandFields(ctx context.Context, meta domain.Meta) context.Context {
	team := string(meta.Team)
	fields := logger.LogFields{
		ItemID:    &meta.ItemID,
		Team:      &team,
		Actor:     &meta.Actor,
		Component: "querydesk.service.action",
	}
	if meta.RequestID != "" {
		fields.RequestID = &meta.RequestID
	}
	return logger.WithLogFields(ctx, fields)
}

func requestIDPtr(requestID string) *string {
	if requestID == "" {
		return nil
	}
	return &requestID
}
