package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/internal/metrics"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/routing"
	"querydesk.app/engine/internal/store"
)

// NewItem is one query of a group being raised. SendTo optionally narrows the
// group's routing for this item.
type NewItem struct {
	Text   string
	SendTo string
}

type CreateGroupInput struct {
	AppNumber   string
	Items       []NewItem
	SendTo      string
	SubmittedBy string
}

type QueryService interface {
	CreateGroup(ctx context.Context, in CreateGroupInput) (model.QueryGroup, error)
	// ListGroups returns groups with at least one item the team can read that
	// matches the status filter. Each group carries all of its team-visible items.
	ListGroups(ctx context.Context, filter model.GroupFilter) ([]model.QueryGroup, error)
	GetGroup(ctx context.Context, id string, team model.Team) (model.QueryGroup, error)
	// GetItem checks read visibility when team is set.
	GetItem(ctx context.Context, id string, team model.Team) (model.QueryItem, error)
	Stats(ctx context.Context, team model.Team) (model.ItemStats, error)
}

type queryService struct {
	apps     store.ApplicationStore
	groups   store.QueryGroupStore
	items    store.QueryItemStore
	txRunner TxRunner
	events   queue.Producer
	timeout  time.Duration
	now      func() time.Time
}

func NewQueryService(apps store.ApplicationStore, groups store.QueryGroupStore, items store.QueryItemStore, txRunner TxRunner, events queue.Producer, timeout time.Duration) QueryService {
	return &queryService{
		apps:     apps,
		groups:   groups,
		items:    items,
		txRunner: txRunner,
		events:   events,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *queryService) CreateGroup(ctx context.Context, in CreateGroupInput) (model.QueryGroup, error) {
	appNumber := strings.TrimSpace(in.AppNumber)
	submittedBy := strings.TrimSpace(in.SubmittedBy)
	if appNumber == "" {
		return model.QueryGroup{}, fmt.Errorf("%w: appNo is required", ErrValidation)
	}
	if submittedBy == "" {
		return model.QueryGroup{}, fmt.Errorf("%w: submittedBy is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return model.QueryGroup{}, fmt.Errorf("%w: at least one query is required", ErrValidation)
	}

	teams, err := routing.ParseSendTo(in.SendTo)
	if err != nil {
		return model.QueryGroup{}, validationErr(err)
	}

	items := make([]model.QueryItem, len(in.Items))
	for i, it := range in.Items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			return model.QueryGroup{}, fmt.Errorf("%w: query %d is empty", ErrValidation, i+1)
		}
		marking, err := routing.ItemMarking(teams, it.SendTo)
		if err != nil {
			return model.QueryGroup{}, fmt.Errorf("%w: query %d: %w", ErrValidation, i+1, err)
		}
		items[i] = model.QueryItem{Position: i, Text: text, MarkedFor: marking}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		AppNumber: &appNumber,
		Actor:     &submittedBy,
		Component: "querydesk.service.query",
	})
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	app, err := s.apps.GetByNumber(ctx, appNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.QueryGroup{}, fmt.Errorf("%w: application %q", ErrNotFound, appNumber)
		}
		return model.QueryGroup{}, storageErr("fetching application", err)
	}

	var created model.QueryGroup
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		group, err := sp.QueryGroups().Create(ctx, model.QueryGroup{
			AppNumber:    app.AppNumber,
			CustomerName: app.CustomerName,
			Branch:       app.Branch,
			BranchCode:   app.BranchCode,
			SubmittedBy:  submittedBy,
			SubmittedAt:  s.now().UTC(),
			TargetTeams:  teams,
		})
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		for _, item := range items {
			item.GroupID = group.ID
			saved, err := sp.QueryItems().Create(ctx, item)
			if err != nil {
				return fmt.Errorf("creating item %d: %w", item.Position, err)
			}
			group.Items = append(group.Items, saved)
		}
		created = group
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create query group", "error", err)
		return model.QueryGroup{}, storageErr("creating query group", err)
	}

	metrics.QueryGroupsCreated.Inc()
	slog.InfoContext(ctx, "query group created",
		"group_id", created.ID,
		"items", len(created.Items),
		"target_teams", teams)

	publish(ctx, s.events, queue.QueryEvent{
		EventType: queue.EventGroupCreated,
		GroupID:   created.ID,
	})

	return created, nil
}

func (s *queryService) ListGroups(ctx context.Context, filter model.GroupFilter) ([]model.QueryGroup, error) {
	if filter.Status == "" {
		filter.Status = model.StatusFilterAll
	}
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, storageErr("listing query groups", err)
	}
	if len(groups) == 0 {
		return []model.QueryGroup{}, nil
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	items, err := s.items.ListByGroups(ctx, ids, filter.Team)
	if err != nil {
		return nil, storageErr("listing query items", err)
	}

	byGroup := make(map[string][]model.QueryItem, len(groups))
	for _, it := range items {
		byGroup[it.GroupID] = append(byGroup[it.GroupID], it)
	}
	for i := range groups {
		groups[i].Items = byGroup[groups[i].ID]
		if groups[i].Items == nil {
			groups[i].Items = []model.QueryItem{}
		}
	}
	return groups, nil
}

func (s *queryService) GetGroup(ctx context.Context, id string, team model.Team) (model.QueryGroup, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.QueryGroup{}, fmt.Errorf("%w: query group %q", ErrNotFound, id)
		}
		return model.QueryGroup{}, storageErr("fetching query group", err)
	}

	items, err := s.items.ListByGroups(ctx, []string{group.ID}, team)
	if err != nil {
		return model.QueryGroup{}, storageErr("listing query items", err)
	}
	if team != "" && len(items) == 0 {
		return model.QueryGroup{}, fmt.Errorf("%w: team %s has no queries in group %q", ErrUnauthorized, team, id)
	}
	group.Items = items
	return group, nil
}

func (s *queryService) GetItem(ctx context.Context, id string, team model.Team) (model.QueryItem, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.QueryItem{}, fmt.Errorf("%w: query item %q", ErrNotFound, id)
		}
		return model.QueryItem{}, storageErr("fetching query item", err)
	}
	if team != "" && !routing.CanRead(team, item) {
		return model.QueryItem{}, fmt.Errorf("%w: query item %q is not routed to %s", ErrUnauthorized, id, team)
	}
	return item, nil
}

func (s *queryService) Stats(ctx context.Context, team model.Team) (model.ItemStats, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.items.Stats(ctx, team)
	if err != nil {
		return model.ItemStats{}, storageErr("computing stats", err)
	}
	return stats, nil
}

// publish sends an event for a change that has already committed.
// Failures are logged only.
func publish(ctx context.Context, events queue.Producer, event queue.QueryEvent) {
	if events == nil {
		return
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		spanID := logger.SpanIDFromContext(ctx)
		event.TraceID = &traceID
		event.SpanID = &spanID
	}
	if err := events.Publish(context.WithoutCancel(ctx), event); err != nil {
		slog.WarnContext(ctx, "failed to publish query event",
			"error", err,
			"event_type", event.EventType,
			"group_id", event.GroupID,
			"item_id", event.ItemID)
	}
}
