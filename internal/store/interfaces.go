package store

import (
	"context"
	"errors"
	"time"

	"querydesk.app/engine/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrStatusChanged is returned by a conditional transition whose expected
	// status no longer matches the row.
	ErrStatusChanged = errors.New("item status changed")

	// ErrDuplicateRequest is returned when a thread entry reuses a request id
	// already recorded for the same item.
	ErrDuplicateRequest = errors.New("duplicate request id")
)

// ApplicationStore reads the external application registry.
type ApplicationStore interface {
	// GetByNumber matches case-insensitively.
	GetByNumber(ctx context.Context, appNumber string) (model.Application, error)
}

// PersonnelStore reads the operations-maintained roster.
type PersonnelStore interface {
	ListActive(ctx context.Context) ([]model.Person, error)
}

// QueryGroupStore defines the contract for query group data access.
// Groups are returned without items; QueryItemStore loads those.
type QueryGroupStore interface {
	Create(ctx context.Context, group model.QueryGroup) (model.QueryGroup, error)
	GetByID(ctx context.Context, id string) (model.QueryGroup, error)
	List(ctx context.Context, filter model.GroupFilter) ([]model.QueryGroup, error)
}

// QueryItemStore defines the contract for query item data access.
type QueryItemStore interface {
	Create(ctx context.Context, item model.QueryItem) (model.QueryItem, error)
	GetByID(ctx context.Context, id string) (model.QueryItem, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (model.QueryItem, error)
	// ListByGroups returns the items of the given groups that team can read,
	// ordered by group then position.
	ListByGroups(ctx context.Context, groupIDs []string, team model.Team) ([]model.QueryItem, error)
	// Transition writes next only if the stored status still equals from.
	Transition(ctx context.Context, from model.ItemStatus, next model.QueryItem) (model.QueryItem, error)
	Stats(ctx context.Context, team model.Team) (model.ItemStats, error)
}

// ThreadStore is the append-only ledger of thread entries.
type ThreadStore interface {
	Append(ctx context.Context, entry model.ThreadEntry) (model.ThreadEntry, error)
	GetByID(ctx context.Context, id int64) (model.ThreadEntry, error)
	GetByRequestID(ctx context.Context, itemID, requestID string) (model.ThreadEntry, error)
	ListByItem(ctx context.Context, filter model.HistoryFilter) ([]model.ThreadEntry, error)
}

// ReportStore maintains the daily action aggregate.
type ReportStore interface {
	// MarkProcessed returns false if the entry was already counted.
	MarkProcessed(ctx context.Context, entryID int64) (bool, error)
	Increment(ctx context.Context, day time.Time, team model.Team, action model.ActionType) error
	ListDaily(ctx context.Context, filter model.ReportFilter) ([]model.DailyActionCount, error)
	// Rebuild recomputes the aggregate from the ledger. Run it inside a transaction.
	Rebuild(ctx context.Context) (int64, error)
}
