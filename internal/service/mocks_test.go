package service_test

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/routing"
	"querydesk.app/engine/internal/service"
	"querydesk.app/engine/internal/store"
)

// memDB is an in-memory stand-in for the Postgres stores. Transactions are
// serialised and roll back by restoring a snapshot.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	apps      map[string]model.Application
	people    []model.Person
	groups    map[string]model.QueryGroup
	items     map[string]model.QueryItem
	entries   []model.ThreadEntry
	processed map[int64]bool
	daily     map[string]int64
	nextID    int64
}

func newMemDB() *memDB {
	return &memDB{
		apps:      map[string]model.Application{},
		groups:    map[string]model.QueryGroup{},
		items:     map[string]model.QueryItem{},
		processed: map[int64]bool{},
		daily:     map[string]int64{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addApp(app model.Application) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.apps[strings.ToLower(app.AppNumber)] = app
}

func (db *memDB) item(id string) model.QueryItem {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.items[id]
}

func (db *memDB) entriesFor(itemID string) []model.ThreadEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.ThreadEntry
	for _, e := range db.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out
}

type memApps struct{ db *memDB }

func (s memApps) GetByNumber(_ context.Context, appNumber string) (model.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	app, ok := s.db.apps[strings.ToLower(appNumber)]
	if !ok {
		return model.Application{}, store.ErrNotFound
	}
	return app, nil
}

type memPersonnel struct {
	db     *memDB
	calls  int
	listFn func(ctx context.Context) ([]model.Person, error)
}

func (s *memPersonnel) ListActive(ctx context.Context) ([]model.Person, error) {
	s.calls++
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return slices.Clone(s.db.people), nil
}

type memGroups struct{ db *memDB }

func (s memGroups) Create(_ context.Context, g model.QueryGroup) (model.QueryGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g.ID = "g" + strconv.FormatInt(s.db.id(), 10)
	s.db.groups[g.ID] = g
	return g, nil
}

func (s memGroups) GetByID(_ context.Context, id string) (model.QueryGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g, ok := s.db.groups[id]
	if !ok {
		return model.QueryGroup{}, store.ErrNotFound
	}
	return g, nil
}

func (s memGroups) List(_ context.Context, filter model.GroupFilter) ([]model.QueryGroup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	visible := routing.MarkedForFilter(filter.Team)
	var out []model.QueryGroup
	for _, g := range s.db.groups {
		for _, it := range s.db.items {
			if it.GroupID == g.ID && slices.Contains(visible, string(it.MarkedFor)) && filter.Status.Matches(it.Status) {
				out = append(out, g)
				break
			}
		}
	}
	slices.SortFunc(out, func(a, b model.QueryGroup) int { return strings.Compare(b.ID, a.ID) })
	return out, nil
}

type memItems struct {
	db           *memDB
	getByIDFn    func(ctx context.Context, id string) (model.QueryItem, error)
	transitionFn func(ctx context.Context, from model.ItemStatus, next model.QueryItem) (model.QueryItem, error)
}

func (s *memItems) Create(_ context.Context, it model.QueryItem) (model.QueryItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	it.ID = "i" + strconv.FormatInt(s.db.id(), 10)
	it.Status = model.ItemStatusPending
	s.db.items[it.ID] = it
	return it, nil
}

func (s *memItems) GetByID(ctx context.Context, id string) (model.QueryItem, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	it, ok := s.db.items[id]
	if !ok {
		return model.QueryItem{}, store.ErrNotFound
	}
	return it, nil
}

func (s *memItems) GetForUpdate(ctx context.Context, id string) (model.QueryItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	it, ok := s.db.items[id]
	if !ok {
		return model.QueryItem{}, store.ErrNotFound
	}
	return it, nil
}

func (s *memItems) ListByGroups(_ context.Context, groupIDs []string, team model.Team) ([]model.QueryItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	visible := routing.MarkedForFilter(team)
	var out []model.QueryItem
	for _, it := range s.db.items {
		if slices.Contains(groupIDs, it.GroupID) && slices.Contains(visible, string(it.MarkedFor)) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b model.QueryItem) int { return a.Position - b.Position })
	return out, nil
}

func (s *memItems) Transition(ctx context.Context, from model.ItemStatus, next model.QueryItem) (model.QueryItem, error) {
	if s.transitionFn != nil {
		return s.transitionFn(ctx, from, next)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.items[next.ID]
	if !ok || cur.Status != from {
		return model.QueryItem{}, store.ErrStatusChanged
	}
	s.db.items[next.ID] = next
	return next, nil
}

func (s *memItems) Stats(_ context.Context, team model.Team) (model.ItemStats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	visible := routing.MarkedForFilter(team)
	var st model.ItemStats
	groups := map[string]bool{}
	for _, it := range s.db.items {
		if !slices.Contains(visible, string(it.MarkedFor)) {
			continue
		}
		st.Total++
		groups[it.GroupID] = true
		switch it.Status {
		case model.ItemStatusPending:
			st.Pending++
		case model.ItemStatusApproved:
			st.Approved++
		case model.ItemStatusDeferred:
			st.Deferred++
		case model.ItemStatusOTC:
			st.OTC++
		}
	}
	st.Resolved = st.Approved + st.Deferred + st.OTC
	st.Groups = int64(len(groups))
	return st, nil
}

type memThreads struct {
	db       *memDB
	appendFn func(ctx context.Context, e model.ThreadEntry) (model.ThreadEntry, error)
}

func (s *memThreads) Append(ctx context.Context, e model.ThreadEntry) (model.ThreadEntry, error) {
	if s.appendFn != nil {
		return s.appendFn(ctx, e)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if e.RequestID != nil {
		for _, existing := range s.db.entries {
			if existing.ItemID == e.ItemID && existing.RequestID != nil && *existing.RequestID == *e.RequestID {
				return model.ThreadEntry{}, store.ErrDuplicateRequest
			}
		}
	}
	e.ID = s.db.id()
	e.Seq = e.ID
	e.CreatedAt = time.Now().UTC()
	s.db.entries = append(s.db.entries, e)
	return e, nil
}

func (s *memThreads) GetByID(_ context.Context, id int64) (model.ThreadEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, e := range s.db.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.ThreadEntry{}, store.ErrNotFound
}

func (s *memThreads) GetByRequestID(_ context.Context, itemID, requestID string) (model.ThreadEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, e := range s.db.entries {
		if e.ItemID == itemID && e.RequestID != nil && *e.RequestID == requestID {
			return e, nil
		}
	}
	return model.ThreadEntry{}, store.ErrNotFound
}

func (s *memThreads) ListByItem(_ context.Context, filter model.HistoryFilter) ([]model.ThreadEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.ThreadEntry
	for _, e := range s.db.entries {
		if e.ItemID != filter.ItemID || e.Seq <= filter.AfterSeq {
			continue
		}
		if filter.ActionsOnly && e.Kind != model.EntryKindAction {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memReports struct{ db *memDB }

func reportKey(day time.Time, team model.Team, action model.ActionType) string {
	return day.UTC().Format(time.DateOnly) + "|" + string(team) + "|" + string(action)
}

func (s memReports) MarkProcessed(_ context.Context, entryID int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.processed[entryID] {
		return false, nil
	}
	s.db.processed[entryID] = true
	return true, nil
}

func (s memReports) Increment(_ context.Context, day time.Time, team model.Team, action model.ActionType) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.daily[reportKey(day, team, action)]++
	return nil
}

func (s memReports) ListDaily(_ context.Context, filter model.ReportFilter) ([]model.DailyActionCount, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.DailyActionCount
	for _, k := range slices.Sorted(maps.Keys(s.db.daily)) {
		parts := strings.Split(k, "|")
		day, _ := time.Parse(time.DateOnly, parts[0])
		if filter.Team != "" && parts[1] != string(filter.Team) {
			continue
		}
		out = append(out, model.DailyActionCount{Day: day, Team: model.Team(parts[1]), Action: model.ActionType(parts[2]), Count: s.db.daily[k]})
	}
	return out, nil
}

func (s memReports) Rebuild(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.daily = map[string]int64{}
	for _, e := range s.db.entries {
		if e.Kind == model.EntryKindAction && e.Action != nil {
			s.db.daily[reportKey(e.CreatedAt, e.ActorTeam, *e.Action)]++
			s.db.processed[e.ID] = true
		}
	}
	return int64(len(s.db.daily)), nil
}

// memStores implements service.StoreProvider over one memDB.
type memStores struct {
	db      *memDB
	items   *memItems
	threads *memThreads
}

func newMemStores(db *memDB) *memStores {
	return &memStores{db: db, items: &memItems{db: db}, threads: &memThreads{db: db}}
}

func (s *memStores) QueryGroups() store.QueryGroupStore { return memGroups{db: s.db} }
func (s *memStores) QueryItems() store.QueryItemStore   { return s.items }
func (s *memStores) Threads() store.ThreadStore         { return s.threads }
func (s *memStores) Reports() store.ReportStore         { return memReports{db: s.db} }

type memTxRunner struct {
	stores *memStores
	calls  int
}

func (r *memTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	db := r.stores.db
	db.txMu.Lock()
	defer db.txMu.Unlock()
	r.calls++

	db.mu.Lock()
	items := maps.Clone(db.items)
	groups := maps.Clone(db.groups)
	entries := slices.Clone(db.entries)
	processed := maps.Clone(db.processed)
	daily := maps.Clone(db.daily)
	db.mu.Unlock()

	if err := fn(r.stores); err != nil {
		db.mu.Lock()
		db.items, db.groups, db.entries, db.processed, db.daily = items, groups, entries, processed, daily
		db.mu.Unlock()
		return err
	}
	return nil
}

type mockRoster struct {
	lookupFn func(ctx context.Context, name string) (string, bool, error)
}

func (m *mockRoster) Lookup(ctx context.Context, name string) (string, bool, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, name)
	}
	return name, true, nil
}

type mockProducer struct {
	mu        sync.Mutex
	events    []queue.QueryEvent
	publishFn func(ctx context.Context, event queue.QueryEvent) error
}

func (m *mockProducer) Publish(ctx context.Context, event queue.QueryEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) published() []queue.QueryEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}
