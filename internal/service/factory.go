package service

import (
	"time"

	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/store"
)

type Services struct {
	stores       *store.Stores
	txRunner     TxRunner
	roster       Roster
	events       queue.Producer
	storeTimeout time.Duration
}

func NewServices(stores *store.Stores, txRunner TxRunner, roster Roster, events queue.Producer, storeTimeout time.Duration) *Services {
	return &Services{
		stores:       stores,
		txRunner:     txRunner,
		roster:       roster,
		events:       events,
		storeTimeout: storeTimeout,
	}
}

func (s *Services) Queries() QueryService {
	return NewQueryService(
		s.stores.Applications(),
		s.stores.QueryGroups(),
		s.stores.QueryItems(),
		s.txRunner,
		s.events,
		s.storeTimeout,
	)
}

func (s *Services) Actions() ActionService {
	return NewActionService(
		s.stores.QueryItems(),
		s.stores.Threads(),
		s.roster,
		s.txRunner,
		s.events,
		s.storeTimeout,
	)
}

func (s *Services) Reports() ReportService {
	return NewReportService(s.stores.Threads(), s.stores.Reports(), s.txRunner)
}
