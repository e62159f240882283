package store

import (
	"querydesk.app/engine/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Applications() ApplicationStore {
	return newApplicationStore(s.queries)
}

func (s *Stores) Personnel() PersonnelStore {
	return newPersonnelStore(s.queries)
}

func (s *Stores) QueryGroups() QueryGroupStore {
	return newQueryGroupStore(s.queries)
}

func (s *Stores) QueryItems() QueryItemStore {
	return newQueryItemStore(s.queries)
}

func (s *Stores) Threads() ThreadStore {
	return newThreadStore(s.queries)
}

func (s *Stores) Reports() ReportStore {
	return newReportStore(s.queries)
}
