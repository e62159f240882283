package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/model"
)

type applicationStore struct {
	queries *sqlc.Queries
}

func newApplicationStore(queries *sqlc.Queries) ApplicationStore {
	return &applicationStore{queries: queries}
}

func (s *applicationStore) GetByNumber(ctx context.Context, appNumber string) (model.Application, error) {
	row, err := s.queries.GetApplicationByNumber(ctx, appNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, ErrNotFound
		}
		return model.Application{}, err
	}
	return model.Application{
		AppNumber:    row.AppNumber,
		CustomerName: row.CustomerName,
		Branch:       row.Branch,
		BranchCode:   row.BranchCode,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt.Time,
	}, nil
}

type personnelStore struct {
	queries *sqlc.Queries
}

func newPersonnelStore(queries *sqlc.Queries) PersonnelStore {
	return &personnelStore{queries: queries}
}

func (s *personnelStore) ListActive(ctx context.Context) ([]model.Person, error) {
	rows, err := s.queries.ListActivePersonnel(ctx)
	if err != nil {
		return nil, err
	}
	people := make([]model.Person, len(rows))
	for i, row := range rows {
		people[i] = model.Person{Name: row.Name, Team: row.Team, Active: row.Active}
	}
	return people, nil
}
