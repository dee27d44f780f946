package mpa

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinora/kinora/internal/platform/database/schema"
	"github.com/kinora/kinora/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Rating, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.Mpa.ID,
		schema.Mpa.Name,
		schema.Mpa.Table,
		schema.Mpa.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_mpa")
	}
	defer rows.Close()

	var ratings []*Rating
	for rows.Next() {
		r := &Rating{}
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_mpa")
		}
		ratings = append(ratings, r)
	}

	return ratings, nil
}

func (repository *PostgresRepository) Get(context context.Context, id int) (*Rating, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.Mpa.ID,
		schema.Mpa.Name,
		schema.Mpa.Table,
		schema.Mpa.ID,
	)

	r := &Rating{}
	err := repository.db.QueryRow(context, query, id).Scan(&r.ID, &r.Name)
	if err != nil {
		return nil, dberr.Wrap(err, "get_mpa")
	}
	return r, nil
}
