// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/rankeverything/internal/platform/database/schema"
	"github.com/taibuivan/rankeverything/internal/platform/dberr"
	"github.com/taibuivan/rankeverything/internal/platform/postgres"
	"github.com/taibuivan/rankeverything/pkg/query"
	"github.com/taibuivan/rankeverything/pkg/ranking"
)

// # PostgreSQL Store

// PostgresRepository is the [Repository] backed by a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository wraps an open pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// thingColumns is the select list every read shares, in scan order.
var thingColumns = strings.Join(schema.RankThing.Columns(), ", ")

// scanThing reads one row selected with thingColumns (plus any trailing dest).
func scanThing(row pgx.Row, extra ...any) (*Thing, error) {
	t := &Thing{}
	dest := append([]any{
		&t.ID, &t.Name, &t.NameKey, &t.ImageURL, &t.Description,
		&t.Likes, &t.Dislikes, &t.Adult, &t.CreatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return t, nil
}

func (repository *PostgresRepository) Insert(context context.Context, t *Thing) (int64, error) {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.RankThing.Table,
		schema.RankThing.Name, schema.RankThing.NameKey, schema.RankThing.ImageURL,
		schema.RankThing.Description, schema.RankThing.Adult,
		schema.RankThing.ID, schema.RankThing.CreatedAt,
	)

	err := repository.db.QueryRow(context, sql,
		t.Name, t.NameKey, t.ImageURL, t.Description, t.Adult,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return 0, dberr.Wrap(err, "insert_thing")
	}

	return t.ID, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Thing, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		thingColumns, schema.RankThing.Table, schema.RankThing.ID)

	t, err := scanThing(repository.db.QueryRow(context, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_thing_by_id")
	}
	return t, nil
}

func (repository *PostgresRepository) ExistsByName(context context.Context, nameKey string) (bool, error) {
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.RankThing.Table, schema.RankThing.NameKey)

	var exists bool
	if err := repository.db.QueryRow(context, sql, nameKey).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "exists_thing_by_name")
	}
	return exists, nil
}

func (repository *PostgresRepository) IncrementLike(context context.Context, id int64) error {
	return increment(context, repository.db, schema.RankThing.Likes, id)
}

func (repository *PostgresRepository) IncrementDislike(context context.Context, id int64) error {
	return increment(context, repository.db, schema.RankThing.Dislikes, id)
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// increment adds one to column in a single statement.
func increment(context context.Context, db execer, column string, id int64) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.RankThing.Table, column, column, schema.RankThing.ID)

	tag, err := db.Exec(context, sql, id)
	if err != nil {
		return dberr.Wrap(err, "increment_"+column)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

/*
ApplyVote records both halves of a vote in one transaction.

Rows are updated in ascending id order, so two concurrent votes over the same
pair always lock in the same order and cannot deadlock each other.
*/
func (repository *PostgresRepository) ApplyVote(context context.Context, winnerID, loserID int64) error {
	err := pgx.BeginFunc(context, repository.db, func(tx pgx.Tx) error {
		steps := []struct {
			column string
			id     int64
		}{
			{schema.RankThing.Likes, winnerID},
			{schema.RankThing.Dislikes, loserID},
		}
		if loserID < winnerID {
			steps[0], steps[1] = steps[1], steps[0]
		}

		for _, step := range steps {
			if err := increment(context, tx, step.column, step.id); err != nil {
				return err
			}
		}
		return nil
	})
	return dberr.Wrap(err, "apply_vote")
}

// adultFilter renders the predicate admitting adult rows only when $n is true.
func adultFilter(placeholder string) string {
	return fmt.Sprintf(`(%s::boolean OR %s = FALSE)`, placeholder, schema.RankThing.Adult)
}

func (repository *PostgresRepository) Count(context context.Context, includeAdult bool) (int, error) {
	sql := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`,
		schema.RankThing.Table, adultFilter("$1"))

	var count int
	if err := repository.db.QueryRow(context, sql, includeAdult).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_things")
	}
	return count, nil
}

func (repository *PostgresRepository) FindAtPositions(context context.Context, includeAdult bool, positions []int) ([]*Thing, error) {
	if len(positions) == 0 {
		return nil, nil
	}

	wanted := make([]int64, len(positions))
	for i, position := range positions {
		wanted[i] = int64(position)
	}

	sql := fmt.Sprintf(`
		SELECT %[1]s, pos FROM (
			SELECT %[1]s, row_number() OVER (ORDER BY %[2]s) - 1 AS pos
			FROM %[3]s
			WHERE %[4]s
		) ranked
		WHERE pos = ANY($2)`,
		thingColumns, schema.RankThing.ID, schema.RankThing.Table, adultFilter("$1"))

	rows, err := repository.db.Query(context, sql, includeAdult, wanted)
	if err != nil {
		return nil, dberr.Wrap(err, "find_things_at_positions")
	}
	defer rows.Close()

	byPosition := make(map[int64]*Thing, len(positions))
	for rows.Next() {
		var position int64
		t, err := scanThing(rows, &position)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_thing")
		}
		byPosition[position] = t
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "find_things_at_positions")
	}

	return orderByPositions(byPosition, positions), nil
}

func (repository *PostgresRepository) Search(context context.Context, q SearchQuery) ([]*Thing, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s LIKE $1 ESCAPE '\' AND %s
		ORDER BY %s %s, %s ASC
		LIMIT $3`,
		thingColumns, schema.RankThing.Table,
		schema.RankThing.NameKey, adultFilter("$2"),
		ranking.OrderExpr(schema.RankThing.Likes, schema.RankThing.Dislikes), direction(q.Ascending),
		schema.RankThing.ID,
	)

	rows, err := repository.db.Query(context, sql, query.Contains(q.Text), q.IncludeAdult, q.Limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search_things")
	}
	defer rows.Close()

	things := make([]*Thing, 0, q.Limit)
	for rows.Next() {
		t, err := scanThing(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_thing")
		}
		things = append(things, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "search_things")
	}

	return things, nil
}

func (repository *PostgresRepository) Ping(context context.Context) error {
	if err := postgres.Ping(context, repository.db); err != nil {
		return dberr.Wrap(err, "ping")
	}
	return nil
}

// # Shared Helpers

// direction renders the score sort direction.
func direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}

// orderByPositions lays rows out in the order their positions were requested.
func orderByPositions(byPosition map[int64]*Thing, positions []int) []*Thing {
	things := make([]*Thing, 0, len(positions))
	for _, position := range positions {
		if t, ok := byPosition[int64(position)]; ok {
			things = append(things, t)
		}
	}
	return things
}
