package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrForeignKey = errors.New("foreign key constraint violated")
	ErrDuplicate  = errors.New("unique constraint violated")
)

// Queries holds every catalog statement. It runs either directly on the
// driver (Client) or on an open transaction (WithTx).
type Queries struct {
	conn    dialect.ExecQuerier
	dialect string
	b       *entsql.DialectBuilder
}

func newQueries(conn dialect.ExecQuerier, name string) *Queries {
	return &Queries{
		conn:    conn,
		dialect: name,
		b:       entsql.Dialect(name),
	}
}

func (q *Queries) Dialect() string {
	return q.dialect
}

// classify tags driver constraint errors with the package sentinels so that
// callers can use errors.Is without knowing the dialect.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case sqlgraph.IsForeignKeyConstraintError(err):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case sqlgraph.IsUniqueConstraintError(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}

func (q *Queries) query(ctx context.Context, stmt entsql.Querier, scan func(rows *entsql.Rows) error) error {
	query, args := stmt.Query()

	rows := &entsql.Rows{}
	if err := q.conn.Query(ctx, query, args, rows); err != nil {
		return classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (q *Queries) exec(ctx context.Context, stmt entsql.Querier) (int64, error) {
	query, args := stmt.Query()

	var res sql.Result
	if err := q.conn.Exec(ctx, query, args, &res); err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// insert runs stmt and returns the generated id. MySQL has no RETURNING
// clause so it falls back to LastInsertId.
func (q *Queries) insert(ctx context.Context, stmt *entsql.InsertBuilder) (int, error) {
	if q.dialect == dialect.MySQL {
		query, args := stmt.Query()

		var res sql.Result
		if err := q.conn.Exec(ctx, query, args, &res); err != nil {
			return 0, classify(err)
		}
		id, err := res.LastInsertId()
		return int(id), err
	}

	var id int
	found := false
	err := q.query(ctx, stmt.Returning("id"), func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.New("insert returned no id")
	}
	return id, nil
}

func (q *Queries) count(ctx context.Context, table string, p *entsql.Predicate) (int, error) {
	var n int
	err := q.query(ctx, q.b.Select(entsql.Count("*")).From(q.b.Table(table)).Where(p), func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

func (q *Queries) exists(ctx context.Context, table string, id int) (bool, error) {
	n, err := q.count(ctx, table, entsql.EQ("id", id))
	return n > 0, err
}

// nullTime and nullString turn optional audit stamps into driver values.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
