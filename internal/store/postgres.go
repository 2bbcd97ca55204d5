package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

// Postgres implements Store on a single documents table.
type Postgres struct {
	pool *pgxpool.Pool
	ops
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ops implements Ops against a querier. Inside a transaction forUpdate is
// set so Get takes a row lock.
type ops struct {
	q         querier
	forUpdate bool
}

// NewPostgres wraps the pool and ensures the documents table exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, documentsSchema); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Postgres{pool: pool, ops: ops{q: pool}}, nil
}

func (o ops) Get(ctx context.Context, collection, id string, dest any) error {
	if o.forUpdate {
		// FOR UPDATE on an absent row locks nothing, so two transactions
		// initializing the same document would both read it as missing and
		// both write serial 1. The advisory lock covers the key whether or
		// not the row exists yet; it is released at commit or rollback.
		if _, err := o.q.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`,
			collection, id); err != nil {
			return err
		}
	}
	q := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if o.forUpdate {
		q += ` FOR UPDATE`
	}
	var data []byte
	err := o.q.QueryRow(ctx, q, collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (o ops) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = o.q.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, data)
	return err
}

func (o ops) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = o.q.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data`,
		collection, id, data)
	return err
}

func (o ops) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	tag, err := o.q.Exec(ctx, `
		UPDATE documents SET data = data || $3
		WHERE collection = $1 AND id = $2`,
		collection, id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (o ops) Delete(ctx context.Context, collection, id string) error {
	_, err := o.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return err
}

func (p *Postgres) Query(ctx context.Context, collection string, filters map[string]any) ([]Doc, error) {
	filter, err := json.Marshal(filters)
	if err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, data FROM documents
		WHERE collection = $1 AND data @> $2
		ORDER BY id`,
		collection, filter)
	if err != nil {
		return nil, err
	}
	return collectDocs(rows)
}

func (p *Postgres) StreamAll(ctx context.Context, collection string) ([]Doc, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`,
		collection)
	if err != nil {
		return nil, err
	}
	return collectDocs(rows)
}

func collectDocs(rows pgx.Rows) ([]Doc, error) {
	defer rows.Close()
	var docs []Doc
	for rows.Next() {
		var d Doc
		var data []byte
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (p *Postgres) Transact(ctx context.Context, fn func(tx Ops) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ops{q: tx, forUpdate: true}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
