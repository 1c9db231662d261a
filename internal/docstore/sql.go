package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/wardbook/internal/database"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLStore keeps documents as JSON bodies in the documents table.
type SQLStore struct {
	db       *database.DB
	observer Observer
	newID    func() string
}

// NewSQLStore returns a Store over db. observer may be nil.
func NewSQLStore(db *database.DB, observer Observer) *SQLStore {
	return &SQLStore{
		db:       db,
		observer: observer,
		newID:    uuid.NewString,
	}
}

func (s *SQLStore) observe(collection, op string, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(collection, op, time.Since(start), err)
	}
}

func (s *SQLStore) Query(ctx context.Context, q Query) (docs []Document, err error) {
	defer func(start time.Time) { s.observe(q.Collection, "query", start, err) }(time.Now())
	return runQuery(ctx, s.db.DB, s.db.Dialect, q)
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (doc *Document, err error) {
	defer func(start time.Time) { s.observe(collection, "get", start, err) }(time.Now())

	var raw []byte
	err = s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT data FROM documents WHERE collection = ? AND id = ?`),
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Fields: fields}, nil
}

func (s *SQLStore) Add(ctx context.Context, collection string, fields map[string]any) (id string, err error) {
	defer func(start time.Time) { s.observe(collection, "add", start, err) }(time.Now())

	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id = s.newID()
	_, err = s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`),
		collection, id, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, fields map[string]any) (err error) {
	defer func(start time.Time) { s.observe(collection, "update", start, err) }(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		s.db.Rebind(`SELECT data FROM documents WHERE collection = ? AND id = ?`),
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s/%s: %w", collection, id, err)
	}

	existing, err := decodeFields(raw)
	if err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		existing[k] = v
	}

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		s.db.Rebind(`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`),
		string(data), collection, id,
	); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) (err error) {
	defer func(start time.Time) { s.observe(collection, "delete", start, err) }(time.Now())
	return deleteOne(ctx, s.db.DB, s.db.Dialect, collection, id)
}

func (s *SQLStore) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &sqlUnitOfWork{tx: tx, store: s}, nil
}

type stagedDelete struct {
	collection string
	id         string
}

type sqlUnitOfWork struct {
	tx     *sql.Tx
	store  *SQLStore
	staged []stagedDelete
	done   bool
}

func (u *sqlUnitOfWork) Query(ctx context.Context, q Query) (docs []Document, err error) {
	defer func(start time.Time) { u.store.observe(q.Collection, "query", start, err) }(time.Now())
	return runQuery(ctx, u.tx, u.store.db.Dialect, q)
}

func (u *sqlUnitOfWork) Delete(collection, id string) {
	u.staged = append(u.staged, stagedDelete{collection: collection, id: id})
}

func (u *sqlUnitOfWork) Commit(ctx context.Context) (err error) {
	defer func(start time.Time) { u.store.observe("batch", "commit", start, err) }(time.Now())

	if u.done {
		return errors.New("unit of work already finished")
	}
	u.done = true

	for _, d := range u.staged {
		if err := deleteOne(ctx, u.tx, u.store.db.Dialect, d.collection, d.id); err != nil {
			u.tx.Rollback()
			return err
		}
	}
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (u *sqlUnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteOne(ctx context.Context, db execer, dialect database.Dialect, collection, id string) error {
	res, err := db.ExecContext(ctx,
		dialect.Rebind(`DELETE FROM documents WHERE collection = ? AND id = ?`),
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func runQuery(ctx context.Context, db queryer, dialect database.Dialect, q Query) ([]Document, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	args := []any{q.Collection}

	for _, f := range q.Where {
		if !database.ValidField(f.Field) {
			return nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		clause, arg, err := dialect.FieldEquals(f.Field, f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}
		sb.WriteString(" AND " + clause)
		args = append(args, arg)
	}

	if q.OrderBy != "" {
		if !database.ValidField(q.OrderBy) {
			return nil, fmt.Errorf("invalid order field %q", q.OrderBy)
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		sb.WriteString(" ORDER BY " + dialect.FieldExpr(q.OrderBy) + " " + dir + ", id")
	} else {
		sb.WriteString(" ORDER BY id")
	}

	rows, err := db.QueryContext(ctx, dialect.Rebind(sb.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", q.Collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func decodeFields(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	fields := map[string]any{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
