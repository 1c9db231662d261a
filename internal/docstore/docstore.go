// Package docstore is the document database contract the rest of the
// application talks to: named collections of untyped field bags, equality
// filters, single-field ordering, and an explicit unit of work for atomic
// multi-document deletes.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// TimeLayout is the fixed-width UTC layout timestamps are stored in, so that
// ordering by the string value orders by time.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp written by FormatTime. RFC 3339 values are
// accepted too.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Document is one stored record. Fields holds the decoded JSON body; numbers
// decode as json.Number.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter restricts a query to documents whose field equals Value.
type Filter struct {
	Field string
	Value any
}

// Query selects documents from one collection.
type Query struct {
	Collection string
	Where      []Filter
	OrderBy    string
	Descending bool
}

// Store is the document database client.
type Store interface {
	Query(ctx context.Context, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork stages deletes and applies them in a single commit. Reads made
// through it see the same snapshot the commit applies to. Either every staged
// delete is applied or none is.
type UnitOfWork interface {
	Query(ctx context.Context, q Query) ([]Document, error)
	Delete(collection, id string)
	Commit(ctx context.Context) error
	// Rollback discards staged work. It is a no-op after Commit.
	Rollback() error
}

// Observer is told about every store operation once it finishes.
type Observer interface {
	ObserveOperation(collection, op string, d time.Duration, err error)
}
