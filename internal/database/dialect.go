package database

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect hides the SQL differences between the supported backends. Document
// bodies live in a JSON column, so the dialect also knows how to reach into it.
type Dialect interface {
	// Name identifies the backend ("sqlite" or "postgres").
	Name() string

	// Rebind converts ? placeholders to the backend's syntax.
	Rebind(query string) string

	// FieldExpr returns an expression selecting a top-level JSON field of the
	// data column, usable in ORDER BY.
	FieldExpr(field string) string

	// FieldEquals returns a WHERE clause comparing a top-level JSON field to
	// value, plus the argument to bind for its placeholder.
	FieldEquals(field string, value any) (string, any, error)

	gooseDialect() string
	migrationsDir() string
}

var fieldNameRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidField reports whether a field name is safe to interpolate into SQL.
func ValidField(field string) bool {
	return fieldNameRegexp.MatchString(field)
}

type sqliteDialect struct{}

// SQLite is the default, embedded backend (modernc.org/sqlite).
var SQLite Dialect = sqliteDialect{}

func (sqliteDialect) Name() string           { return "sqlite" }
func (sqliteDialect) Rebind(q string) string { return q }
func (sqliteDialect) gooseDialect() string   { return "sqlite3" }
func (sqliteDialect) migrationsDir() string  { return "migrations/sqlite" }

func (sqliteDialect) FieldExpr(field string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", field)
}

func (d sqliteDialect) FieldEquals(field string, value any) (string, any, error) {
	switch value.(type) {
	case string, bool, int, int64, float64:
	default:
		return "", nil, fmt.Errorf("unsupported filter value type %T", value)
	}
	return d.FieldExpr(field) + " = ?", value, nil
}

type postgresDialect struct{}

// Postgres stores documents in a JSONB column (github.com/jackc/pgx/v5).
var Postgres Dialect = postgresDialect{}

func (postgresDialect) Name() string          { return "postgres" }
func (postgresDialect) gooseDialect() string  { return "postgres" }
func (postgresDialect) migrationsDir() string { return "migrations/postgres" }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (postgresDialect) FieldExpr(field string) string {
	return fmt.Sprintf("data->'%s'", field)
}

func (d postgresDialect) FieldEquals(field string, value any) (string, any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", nil, fmt.Errorf("encode filter value: %w", err)
	}
	return d.FieldExpr(field) + " = ?::jsonb", string(raw), nil
}
