package database

import "testing"

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if db.Dialect.Name() != "sqlite" {
		t.Errorf("dialect = %q, want %q", db.Dialect.Name(), "sqlite")
	}

	for _, table := range []string{"documents", "users"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestSQLiteJSONField(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`INSERT INTO documents (collection, id, data) VALUES ('families', 'a', '{"zone":3,"familyName":"Nair"}')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	clause, arg, err := db.Dialect.FieldEquals("zone", 3)
	if err != nil {
		t.Fatalf("field equals: %v", err)
	}
	var id string
	if err := db.QueryRow("SELECT id FROM documents WHERE "+clause, arg).Scan(&id); err != nil {
		t.Fatalf("query by zone: %v", err)
	}
	if id != "a" {
		t.Errorf("id = %q, want %q", id, "a")
	}
}

func TestPostgresRebind(t *testing.T) {
	got := Postgres.Rebind("SELECT * FROM documents WHERE collection = ? AND id = ?")
	want := "SELECT * FROM documents WHERE collection = $1 AND id = $2"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}
	if SQLite.Rebind("a = ?") != "a = ?" {
		t.Error("sqlite rebind should leave placeholders alone")
	}
}

func TestPostgresFieldEquals(t *testing.T) {
	clause, arg, err := Postgres.FieldEquals("status", "PENDING")
	if err != nil {
		t.Fatalf("field equals: %v", err)
	}
	if clause != "data->'status' = ?::jsonb" {
		t.Errorf("clause = %q", clause)
	}
	if arg != `"PENDING"` {
		t.Errorf("arg = %v, want %q", arg, `"PENDING"`)
	}
}

func TestSQLiteFieldEqualsRejectsUnsupported(t *testing.T) {
	if _, _, err := SQLite.FieldEquals("zone", []int{1}); err == nil {
		t.Error("expected error for slice value")
	}
}

func TestValidField(t *testing.T) {
	tests := []struct {
		field string
		want  bool
	}{
		{"familyName", true},
		{"zone", true},
		{"is_student", true},
		{"", false},
		{"1zone", false},
		{"name'); DROP TABLE documents;--", false},
		{"a.b", false},
	}
	for _, tt := range tests {
		if got := ValidField(tt.field); got != tt.want {
			t.Errorf("ValidField(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}
