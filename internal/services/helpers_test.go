package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"table-gateway/internal/dialect"
	"table-gateway/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type testEnv struct {
	db       *sql.DB
	policies *PolicyRegistry
	schema   *SchemaService
	records  *RecordService
}

func newTestEnv(t *testing.T, allowed ...string) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gateway.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	d := dialect.SQLite{}
	policies := NewPolicyRegistry()
	guard := NewIdentifierGuard(allowed)
	schema := NewSchemaService(db, d, guard, policies, 5*time.Second)

	return &testEnv{
		db:       db,
		policies: policies,
		schema:   schema,
		records:  NewRecordService(db, d, schema, policies, 5*time.Second),
	}
}

func (e *testEnv) exec(t *testing.T, stmt string) {
	t.Helper()
	if _, err := e.db.Exec(stmt); err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}

func usersSchema() models.TableSchema {
	return models.TableSchema{
		Columns: []models.Column{
			{Name: "id", Type: "INTEGER", IsPrimaryKey: true, AutoIncrement: true},
			{Name: "email", Type: "VARCHAR(255)", Unique: true},
			{Name: "name", Type: "TEXT"},
		},
	}
}

func strPtr(s string) *string { return &s }

var bg = context.Background()
