package services

import (
	"errors"
	"reflect"
	"testing"

	"table-gateway/internal/models"
)

func TestCreateTable(t *testing.T) {
	env := newTestEnv(t)

	exists, err := env.schema.TableExists(bg, "users")
	if err != nil || exists {
		t.Fatalf("TableExists before create = %v, %v", exists, err)
	}

	schema := usersSchema()
	schema.RequiredFields = []string{"email"}
	if err := env.schema.CreateTable(bg, "users", schema); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	exists, err = env.schema.TableExists(bg, "users")
	if err != nil || !exists {
		t.Fatalf("TableExists after create = %v, %v", exists, err)
	}

	if got := env.policies.Required("users"); !reflect.DeepEqual(got, []string{"email"}) {
		t.Errorf("policy = %v, want [email]", got)
	}

	err = env.schema.CreateTable(bg, "users", schema)
	if !errors.Is(err, ErrTableExists) {
		t.Errorf("second CreateTable = %v, want ErrTableExists", err)
	}
}

func TestCreateDDLIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	stmt := env.schema.Translator().TableToCreateDDL("users", usersSchema())

	env.exec(t, stmt)
	env.exec(t, stmt)
}

func TestCreateTableRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t, "users")

	var vErr *ValidationError
	if err := env.schema.CreateTable(bg, "users; DROP TABLE x", usersSchema()); !errors.As(err, &vErr) {
		t.Errorf("bad table name: %v", err)
	}
	if err := env.schema.CreateTable(bg, "orders", usersSchema()); !errors.As(err, &vErr) {
		t.Errorf("collection outside allow-list: %v", err)
	}
	if err := env.schema.CreateTable(bg, "users", models.TableSchema{}); !errors.As(err, &vErr) {
		t.Errorf("empty schema: %v", err)
	}
}

func TestResolvePrimaryKey(t *testing.T) {
	env := newTestEnv(t)
	env.exec(t, "CREATE TABLE accounts (account_no INTEGER PRIMARY KEY, owner TEXT)")
	env.exec(t, "CREATE TABLE logs (message TEXT)")

	cases := []struct {
		table string
		want  PrimaryKey
	}{
		{"accounts", PrimaryKey{State: PrimaryKeyFound, Column: "account_no"}},
		{"logs", PrimaryKey{State: NoPrimaryKeyDeclared}},
		{"missing", PrimaryKey{State: TableAbsent}},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			got, err := env.schema.ResolvePrimaryKey(bg, tc.table)
			if err != nil {
				t.Fatalf("ResolvePrimaryKey: %v", err)
			}
			if got != tc.want {
				t.Errorf("ResolvePrimaryKey = %+v (%s), want %+v", got, got.State, tc.want)
			}
		})
	}

	if _, err := env.schema.PrimaryKeyColumn(bg, "logs"); !errors.Is(err, ErrNoPrimaryKey) {
		t.Errorf("PrimaryKeyColumn(logs) = %v, want ErrNoPrimaryKey", err)
	}
	if _, err := env.schema.PrimaryKeyColumn(bg, "missing"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("PrimaryKeyColumn(missing) = %v, want ErrTableNotFound", err)
	}
	if _, err := env.schema.PrimaryKeyColumn(bg, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrTableNotFound should wrap ErrNotFound")
	}
}

func TestEnsureTable(t *testing.T) {
	env := newTestEnv(t)

	base := models.TableSchema{Columns: []models.Column{
		{Name: "id", Type: "INTEGER", IsPrimaryKey: true},
		{Name: "email", Type: "TEXT"},
	}}

	res, err := env.schema.EnsureTable(bg, "users", base)
	if err != nil || res.Action != models.ActionCreated {
		t.Fatalf("first EnsureTable = %+v, %v", res, err)
	}

	res, err = env.schema.EnsureTable(bg, "users", base)
	if err != nil || res.Action != models.ActionUnchanged {
		t.Fatalf("repeat EnsureTable = %+v, %v", res, err)
	}

	grown := base
	grown.Columns = append(append([]models.Column(nil), base.Columns...),
		models.Column{Name: "nickname", Type: "TEXT", Default: strPtr("'anon'")},
		models.Column{Name: "EMAIL", Type: "TEXT"},
	)
	grown.RequiredFields = []string{"nickname"}

	res, err = env.schema.EnsureTable(bg, "users", grown)
	if err != nil {
		t.Fatalf("EnsureTable with new column: %v", err)
	}
	if res.Action != models.ActionAltered || !reflect.DeepEqual(res.ColumnsAdded, []string{"nickname"}) {
		t.Errorf("EnsureTable = %+v, want altered [nickname]", res)
	}

	cols, err := env.schema.TableColumns(bg, "users")
	if err != nil {
		t.Fatalf("TableColumns: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"id", "email", "nickname"}) {
		t.Errorf("columns = %v", cols)
	}

	if got := env.policies.Required("users"); !reflect.DeepEqual(got, []string{"nickname"}) {
		t.Errorf("policy = %v", got)
	}
}

func TestEnsureRawTable(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.schema.EnsureRawTable(bg, "notes", "id INTEGER PRIMARY KEY, body TEXT NOT NULL")
	if err != nil || res.Action != models.ActionCreated {
		t.Fatalf("EnsureRawTable = %+v, %v", res, err)
	}

	res, err = env.schema.EnsureRawTable(bg, "notes", "id INTEGER PRIMARY KEY")
	if err != nil || res.Action != models.ActionUnchanged {
		t.Fatalf("repeat EnsureRawTable = %+v, %v", res, err)
	}

	var vErr *ValidationError
	if _, err := env.schema.EnsureRawTable(bg, "empty", "  "); !errors.As(err, &vErr) {
		t.Errorf("blank definitions: %v", err)
	}
}

func TestDatabaseErrorsAreWrapped(t *testing.T) {
	env := newTestEnv(t)

	schema := models.TableSchema{Columns: []models.Column{{Name: "id", Type: "INTEGER PRIMARY KEY PRIMARY KEY"}}}
	err := env.schema.CreateTable(bg, "broken", schema)

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if dbErr.Op != "create table" {
		t.Errorf("Op = %q", dbErr.Op)
	}
}
