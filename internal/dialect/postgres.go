package dialect

import "fmt"

type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) AutoIncrement() string { return "GENERATED BY DEFAULT AS IDENTITY" }

func (Postgres) TableExistsQuery() string {
	return `SELECT COUNT(*)
	          FROM information_schema.tables
	          WHERE table_schema = current_schema()
	          AND table_name = lower($1)`
}

func (Postgres) PrimaryKeyQuery() string {
	return `SELECT kcu.column_name
	          FROM information_schema.table_constraints tc
	          JOIN information_schema.key_column_usage kcu
	            ON tc.constraint_name = kcu.constraint_name
	           AND tc.table_schema = kcu.table_schema
	          WHERE tc.constraint_type = 'PRIMARY KEY'
	          AND tc.table_schema = current_schema()
	          AND tc.table_name = lower($1)
	          ORDER BY kcu.ordinal_position`
}

func (Postgres) ColumnsQuery() string {
	return `SELECT column_name
	          FROM information_schema.columns
	          WHERE table_schema = current_schema()
	          AND table_name = lower($1)
	          ORDER BY ordinal_position`
}

// Insert targets only the primary key in ON CONFLICT, so a concurrent
// insert of the same key becomes an update and other unique keys still fail.
func (d Postgres) Insert(table, pk string, columns []string) string {
	return onConflict(d, table, pk, columns, "EXCLUDED")
}

func (Postgres) ProbeLock() string { return "" }
