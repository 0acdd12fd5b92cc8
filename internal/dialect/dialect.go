// Package dialect isolates the SQL that differs between the supported
// database engines: metadata queries, placeholders, auto-increment
// keywords and row writes.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect renders engine-specific SQL. Identifiers passed in are expected
// to be validated by the caller; they are interpolated as-is.
type Dialect interface {
	Name() string

	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string

	// AutoIncrement is the keyword appended after PRIMARY KEY.
	AutoIncrement() string

	// TableExistsQuery takes the table name and yields a single count.
	TableExistsQuery() string

	// PrimaryKeyQuery takes the table name and yields primary-key column
	// names in key order. Zero rows means no primary key is declared.
	PrimaryKeyQuery() string

	// ColumnsQuery takes the table name and yields its column names.
	ColumnsQuery() string

	// Insert builds an INSERT of columns (primary key first). A conflict on
	// any key other than the primary key must fail the statement.
	Insert(table, pk string, columns []string) string

	// ProbeLock is appended to the existence probe run inside the write
	// transaction.
	ProbeLock() string
}

// New returns the dialect for a configured driver name.
func New(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return MySQL{}, nil
	case "postgres", "postgresql", "pgx":
		return Postgres{}, nil
	case "sqlite3", "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholders returns count markers starting at argument from.
func Placeholders(d Dialect, from, count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = d.Placeholder(from + i)
	}
	return out
}

func insertPrefix(d Dialect, table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(Placeholders(d, 1, len(columns)), ", "),
	)
}

// Update builds "UPDATE table SET c1 = ?, ... WHERE pk = ?". The key value
// binds last.
func Update(d Dialect, table, pk string, columns []string) string {
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = %s", col, d.Placeholder(i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table, strings.Join(sets, ", "), pk, d.Placeholder(len(columns)+1))
}

// onConflict is shared by the engines that speak ON CONFLICT.
func onConflict(d Dialect, table, pk string, columns []string, excluded string) string {
	var updates []string
	for _, col := range columns {
		if col == pk {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = %s.%s", col, excluded, col))
	}

	query := insertPrefix(d, table, columns) + fmt.Sprintf(" ON CONFLICT (%s)", pk)
	if len(updates) == 0 {
		return query + " DO NOTHING"
	}
	return query + " DO UPDATE SET " + strings.Join(updates, ", ")
}
