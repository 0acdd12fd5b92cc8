package dialect

type SQLite struct{}

func (SQLite) Name() string { return "sqlite3" }

func (SQLite) Placeholder(int) string { return "?" }

// SQLite only accepts AUTOINCREMENT on an INTEGER PRIMARY KEY column.
func (SQLite) AutoIncrement() string { return "AUTOINCREMENT" }

func (SQLite) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
}

func (SQLite) PrimaryKeyQuery() string {
	return `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`
}

func (SQLite) ColumnsQuery() string {
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`
}

// Insert targets only the primary key in ON CONFLICT, so a concurrent
// insert of the same key becomes an update and other unique keys still fail.
func (d SQLite) Insert(table, pk string, columns []string) string {
	return onConflict(d, table, pk, columns, "excluded")
}

func (SQLite) ProbeLock() string { return "" }
