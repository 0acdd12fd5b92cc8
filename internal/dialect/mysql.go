package dialect

type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) AutoIncrement() string { return "AUTO_INCREMENT" }

func (MySQL) TableExistsQuery() string {
	return `SELECT COUNT(*)
	          FROM information_schema.TABLES
	          WHERE TABLE_SCHEMA = DATABASE()
	          AND TABLE_NAME = ?`
}

func (MySQL) PrimaryKeyQuery() string {
	return `SELECT COLUMN_NAME
	          FROM information_schema.KEY_COLUMN_USAGE
	          WHERE TABLE_SCHEMA = DATABASE()
	          AND TABLE_NAME = ?
	          AND CONSTRAINT_NAME = 'PRIMARY'
	          ORDER BY ORDINAL_POSITION`
}

func (MySQL) ColumnsQuery() string {
	return `SELECT COLUMN_NAME
	          FROM information_schema.COLUMNS
	          WHERE TABLE_SCHEMA = DATABASE()
	          AND TABLE_NAME = ?
	          ORDER BY ORDINAL_POSITION`
}

// Insert is a plain INSERT. ON DUPLICATE KEY UPDATE fires on any unique
// key, not only the primary key, so it could rewrite an unrelated row.
func (d MySQL) Insert(table, pk string, columns []string) string {
	return insertPrefix(d, table, columns)
}

// ProbeLock takes a next-key lock on the probed key so a concurrent insert
// of the same key waits for the transaction.
func (MySQL) ProbeLock() string { return " FOR UPDATE" }
