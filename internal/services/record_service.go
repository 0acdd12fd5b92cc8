package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"table-gateway/internal/dialect"
	"table-gateway/internal/logger"
	"table-gateway/internal/models"
)

// UpsertResult is the record as reported to the client plus whether the
// row was inserted (true) or updated (false).
type UpsertResult struct {
	Record  models.Record
	Created bool
}

// RecordService reads and writes single rows addressed by primary key.
type RecordService struct {
	db           *sql.DB
	dialect      dialect.Dialect
	schema       *SchemaService
	policies     *PolicyRegistry
	queryTimeout time.Duration
}

// NewRecordService creates a new record service
func NewRecordService(db *sql.DB, d dialect.Dialect, schema *SchemaService, policies *PolicyRegistry, queryTimeout time.Duration) *RecordService {
	return &RecordService{
		db:           db,
		dialect:      d,
		schema:       schema,
		policies:     policies,
		queryTimeout: queryTimeout,
	}
}

// Upsert inserts the row keyed by id or updates the supplied fields of the
// existing one. Fields not supplied are left untouched on update.
//
// The existence probe and the write share a transaction. A fresh id is
// always written with an INSERT and an existing one with an UPDATE of that
// row only, so a clash on another unique column fails instead of touching
// a different row. Engines that cannot lock an absent key may still see a
// concurrent insert of the same id, which fails as a DatabaseError.
func (s *RecordService) Upsert(ctx context.Context, tableName string, id int64, fields models.Record) (UpsertResult, error) {
	if err := validateFields(fields); err != nil {
		return UpsertResult{}, err
	}

	if missing := s.policies.Missing(tableName, fields); len(missing) > 0 {
		return UpsertResult{}, missingFields(missing)
	}

	pk, err := s.schema.PrimaryKeyColumn(ctx, tableName)
	if err != nil {
		return UpsertResult{}, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		// The identifier from the path is authoritative for the key column.
		if strings.EqualFold(name, pk) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		values = append(values, fields[name])
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertResult{}, dbError("begin upsert", err)
	}
	defer tx.Rollback()

	var count int
	probe := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s%s",
		tableName, pk, s.dialect.Placeholder(1), s.dialect.ProbeLock())
	if err := tx.QueryRowContext(ctx, probe, id).Scan(&count); err != nil {
		return UpsertResult{}, dbError("probe record", err)
	}

	created := count == 0
	switch {
	case created:
		columns := append([]string{pk}, names...)
		args := append([]interface{}{id}, values...)
		if _, err := tx.ExecContext(ctx, s.dialect.Insert(tableName, pk, columns), args...); err != nil {
			return UpsertResult{}, dbError("insert record", err)
		}
	case len(names) > 0:
		args := append(values, id)
		if _, err := tx.ExecContext(ctx, dialect.Update(s.dialect, tableName, pk, names), args...); err != nil {
			return UpsertResult{}, dbError("update record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, dbError("commit upsert", err)
	}

	record := make(models.Record, len(names)+1)
	for _, name := range names {
		record[name] = fields[name]
	}
	// Set last: a non-key column named id must not mask the row identifier.
	record["id"] = id

	logger.Debug("Upserted %s %s=%d (created=%v)", tableName, pk, id, created)

	return UpsertResult{Record: record, Created: created}, nil
}

// Fetch returns the stored row whose primary key equals id.
func (s *RecordService) Fetch(ctx context.Context, tableName string, id int64) (models.Record, error) {
	pk, err := s.schema.PrimaryKeyColumn(ctx, tableName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s LIMIT 1", tableName, pk, s.dialect.Placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, dbError("fetch record", err)
	}
	defer rows.Close()

	records, err := scanRowsToMaps(rows)
	if err != nil {
		return nil, dbError("scan record", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s/%d: %w", tableName, id, ErrRecordNotFound)
	}

	return records[0], nil
}

// Remove deletes the row whose primary key equals id and returns the number
// of rows deleted. A single DELETE decides not-found, so there is no window
// between a check and the delete.
func (s *RecordService) Remove(ctx context.Context, tableName string, id int64) (int64, error) {
	pk, err := s.schema.PrimaryKeyColumn(ctx, tableName)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", tableName, pk, s.dialect.Placeholder(1))

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, dbError("delete record", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, dbError("delete record", err)
	}

	if affected == 0 {
		return 0, fmt.Errorf("%s/%d: %w", tableName, id, ErrRecordNotFound)
	}

	return affected, nil
}

// validateFields accepts only identifier keys with scalar values.
func validateFields(fields models.Record) error {
	for name, value := range fields {
		if err := ValidateIdentifier("field", name); err != nil {
			return err
		}

		switch value.(type) {
		case nil, bool, string, int, int32, int64, float32, float64:
		default:
			return &ValidationError{
				Fields:  []string{name},
				Message: fmt.Sprintf("Invalid value for field %s: only scalar values are supported", name),
			}
		}
	}
	return nil
}
