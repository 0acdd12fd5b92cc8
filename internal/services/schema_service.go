package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"table-gateway/internal/dialect"
	"table-gateway/internal/logger"
	"table-gateway/internal/models"
)

// PrimaryKeyState tags the outcome of primary-key discovery.
type PrimaryKeyState int

const (
	PrimaryKeyFound PrimaryKeyState = iota
	TableAbsent
	NoPrimaryKeyDeclared
)

func (s PrimaryKeyState) String() string {
	switch s {
	case PrimaryKeyFound:
		return "found"
	case TableAbsent:
		return "table absent"
	case NoPrimaryKeyDeclared:
		return "no primary key declared"
	default:
		return "unknown"
	}
}

// PrimaryKey is the outcome of primary-key discovery. Column is set only
// when State is PrimaryKeyFound; it is the first key column, and Composite
// reports whether the key spans more columns.
type PrimaryKey struct {
	State     PrimaryKeyState
	Column    string
	Composite bool
}

// SchemaService inspects and evolves table definitions.
type SchemaService struct {
	db           *sql.DB
	dialect      dialect.Dialect
	translator   *Translator
	guard        *IdentifierGuard
	policies     *PolicyRegistry
	queryTimeout time.Duration
}

// NewSchemaService creates a new schema service
func NewSchemaService(db *sql.DB, d dialect.Dialect, guard *IdentifierGuard, policies *PolicyRegistry, queryTimeout time.Duration) *SchemaService {
	return &SchemaService{
		db:           db,
		dialect:      d,
		translator:   NewTranslator(d),
		guard:        guard,
		policies:     policies,
		queryTimeout: queryTimeout,
	}
}

// Translator returns the DDL builder for the configured dialect.
func (s *SchemaService) Translator() *Translator {
	return s.translator
}

func (s *SchemaService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *SchemaService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return dbError("ping database", err)
	}
	return nil
}

// TableExists reports whether tableName exists in the current schema.
func (s *SchemaService) TableExists(ctx context.Context, tableName string) (bool, error) {
	if err := s.guard.Collection(tableName); err != nil {
		return false, err
	}
	return s.tableExists(ctx, tableName)
}

func (s *SchemaService) tableExists(ctx context.Context, tableName string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.db.QueryRowContext(ctx, s.dialect.TableExistsQuery(), tableName).Scan(&count); err != nil {
		return false, dbError("check table existence", err)
	}

	return count > 0, nil
}

// ResolvePrimaryKey discovers the primary-key column of a table from the
// database's key metadata. For composite keys the first key column wins.
// No result is cached; every call costs a round-trip.
func (s *SchemaService) ResolvePrimaryKey(ctx context.Context, tableName string) (PrimaryKey, error) {
	if err := s.guard.Collection(tableName); err != nil {
		return PrimaryKey{}, err
	}

	columns, err := s.queryNames(ctx, "resolve primary key", s.dialect.PrimaryKeyQuery(), tableName)
	if err != nil {
		return PrimaryKey{}, err
	}

	if len(columns) > 0 {
		return PrimaryKey{State: PrimaryKeyFound, Column: columns[0], Composite: len(columns) > 1}, nil
	}

	exists, err := s.tableExists(ctx, tableName)
	if err != nil {
		return PrimaryKey{}, err
	}
	if !exists {
		return PrimaryKey{State: TableAbsent}, nil
	}

	return PrimaryKey{State: NoPrimaryKeyDeclared}, nil
}

// PrimaryKeyColumn is ResolvePrimaryKey with the absent states turned into
// errors. Composite keys cannot be addressed by a single id and are
// rejected as invalid input.
func (s *SchemaService) PrimaryKeyColumn(ctx context.Context, tableName string) (string, error) {
	pk, err := s.ResolvePrimaryKey(ctx, tableName)
	if err != nil {
		return "", err
	}

	switch pk.State {
	case PrimaryKeyFound:
		if pk.Composite {
			return "", &ValidationError{
				Fields:  []string{tableName},
				Message: fmt.Sprintf("Collection %s has a composite primary key; only single-column keys can be addressed by id", tableName),
			}
		}
		return pk.Column, nil
	case TableAbsent:
		return "", fmt.Errorf("%s: %w", tableName, ErrTableNotFound)
	default:
		return "", fmt.Errorf("%s: %w", tableName, ErrNoPrimaryKey)
	}
}

// TableColumns lists column names in declaration order.
func (s *SchemaService) TableColumns(ctx context.Context, tableName string) ([]string, error) {
	if err := s.guard.Collection(tableName); err != nil {
		return nil, err
	}
	return s.queryNames(ctx, "list columns", s.dialect.ColumnsQuery(), tableName)
}

func (s *SchemaService) queryNames(ctx context.Context, op, query, tableName string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dbError(op, err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}

	return names, nil
}

// CreateTable creates a table that must not exist yet.
func (s *SchemaService) CreateTable(ctx context.Context, tableName string, schema models.TableSchema) error {
	if err := s.guard.Collection(tableName); err != nil {
		return err
	}
	if err := ValidateSchema(schema); err != nil {
		return err
	}

	exists, err := s.tableExists(ctx, tableName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", tableName, ErrTableExists)
	}

	if err := s.exec(ctx, "create table", s.translator.TableToCreateDDL(tableName, schema)); err != nil {
		return err
	}

	s.policies.Set(tableName, schema.RequiredFields)
	logger.Info("Table created: %s", tableName)

	return nil
}

// EnsureTable creates the table when missing, otherwise adds the declared
// columns it lacks. Existing columns are never modified or dropped.
func (s *SchemaService) EnsureTable(ctx context.Context, tableName string, schema models.TableSchema) (models.EnsureResult, error) {
	result := models.EnsureResult{TableName: tableName}

	if err := s.guard.Collection(tableName); err != nil {
		return result, err
	}
	if err := ValidateSchema(schema); err != nil {
		return result, err
	}

	exists, err := s.tableExists(ctx, tableName)
	if err != nil {
		return result, err
	}

	if !exists {
		if err := s.exec(ctx, "create table", s.translator.TableToCreateDDL(tableName, schema)); err != nil {
			return result, err
		}
		s.policies.Set(tableName, schema.RequiredFields)
		logger.Info("Table created: %s", tableName)
		result.Action = models.ActionCreated
		return result, nil
	}

	existing, err := s.queryNames(ctx, "list columns", s.dialect.ColumnsQuery(), tableName)
	if err != nil {
		return result, err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[strings.ToLower(name)] = true
	}

	for _, col := range schema.Columns {
		if present[strings.ToLower(col.Name)] {
			continue
		}

		stmt := s.translator.AddColumnDDL(tableName, col)
		logger.Debug("Executing: %s", stmt)
		if err := s.exec(ctx, "add column", stmt); err != nil {
			return result, err
		}
		result.ColumnsAdded = append(result.ColumnsAdded, col.Name)
	}

	s.policies.Set(tableName, schema.RequiredFields)

	if len(result.ColumnsAdded) == 0 {
		result.Action = models.ActionUnchanged
		return result, nil
	}

	logger.Info("Table %s altered, added columns: %v", tableName, result.ColumnsAdded)
	result.Action = models.ActionAltered
	return result, nil
}

// EnsureRawTable creates a table from raw column definitions if it does
// not exist. Raw tables are never altered.
func (s *SchemaService) EnsureRawTable(ctx context.Context, tableName, definitions string) (models.EnsureResult, error) {
	result := models.EnsureResult{TableName: tableName}

	if err := s.guard.Collection(tableName); err != nil {
		return result, err
	}
	if strings.TrimSpace(definitions) == "" {
		return result, invalid("Invalid schema: table %s has no column definitions", tableName)
	}

	exists, err := s.tableExists(ctx, tableName)
	if err != nil {
		return result, err
	}
	if exists {
		result.Action = models.ActionUnchanged
		return result, nil
	}

	if err := s.exec(ctx, "create table", s.translator.RawCreateDDL(tableName, definitions)); err != nil {
		return result, err
	}

	logger.Info("Table created: %s", tableName)
	result.Action = models.ActionCreated
	return result, nil
}

func (s *SchemaService) exec(ctx context.Context, op, stmt string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return dbError(op, err)
	}
	return nil
}
