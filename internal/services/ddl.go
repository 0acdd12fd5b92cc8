package services

import (
	"fmt"
	"strings"

	"table-gateway/internal/dialect"
	"table-gateway/internal/models"
)

// Translator turns column and table descriptions into DDL. It is pure:
// malformed input yields malformed SQL that the database rejects.
type Translator struct {
	dialect dialect.Dialect
}

// NewTranslator creates a translator for the given dialect
func NewTranslator(d dialect.Dialect) *Translator {
	return &Translator{dialect: d}
}

// ColumnToDDL renders "<name> <type> [PRIMARY KEY [<auto>]] [UNIQUE] [DEFAULT <v>]".
// Auto-increment is only emitted together with PRIMARY KEY.
func (t *Translator) ColumnToDDL(col models.Column) string {
	parts := []string{col.Name, col.Type}

	if col.IsPrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		if col.AutoIncrement {
			parts = append(parts, t.dialect.AutoIncrement())
		}
	}

	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	if col.Default != nil {
		parts = append(parts, "DEFAULT "+*col.Default)
	}

	return strings.Join(parts, " ")
}

// TableToCreateDDL builds CREATE TABLE IF NOT EXISTS from the column list.
func (t *Translator) TableToCreateDDL(tableName string, schema models.TableSchema) string {
	defs := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		defs = append(defs, t.ColumnToDDL(col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(defs, ", "))
}

// AddColumnDDL builds the ALTER TABLE statement for one missing column.
func (t *Translator) AddColumnDDL(tableName string, col models.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", tableName, t.ColumnToDDL(col))
}

// RawCreateDDL wraps operator-supplied column definitions from a legacy
// schema file.
func (t *Translator) RawCreateDDL(tableName, definitions string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, definitions)
}

// ValidateSchema checks a table schema before any DDL is built.
func ValidateSchema(schema models.TableSchema) error {
	if len(schema.Columns) == 0 {
		return &ValidationError{Fields: []string{"columns"}, Message: "Invalid schema: at least one column is required"}
	}

	if len(schema.ForeignKeys) > 0 {
		return &ValidationError{Fields: []string{"foreignKeys"}, Message: "Invalid schema: foreignKeys are not supported"}
	}

	for _, col := range schema.Columns {
		if err := ValidateIdentifier("column", col.Name); err != nil {
			return err
		}
		if strings.TrimSpace(col.Type) == "" {
			return &ValidationError{Fields: []string{col.Name}, Message: "Invalid schema: column " + col.Name + " has no type"}
		}
		if err := validateFragment("type", col.Name, col.Type); err != nil {
			return err
		}
		if col.Default != nil {
			if err := validateFragment("default", col.Name, *col.Default); err != nil {
				return err
			}
		}
	}

	for _, field := range schema.RequiredFields {
		if err := ValidateIdentifier("required field", field); err != nil {
			return err
		}
	}

	return nil
}
