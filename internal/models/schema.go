package models

// Column is the DDL-relevant description of one column.
type Column struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	IsPrimaryKey  bool    `json:"isPrimaryKey,omitempty"`
	Unique        bool    `json:"unique,omitempty"`
	AutoIncrement bool    `json:"autoIncrement,omitempty"`
	Default       *string `json:"default,omitempty"`
}

// TableSchema is the desired shape of one table.
type TableSchema struct {
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty"`

	// RequiredFields declares the fields every row payload for this table must carry.
	RequiredFields []string `json:"requiredFields,omitempty"`
}

// TableDefinition is one entry of the structured schema file.
type TableDefinition struct {
	Name string `json:"name"`
	TableSchema
}

// SchemaFile is the structured schema file format.
type SchemaFile struct {
	Tables []TableDefinition `json:"tables"`
}

// Record is an untyped row: column name to scalar value.
type Record map[string]interface{}
