package models

import "time"

const (
	ActionCreated   = "created"
	ActionAltered   = "altered"
	ActionUnchanged = "unchanged"
)

// EnsureResult reports what EnsureTable did to one table.
type EnsureResult struct {
	TableName    string   `json:"table_name"`
	Action       string   `json:"action"`
	ColumnsAdded []string `json:"columns_added,omitempty"`
}

// SyncStatus is the last schema-file reconciliation outcome for one table.
type SyncStatus struct {
	TableName    string    `json:"table_name"`
	Action       string    `json:"action,omitempty"`
	ColumnsAdded []string  `json:"columns_added,omitempty"`
	LastSyncTime time.Time `json:"last_sync_time"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
