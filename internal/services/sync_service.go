package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"table-gateway/internal/logger"
	"table-gateway/internal/models"

	"github.com/robfig/cron/v3"
)

// TableEntry is one table read from the schema file. Exactly one of Schema
// and Raw is set.
type TableEntry struct {
	Name   string
	Schema *models.TableSchema
	Raw    string
}

// LoadSchemaFile reads either the structured format
// {"tables":[{"name":...,"columns":[...]}]} or the legacy format that maps
// table names to raw column definitions.
func LoadSchemaFile(path string) ([]TableEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchemaFile(data)
}

// ParseSchemaFile decodes schema file content in either format.
func ParseSchemaFile(data []byte) ([]TableEntry, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}

	if raw, ok := top["tables"]; ok {
		var file models.SchemaFile
		if err := json.Unmarshal(data, &file); err == nil {
			entries := make([]TableEntry, 0, len(file.Tables))
			for i := range file.Tables {
				def := file.Tables[i]
				entries = append(entries, TableEntry{Name: def.Name, Schema: &def.TableSchema})
			}
			return entries, nil
		} else if len(raw) > 0 && raw[0] == '[' {
			return nil, fmt.Errorf("invalid schema file: %w", err)
		}
	}

	names := make([]string, 0, len(top))
	for name := range top {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]TableEntry, 0, len(names))
	for _, name := range names {
		var definitions string
		if err := json.Unmarshal(top[name], &definitions); err != nil {
			return nil, fmt.Errorf("invalid schema file: table %s must map to a column definition string", name)
		}
		entries = append(entries, TableEntry{Name: name, Raw: definitions})
	}

	return entries, nil
}

// SchemaSyncService reconciles the database with the schema file, once or
// on a cron schedule.
type SchemaSyncService struct {
	schemaService *SchemaService
	filePath      string

	mutex        sync.RWMutex
	syncMutex    sync.Mutex
	cron         *cron.Cron
	cronSchedule string
	entryID      cron.EntryID
	isRunning    bool
	tableStatus  map[string]*models.SyncStatus
	lastRunTime  time.Time
	nextRunTime  time.Time
}

// NewSchemaSyncService creates a new schema sync service
func NewSchemaSyncService(schemaService *SchemaService, filePath, cronSchedule string) *SchemaSyncService {
	return &SchemaSyncService{
		schemaService: schemaService,
		filePath:      filePath,
		cron:          cron.New(),
		cronSchedule:  cronSchedule,
		tableStatus:   make(map[string]*models.SyncStatus),
	}
}

// SyncAll applies every table in the schema file. A missing file is not an
// error. Per-table failures are logged and recorded; the pass continues.
func (s *SchemaSyncService) SyncAll(ctx context.Context) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.mutex.Lock()
	s.lastRunTime = time.Now()
	s.mutex.Unlock()

	entries, err := LoadSchemaFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("Schema file %s not found, nothing to apply", s.filePath)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("Applying schema file %s (%d tables)", s.filePath, len(entries))

	failed := 0
	for _, entry := range entries {
		var result models.EnsureResult
		if entry.Schema != nil {
			result, err = s.schemaService.EnsureTable(ctx, entry.Name, *entry.Schema)
		} else {
			result, err = s.schemaService.EnsureRawTable(ctx, entry.Name, entry.Raw)
		}

		if err != nil {
			failed++
			logger.Error("Error applying schema for table %s: %v", entry.Name, err)
			s.updateTableStatus(entry.Name, models.EnsureResult{}, err)
			continue
		}

		s.updateTableStatus(entry.Name, result, nil)
	}

	logger.Info("Schema file applied (%d tables, %d failed)", len(entries), failed)
	return nil
}

// StartSync schedules SyncAll on the configured cron expression.
func (s *SchemaSyncService) StartSync() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isRunning {
		return fmt.Errorf("schema sync already running")
	}
	if s.cronSchedule == "" {
		return fmt.Errorf("no schema sync schedule configured")
	}

	entryID, err := s.cron.AddFunc(s.cronSchedule, func() {
		logger.Info("Schema sync triggered at %s", time.Now().Format("2006-01-02 15:04:05"))
		if err := s.SyncAll(context.Background()); err != nil {
			logger.Warn("Schema sync warning: %v", err)
		}

		s.mutex.Lock()
		s.nextRunTime = s.cron.Entry(s.entryID).Next
		s.mutex.Unlock()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true
	s.nextRunTime = s.cron.Entry(entryID).Next

	logger.Info("Schema sync scheduled with %q (entry %d)", s.cronSchedule, entryID)
	return nil
}

// StopSync removes the schedule and waits for a running pass to finish.
func (s *SchemaSyncService) StopSync() error {
	s.mutex.Lock()
	if !s.isRunning {
		s.mutex.Unlock()
		return fmt.Errorf("schema sync is not running")
	}
	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.nextRunTime = time.Time{}
	s.mutex.Unlock()

	// Wait for a running job outside the lock; the job takes it too.
	<-s.cron.Stop().Done()

	logger.Info("Schema sync stopped")
	return nil
}

// UpdateSchedule replaces the cron expression, restarting the schedule
// when it is running.
func (s *SchemaSyncService) UpdateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return &ValidationError{Fields: []string{"cronSchedule"}, Message: "Invalid cron schedule: " + err.Error()}
	}

	running := s.IsRunning()
	if running {
		if err := s.StopSync(); err != nil {
			return err
		}
	}

	s.mutex.Lock()
	s.cronSchedule = schedule
	s.mutex.Unlock()

	if running {
		return s.StartSync()
	}
	return nil
}

// IsRunning reports whether a schedule is active.
func (s *SchemaSyncService) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isRunning
}

func (s *SchemaSyncService) updateTableStatus(tableName string, result models.EnsureResult, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	status := &models.SyncStatus{
		TableName:    tableName,
		Action:       result.Action,
		ColumnsAdded: result.ColumnsAdded,
		LastSyncTime: time.Now(),
		Status:       "success",
	}
	if err != nil {
		status.Status = "error"
		status.ErrorMessage = err.Error()
	}

	s.tableStatus[tableName] = status
}

// TableStatus returns the last outcome recorded for a table.
func (s *SchemaSyncService) TableStatus(tableName string) (models.SyncStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	status, ok := s.tableStatus[tableName]
	if !ok {
		return models.SyncStatus{}, false
	}
	return *status, true
}

// GetStatus returns schedule and per-table sync status
func (s *SchemaSyncService) GetStatus() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tableStatusCopy := make(map[string]models.SyncStatus, len(s.tableStatus))
	for k, v := range s.tableStatus {
		tableStatusCopy[k] = *v
	}

	var lastRun, nextRun string
	if !s.lastRunTime.IsZero() {
		lastRun = s.lastRunTime.Format("2006-01-02 15:04:05")
	}
	if !s.nextRunTime.IsZero() {
		nextRun = s.nextRunTime.Format("2006-01-02 15:04:05")
	}

	return map[string]interface{}{
		"isRunning":    s.isRunning,
		"cronSchedule": s.cronSchedule,
		"schemaFile":   s.filePath,
		"lastRun":      lastRun,
		"nextRun":      nextRun,
		"tables":       tableStatusCopy,
	}
}

// TriggerSync runs a pass immediately
func (s *SchemaSyncService) TriggerSync(ctx context.Context) error {
	logger.Info("Manual schema sync triggered")
	return s.SyncAll(ctx)
}

// Close stops the scheduler if it is running.
func (s *SchemaSyncService) Close() {
	if s.IsRunning() {
		_ = s.StopSync()
	}
}
