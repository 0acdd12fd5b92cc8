package app

import (
	"database/sql"

	"table-gateway/internal/config"
	"table-gateway/internal/dialect"
	"table-gateway/internal/services"
)

// Application wires the services around one database handle.
type Application struct {
	Config            *config.AppConfig
	DB                *sql.DB
	Dialect           dialect.Dialect
	Policies          *services.PolicyRegistry
	SchemaService     *services.SchemaService
	RecordService     *services.RecordService
	SchemaSyncService *services.SchemaSyncService
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.AppConfig, db *sql.DB, d dialect.Dialect) *Application {
	app := &Application{
		Config:   cfg,
		DB:       db,
		Dialect:  d,
		Policies: services.NewPolicyRegistry(),
	}

	guard := services.NewIdentifierGuard(cfg.Gateway.AllowedCollections)

	app.SchemaService = services.NewSchemaService(db, d, guard, app.Policies, cfg.Database.QueryTimeout)
	app.RecordService = services.NewRecordService(db, d, app.SchemaService, app.Policies, cfg.Database.QueryTimeout)
	app.SchemaSyncService = services.NewSchemaSyncService(app.SchemaService, cfg.Schema.File, cfg.Schema.SyncSchedule)

	return app
}

// Close stops the scheduler and closes the database.
func (app *Application) Close() {
	if app.SchemaSyncService != nil {
		app.SchemaSyncService.Close()
	}

	if app.DB != nil {
		app.DB.Close()
	}
}
