package config

import "time"

type AppConfig struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Schema   SchemaConfig   `envPrefix:"SCHEMA_"`
	Gateway  GatewayConfig  `envPrefix:"GATEWAY_"`
	Log      LogConfig      `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"3000"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	// mysql, postgres or sqlite3
	Driver string `env:"DRIVER" envDefault:"mysql"`

	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD" envDefault:"password"`
	Name     string `env:"NAME" envDefault:"CustomerDB"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	// Path is the database file used by the sqlite3 driver.
	Path string `env:"PATH" envDefault:"gateway.db"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"10s"`
}

type SchemaConfig struct {
	File string `env:"FILE" envDefault:"schema.json"`

	ApplyOnStart bool `env:"APPLY_ON_START" envDefault:"true"`

	// Cron expression; empty disables periodic reconciliation.
	SyncSchedule string `env:"SYNC_SCHEDULE" envDefault:""`
}

type GatewayConfig struct {
	AllowedCollections []string `env:"ALLOWED_COLLECTIONS" envSeparator:","`

	AllowZeroID bool `env:"ALLOW_ZERO_ID" envDefault:"false"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}
