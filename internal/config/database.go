package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"table-gateway/internal/dialect"
	"table-gateway/internal/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase opens and pings the configured database. The returned handle
// is the only process-wide state; callers inject it into the services.
func InitDatabase(ctx context.Context, cfg *AppConfig) (*sql.DB, dialect.Dialect, error) {
	d, err := dialect.New(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := openDatabase(d, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", d.Name(), err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.QueryTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping %s database: %w", d.Name(), err)
	}

	logger.Info("Connected to %s database (%s)", d.Name(), describe(d, cfg.Database))

	return db, d, nil
}

func openDatabase(d dialect.Dialect, cfg DatabaseConfig) (*sql.DB, error) {
	switch d.(type) {
	case dialect.MySQL:
		return sql.Open("mysql", MySQLDSN(cfg))
	case dialect.Postgres:
		pgCfg, err := pgx.ParseConfig(PostgresDSN(cfg))
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*pgCfg), nil
	case dialect.SQLite:
		return sql.Open("sqlite3", SQLiteDSN(cfg))
	default:
		return nil, fmt.Errorf("no connector for dialect %s", d.Name())
	}
}

// MySQLDSN formats the go-sql-driver DSN with parseTime enabled.
func MySQLDSN(cfg DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	return mc.FormatDSN()
}

// PostgresDSN builds a postgres:// URL; net/url escapes credentials so any
// character is allowed in them.
func PostgresDSN(cfg DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// SQLiteDSN enables foreign keys and a busy timeout so pooled writers wait
// instead of failing with SQLITE_BUSY.
func SQLiteDSN(cfg DatabaseConfig) string {
	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return cfg.Path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func describe(d dialect.Dialect, cfg DatabaseConfig) string {
	if _, ok := d.(dialect.SQLite); ok {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
}
