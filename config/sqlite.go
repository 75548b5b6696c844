package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

func NewSQLite(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Store.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

// NewStore opens the database selected by Store.Driver.
func NewStore(cfg *Config) (*sql.DB, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return NewSQLite(cfg)
	case "postgres", "":
		return NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
