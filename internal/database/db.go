package database

import (
	"database/sql"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"linkmark/internal/config"
)

// Open connects to Postgres and tunes the connection pool from config.
func Open(cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	log.Info("connecting to database",
		zap.String("host", cfg.DB.Host),
		zap.String("port", cfg.DB.Port),
		zap.String("user", cfg.DB.User),
		zap.String("db", cfg.DB.Name),
		zap.String("sslmode", cfg.DB.SSLMode),
	)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("connected to database")
	return db, nil
}
