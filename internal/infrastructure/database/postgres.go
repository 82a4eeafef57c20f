package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/config"
)

type PostgresDB struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

func NewPostgresDB(cfg config.DatabaseConfig) (*PostgresDB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 5 * time.Minute
	poolCfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlx handle over the same pool for repositories that want struct scans.
	db := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")

	return &PostgresDB{pool: pool, db: db}, nil
}

func (p *PostgresDB) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresDB) DB() *sqlx.DB {
	return p.db
}

func (p *PostgresDB) Close() {
	p.db.Close()
	p.pool.Close()
}
