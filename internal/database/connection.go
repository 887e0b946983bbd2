package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hypernova-labs/catalog-service/internal/config"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DB representa la conexión a la base de datos
type DB struct {
	*sql.DB
	queryTimeout time.Duration
}

// Connect establece la conexión a PostgreSQL
func Connect(cfg *config.Config) (*DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verificar conexión
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return NewDB(db, cfg.Database.QueryTimeout), nil
}

// NewDB envuelve una conexión existente. Un timeout no positivo usa 30s.
func NewDB(db *sql.DB, queryTimeout time.Duration) *DB {
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &DB{DB: db, queryTimeout: queryTimeout}
}

// HealthCheck verifica la salud de la base de datos
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// QueryWithTimeout ejecuta una query de lectura con timeout. El cancel se
// invoca al cerrar las filas.
func (db *DB) QueryWithTimeout(ctx context.Context, query string, args ...interface{}) (*Rows, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Rows{Rows: rows, cancel: cancel}, nil
}

// QueryRowWithTimeout ejecuta una query de una fila con timeout
func (db *DB) QueryRowWithTimeout(ctx context.Context, query string, dest []interface{}, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	return db.QueryRowContext(ctx, query, args...).Scan(dest...)
}

// Rows agrega la cancelación del contexto de la query a sql.Rows
type Rows struct {
	*sql.Rows
	cancel context.CancelFunc
}

// Close cierra las filas y libera el contexto
func (r *Rows) Close() error {
	defer r.cancel()
	return r.Rows.Close()
}

// LogStats registra las estadísticas del pool
func (db *DB) LogStats(logger *logrus.Logger) {
	stats := db.Stats()
	logger.WithFields(logrus.Fields{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
	}).Info("Database pool statistics")
}
