package connection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool with our configuration
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool creates a new connection pool from a DSN or key/value connection string
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("no database DSN configured")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// CountMatches counts the rows of table matching a WHERE clause built for a segment
func (p *Pool) CountMatches(ctx context.Context, table, where string, args []interface{}) (int64, error) {
	query, err := CountQuery(table, where)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches in %s: %w", table, err)
	}
	return n, nil
}

// CountQuery renders the count statement for a possibly schema-qualified table
func CountQuery(table, where string) (string, error) {
	ident, err := ParseTable(table)
	if err != nil {
		return "", err
	}

	query := "SELECT count(*) FROM " + ident.Sanitize()
	if where = strings.TrimSpace(where); where != "" {
		query += " " + where
	}
	return query, nil
}

// ParseTable splits "schema.table" into a quoted identifier
func ParseTable(table string) (pgx.Identifier, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, fmt.Errorf("no table configured")
	}

	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
	}
	return pgx.Identifier(parts), nil
}
