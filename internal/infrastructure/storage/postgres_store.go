package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
)

const (
	postgresConnectAttemptsDefault = 20
	postgresConnectDelayDefault    = 2 * time.Second
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS techspec_kv (
	owner_id BIGINT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (owner_id, key)
);
`

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore PostgreSQL backed key/value store
func NewPostgresStore(dsn string) (repository.KeyValueStore, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (p *postgresStore) Get(ctx context.Context, ownerID int64, key string) ([]byte, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM techspec_kv WHERE owner_id = $1 AND key = $2`,
		ownerID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (p *postgresStore) Set(ctx context.Context, ownerID int64, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO techspec_kv (owner_id, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (owner_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		ownerID, key, string(value),
	)
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Delete(ctx context.Context, ownerID int64, key string) error {
	if _, err := p.db.ExecContext(ctx,
		`DELETE FROM techspec_kv WHERE owner_id = $1 AND key = $2`, ownerID, key,
	); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}

// openPostgresWithRetry waits for the database to come up (docker-compose start order).
func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	attempts := getenvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", postgresConnectAttemptsDefault)
	delaySeconds := getenvInt("POSTGRES_CONNECT_RETRY_SECONDS", int(postgresConnectDelayDefault/time.Second))
	delay := time.Duration(delaySeconds) * time.Second
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		log.Printf("⏳ Postgres not ready (attempt %d/%d): %v", attempt, attempts, err)
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func getenvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
