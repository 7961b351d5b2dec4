package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// statsDialect postgres va sqlite o'rtasidagi farqlar
type statsDialect struct {
	name        string
	schema      string
	upsertVisit string
	upsertUser  string
	insertQuery string
}

var postgresDialect = statsDialect{
	name: "postgres",
	schema: `
CREATE TABLE IF NOT EXISTS bot_users (
	user_id BIGINT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	starts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS query_events (
	id TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	kind TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_query_events_kind ON query_events (kind);
`,
	upsertVisit: `
	INSERT INTO bot_users (user_id, username, first_seen, last_seen, starts)
	VALUES ($1, $2, $3, $3, 1)
	ON CONFLICT (user_id) DO UPDATE SET
		username = COALESCE(NULLIF(EXCLUDED.username, ''), bot_users.username),
		last_seen = EXCLUDED.last_seen,
		starts = bot_users.starts + 1`,
	upsertUser: `
	INSERT INTO bot_users (user_id, first_seen, last_seen)
	VALUES ($1, $2, $2)
	ON CONFLICT (user_id) DO UPDATE SET last_seen = EXCLUDED.last_seen`,
	insertQuery: `
	INSERT INTO query_events (id, user_id, kind, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO NOTHING`,
}

var sqliteDialect = statsDialect{
	name: "sqlite3",
	schema: `
CREATE TABLE IF NOT EXISTS bot_users (
	user_id INTEGER PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	first_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	starts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS query_events (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_query_events_kind ON query_events (kind);
`,
	upsertVisit: `
	INSERT INTO bot_users (user_id, username, first_seen, last_seen, starts)
	VALUES (?1, ?2, ?3, ?3, 1)
	ON CONFLICT (user_id) DO UPDATE SET
		username = COALESCE(NULLIF(excluded.username, ''), bot_users.username),
		last_seen = excluded.last_seen,
		starts = bot_users.starts + 1`,
	upsertUser: `
	INSERT INTO bot_users (user_id, first_seen, last_seen)
	VALUES (?1, ?2, ?2)
	ON CONFLICT (user_id) DO UPDATE SET last_seen = excluded.last_seen`,
	insertQuery: `
	INSERT INTO query_events (id, user_id, kind, created_at)
	VALUES (?1, ?2, ?3, ?4)
	ON CONFLICT (id) DO NOTHING`,
}

// sqlStatsStore postgres va sqlite uchun umumiy StatsRepository
type sqlStatsStore struct {
	db      *sql.DB
	dialect statsDialect
}

func newSQLStatsStore(ctx context.Context, db *sql.DB, dialect statsDialect) (*sqlStatsStore, error) {
	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		return nil, fmt.Errorf("create %s stats tables: %w", dialect.name, err)
	}
	return &sqlStatsStore{db: db, dialect: dialect}, nil
}

func (s *sqlStatsStore) RecordVisit(ctx context.Context, visit entity.Visit) error {
	at := visit.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsertVisit, visit.UserID, visit.Username, at.UTC()); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *sqlStatsStore) RecordQuery(ctx context.Context, event entity.QueryEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.upsertUser, event.UserID, at.UTC()); err != nil {
		return fmt.Errorf("record query user: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.insertQuery, event.ID, event.UserID, event.Kind, at.UTC()); err != nil {
		return fmt.Errorf("record query event: %w", err)
	}
	return tx.Commit()
}

func (s *sqlStatsStore) Summary(ctx context.Context) (entity.StatsSummary, error) {
	sum := entity.StatsSummary{Queries: make(map[string]int)}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(starts), 0) FROM bot_users`)
	if err := row.Scan(&sum.Users, &sum.Starts); err != nil {
		return sum, fmt.Errorf("stats users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM query_events GROUP BY kind`)
	if err != nil {
		return sum, fmt.Errorf("stats queries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return sum, err
		}
		sum.Queries[kind] = n
	}
	return sum, rows.Err()
}

func (s *sqlStatsStore) Close() error {
	return s.db.Close()
}
