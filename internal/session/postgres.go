package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ribara/skillbridge/internal/types"
)

// PostgresStore persists sessions as JSONB rows. Save is a single
// UPSERT, so readers always see either the previous or the new version.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Schema is the DDL for the sessions table. Applied out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS tutor_sessions (
    session_id TEXT PRIMARY KEY,
    state      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, sessionID string) (*types.TutorSessionState, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM tutor_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state types.TutorSessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, state *types.TutorSessionState) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	if err := state.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.SessionID, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tutor_sessions (session_id, state)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET state = $2, updated_at = NOW()`,
		state.SessionID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.SessionID, err)
	}
	return nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	result, err := s.pool.Exec(ctx,
		`DELETE FROM tutor_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id FROM tutor_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
