package quizstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the quiz_attempts table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS quiz_attempts (
    id          UUID PRIMARY KEY,
    session_id  TEXT NOT NULL DEFAULT '',
    test_title  TEXT NOT NULL,
    score       INTEGER NOT NULL,
    total       INTEGER NOT NULL,
    percentage  INTEGER NOT NULL,
    result      JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_session ON quiz_attempts(session_id, created_at DESC);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by PostgreSQL. The graded result is kept
// as JSONB next to the summary columns.
type PostgresStore struct {
	db DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] on db. Call
// [PostgresStore.Migrate] before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes [Schema].
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("quizstore: migrate: %w", err)
	}
	return nil
}

// Save implements [Store].
func (s *PostgresStore) Save(ctx context.Context, a *Attempt) error {
	if a == nil {
		return fmt.Errorf("quizstore: save: nil attempt")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	resultJSON := []byte("{}")
	if a.Result != nil {
		var err error
		if resultJSON, err = json.Marshal(a.Result); err != nil {
			return fmt.Errorf("quizstore: marshal result: %w", err)
		}
	}

	const query = `
		INSERT INTO quiz_attempts (id, session_id, test_title, score, total, percentage, result)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		a.ID, a.SessionID, a.TestTitle, a.Score, a.Total, a.Percentage, resultJSON,
	).Scan(&a.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("quizstore: attempt %s already exists", a.ID)
		}
		return fmt.Errorf("quizstore: save: %w", err)
	}
	return nil
}

// Get implements [Store].
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	const query = `
		SELECT id, session_id, test_title, score, total, percentage, result, created_at
		FROM quiz_attempts
		WHERE id = $1`

	a, err := scanAttempt(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("quizstore: get %s: %w", id, err)
	}
	return a, nil
}

// List implements [Store].
func (s *PostgresStore) List(ctx context.Context, sessionID string) ([]Attempt, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if sessionID == "" {
		const query = `
			SELECT id, session_id, test_title, score, total, percentage, result, created_at
			FROM quiz_attempts
			ORDER BY created_at DESC`
		rows, err = s.db.Query(ctx, query)
	} else {
		const query = `
			SELECT id, session_id, test_title, score, total, percentage, result, created_at
			FROM quiz_attempts
			WHERE session_id = $1
			ORDER BY created_at DESC`
		rows, err = s.db.Query(ctx, query, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("quizstore: list: %w", err)
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("quizstore: list scan: %w", err)
		}
		attempts = append(attempts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quizstore: list: %w", err)
	}
	return attempts, nil
}

func scanAttempt(row pgx.Row) (*Attempt, error) {
	var (
		a          Attempt
		resultJSON []byte
	)
	if err := row.Scan(
		&a.ID, &a.SessionID, &a.TestTitle, &a.Score, &a.Total, &a.Percentage,
		&resultJSON, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(resultJSON) > 0 && string(resultJSON) != "{}" {
		if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
			return nil, fmt.Errorf("quizstore: unmarshal result: %w", err)
		}
	}
	return &a, nil
}

// isDuplicateKeyError reports a unique violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
