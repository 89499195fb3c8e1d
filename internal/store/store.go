// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pnw-engineering/AdditionGame/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for saved progress and answer history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			first INTEGER NOT NULL,
			second INTEGER NOT NULL,
			submitted INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			answered_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_answered_at ON answers(answered_at);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_level ON answers(level);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get decodes the JSON value stored under key into dst. It reports false
// and leaves dst untouched when the key is absent.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key as JSON, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().Format(time.RFC3339Nano))
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// InsertAnswer appends one graded answer to the history.
func (s *Store) InsertAnswer(ctx context.Context, a model.Answer) (int64, error) {
	correct := 0
	if a.Correct {
		correct = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (session_id, level, first, second, submitted, correct, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID,
		int(a.Level),
		a.First,
		a.Second,
		a.Submitted,
		correct,
		a.AnsweredAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAnswers returns history entries in answer order, oldest first.
func (s *Store) ListAnswers(ctx context.Context, filter model.HistoryFilter) ([]model.Answer, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Level != nil {
		clauses = append(clauses, "level = ?")
		args = append(args, int(*filter.Level))
	}
	if filter.Since != nil {
		clauses = append(clauses, "answered_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, session_id, level, first, second, submitted, correct, answered_at
		FROM answers
		WHERE %s
		ORDER BY answered_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		var level, correct int
		var answeredAt string
		if err := rows.Scan(&a.ID, &a.SessionID, &level, &a.First, &a.Second, &a.Submitted, &correct, &answeredAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, answeredAt)
		if err != nil {
			return nil, err
		}
		a.Level = model.Level(level)
		a.Correct = correct != 0
		a.AnsweredAt = parsed
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(answers) > filter.Last {
		answers = answers[len(answers)-filter.Last:]
	}
	return answers, nil
}

// DeleteAnswers clears the history of one level.
func (s *Store) DeleteAnswers(ctx context.Context, level model.Level) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE level = ?`, int(level))
	return err
}
