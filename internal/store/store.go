// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/notetutor/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const highScoreKey = "high_score"

// Store wraps SQLite access for session data.
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
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			clef TEXT NOT NULL,
			duration_s INTEGER NOT NULL,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			note TEXT NOT NULL,
			guess TEXT NOT NULL,
			correct INTEGER NOT NULL,
			at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_note ON attempts(note);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HighScore returns the stored high score. A missing or unparseable value reads as 0.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, highScoreKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || score < 0 {
		return 0, nil
	}
	return score, nil
}

// SetHighScore overwrites the stored high score.
func (s *Store) SetHighScore(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		highScoreKey, strconv.Itoa(score))
	return err
}

// InsertSession stores a completed session and its attempts.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	correct := 0
	for _, a := range rec.Attempts {
		if a.Correct {
			correct++
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, clef, duration_s, total, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(),
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		string(rec.Config.Clef),
		rec.Config.Duration,
		len(rec.Attempts),
		correct,
	)
	if err != nil {
		return err
	}

	if len(rec.Attempts) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO attempts (session_id, seq, note, guess, correct, at)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, a := range rec.Attempts {
			if _, err = stmt.ExecContext(ctx, rec.ID.String(), i, a.Note.String(), a.Guess.String(), boolToInt(a.Correct), a.At.Format(time.RFC3339Nano)); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// GetWeakNotes aggregates attempts per note over the most recent sessions of a clef.
func (s *Store) GetWeakNotes(ctx context.Context, window int, clef model.Clef) ([]model.NoteAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR clef = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT a.note, SUM(a.correct) AS correct, SUM(1 - a.correct) AS incorrect
	FROM attempts a
	JOIN recent_sessions r ON r.id = a.session_id
	GROUP BY a.note`

	rows, err := s.db.QueryContext(ctx, query, string(clef), string(clef), window)
	if err != nil {
		return nil, err
	}
	return scanNoteAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Clef != "" {
		clauses = append(clauses, "clef = ?")
		args = append(args, string(cfg.Clef))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, clef, duration_s, total, correct
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
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

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt, clef string
		if err := rows.Scan(&agg.SessionID, &endedAt, &clef, &agg.Duration, &agg.Total, &agg.Correct); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Clef = model.Clef(clef)
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListNoteAggregatesForSessions aggregates per-note attempts across sessions.
func (s *Store) ListNoteAggregatesForSessions(ctx context.Context, sessionIDs []string) ([]model.NoteAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT note, SUM(correct) AS correct, SUM(1 - correct) AS incorrect
		FROM attempts
		WHERE session_id IN (%s)
		GROUP BY note`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanNoteAggregates(rows)
}

// ListAttempts returns the attempts of one session in answer order.
func (s *Store) ListAttempts(ctx context.Context, sessionID string) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT note, guess, correct, at FROM attempts WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.Attempt
	for rows.Next() {
		var noteName, guess, at string
		var correct int
		if err := rows.Scan(&noteName, &guess, &correct, &at); err != nil {
			return nil, err
		}
		note, err := model.ParseNote(noteName)
		if err != nil {
			return nil, err
		}
		letter, ok := model.ParseLetter(guess)
		if !ok {
			return nil, fmt.Errorf("invalid stored guess %q", guess)
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, model.Attempt{Note: note, Guess: letter, Correct: correct != 0, At: parsed})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

func scanNoteAggregates(rows *sql.Rows) ([]model.NoteAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.NoteAggregate
	for rows.Next() {
		var agg model.NoteAggregate
		if err := rows.Scan(&agg.Note, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
