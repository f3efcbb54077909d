// Package history keeps a log of finished focus sessions in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome tells how a session finished.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// Record is one finished session.
type Record struct {
	ID        string
	Subject   string
	Minutes   float64
	ElapsedMs int64
	Outcome   Outcome
	EndedAt   time.Time
}

// ErrEmptySubject is returned when a record has no subject.
var ErrEmptySubject = errors.New("history: empty subject")

// Store persists records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            subject TEXT NOT NULL,
            minutes REAL NOT NULL,
            elapsed_ms INTEGER NOT NULL,
            outcome TEXT NOT NULL,
            ended_at DATETIME NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores r, filling in ID and EndedAt when they are empty.
func (s *Store) Add(ctx context.Context, r *Record) error {
	if r.Subject == "" {
		return ErrEmptySubject
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, subject, minutes, elapsed_ms, outcome, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Subject, r.Minutes, r.ElapsedMs, string(r.Outcome), r.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, minutes, elapsed_ms, outcome, ended_at
		 FROM sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var outcome string
		if err := rows.Scan(&r.ID, &r.Subject, &r.Minutes, &r.ElapsedMs, &outcome, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.Outcome = Outcome(outcome)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
