// Package archive keeps an optional local transcript of the game: the
// narration lines observed so far and the outcome records reconstructed
// from them, persisted in SQLite for post-game review.
//
// Everything stored here is derived data. The core client rebuilds all of
// its state from the next snapshot; deleting the archive file loses
// nothing but history browsing.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrellis/caucus/internal/archive/migrations"
	"github.com/petrellis/caucus/internal/game/narration"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

// Store persists the game transcript in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens an archive store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordSync appends the narration lines the archive has not seen yet and
// rewrites the reconstructed outcomes. Safe to call after every sync: the
// narration log is append-only, so already-archived lines never change.
func (s *Store) RecordSync(ctx context.Context, snap snapshot.Snapshot, outcomes []narration.OutcomeRecord) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("archive is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	var archived int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM narration`).Scan(&archived); err != nil {
		return fmt.Errorf("count narration lines: %w", err)
	}
	for i := archived; i < len(snap.Log); i++ {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO narration (idx, line) VALUES (?, ?)`, i, snap.Log[i]); err != nil {
			return fmt.Errorf("insert narration line %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outcomes`); err != nil {
		return fmt.Errorf("clear outcomes: %w", err)
	}
	for pos, record := range outcomes {
		participants, err := json.Marshal(record.Participants)
		if err != nil {
			return fmt.Errorf("encode participants: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (pos, kind, subject, tie_breaker, participants) VALUES (?, ?, ?, ?, ?)`,
			pos, string(record.Kind), record.Subject, record.TieBreaker, string(participants)); err != nil {
			return fmt.Errorf("insert outcome %d: %w", pos, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_marks (id, round, term, recorded_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET round = excluded.round, term = excluded.term, recorded_at = excluded.recorded_at`,
		snap.Round, snap.Term, time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("update sync mark: %w", err)
	}

	return tx.Commit()
}

// NarrationLines returns every archived narration line in log order.
func (s *Store) NarrationLines(ctx context.Context) ([]string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT line FROM narration ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("query narration: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan narration line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Outcomes returns the archived outcome records in contest order.
func (s *Store) Outcomes(ctx context.Context) ([]narration.OutcomeRecord, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT kind, subject, tie_breaker, participants FROM outcomes ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var records []narration.OutcomeRecord
	for rows.Next() {
		var kind, subject, tieBreaker, participants string
		if err := rows.Scan(&kind, &subject, &tieBreaker, &participants); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		record := narration.OutcomeRecord{
			Kind:       narration.ContestKind(kind),
			Subject:    subject,
			TieBreaker: tieBreaker,
		}
		if err := json.Unmarshal([]byte(participants), &record.Participants); err != nil {
			return nil, fmt.Errorf("decode participants: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// applyMigrations executes each embedded migration at most once, tracked
// in a schema_migrations table.
func applyMigrations(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var count int
		if err := sqlDB.QueryRow(
			`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(
			`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
			name, time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
