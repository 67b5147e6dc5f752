// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/xorbreak/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for run history.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			ciphertext_sha256 TEXT NOT NULL,
			ciphertext_len INTEGER NOT NULL,
			key_size INTEGER NOT NULL,
			key_hex TEXT NOT NULL,
			score TEXT NOT NULL,
			sample_chunks INTEGER NOT NULL,
			charset TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_keysize_scores (
			run_id INTEGER NOT NULL,
			key_size INTEGER NOT NULL,
			score TEXT NOT NULL,
			PRIMARY KEY (run_id, key_size)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_sha256 ON runs(ciphertext_sha256);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run and the key size scores that led to it.
func (s *Store) InsertRun(ctx context.Context, run model.Run, scores []model.KeySizeScore) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, source, ciphertext_sha256, ciphertext_len, key_size, key_hex, score, sample_chunks, charset)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Source,
		run.CiphertextSHA256,
		run.CiphertextLen,
		run.KeySize,
		hex.EncodeToString(run.Key),
		ratString(run.Score),
		run.SampleChunks,
		run.Charset,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(scores) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_keysize_scores (run_id, key_size, score) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ks := range scores {
			if _, err := stmt.ExecContext(ctx, id, ks.KeySize, ratString(ks.Score)); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs, oldest first, filtered by cfg.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, cfg.Source)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, created_at, source, ciphertext_sha256, ciphertext_len, key_size, key_hex, score, sample_chunks, charset
		FROM runs
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var createdAt, keyHex, score string
		if err := rows.Scan(&run.ID, &createdAt, &run.Source, &run.CiphertextSHA256, &run.CiphertextLen,
			&run.KeySize, &keyHex, &score, &run.SampleChunks, &run.Charset); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, err
		}
		if run.Key, err = hex.DecodeString(keyHex); err != nil {
			return nil, fmt.Errorf("run %d: invalid key: %w", run.ID, err)
		}
		if run.Score, err = parseRat(score); err != nil {
			return nil, fmt.Errorf("run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// GetKeySizeScores returns the candidate scores recorded for a run, by key size.
func (s *Store) GetKeySizeScores(ctx context.Context, runID int64) ([]model.KeySizeScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key_size, score FROM run_keysize_scores WHERE run_id = ? ORDER BY key_size ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeySizeScore
	for rows.Next() {
		var ks model.KeySizeScore
		var score string
		if err := rows.Scan(&ks.KeySize, &score); err != nil {
			return nil, err
		}
		if ks.Score, err = parseRat(score); err != nil {
			return nil, err
		}
		result = append(result, ks)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func ratString(r *big.Rat) string {
	if r == nil {
		return "0"
	}
	return r.RatString()
}

func parseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid score %q", s)
	}
	return r, nil
}
