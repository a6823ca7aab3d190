// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records extraction runs in a SQLite database so users
// can see what was pulled out of which archives, and where it went.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/slusenc/convpix/pkg/types"
)

const dbFile = "history.db"

// Store manages the extraction history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			time TEXT NOT NULL,
			bases TEXT NOT NULL,
			model TEXT NOT NULL,
			anims TEXT,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS placed_files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			dest TEXT NOT NULL,
			texture INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_placed_files_run_id ON placed_files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and its placed files in one transaction and
// returns the run ID.
func (s *Store) Record(ctx context.Context, run *types.Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	basesJSON, _ := json.Marshal(run.Bases)
	animsJSON, _ := json.Marshal(run.Anims)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (time, bases, model, anims, status) VALUES (?, ?, ?, ?, ?)`,
		run.Time.UTC().Format(time.RFC3339Nano), string(basesJSON),
		run.Model, string(animsJSON), string(run.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO placed_files (run_id, source, dest, texture) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range run.Files {
		if _, err := stmt.ExecContext(ctx, id, f.Source, f.Dest, f.Texture); err != nil {
			return 0, fmt.Errorf("inserting placed file %s: %w", f.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// Recent returns up to limit runs, newest first, optionally filtered by
// model subpath substring. Placed files are loaded for each run.
func (s *Store) Recent(ctx context.Context, limit int, model string) ([]types.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, time, bases, model, anims, status FROM runs`
	args := []any{}
	if model != "" {
		query += ` WHERE model LIKE ?`
		args = append(args, "%"+model+"%")
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			run                  types.Run
			timeStr, basesJSON   string
			animsJSON, statusStr string
		)
		if err := rows.Scan(&run.ID, &timeStr, &basesJSON, &run.Model, &animsJSON, &statusStr); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, timeStr); err == nil {
			run.Time = t
		}
		json.Unmarshal([]byte(basesJSON), &run.Bases)
		json.Unmarshal([]byte(animsJSON), &run.Anims)
		run.Status = types.RunStatus(statusStr)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		files, err := s.files(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

func (s *Store) files(ctx context.Context, runID int64) ([]types.PlacedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, dest, texture FROM placed_files WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying placed files: %w", err)
	}
	defer rows.Close()

	var files []types.PlacedFile
	for rows.Next() {
		var f types.PlacedFile
		if err := rows.Scan(&f.Source, &f.Dest, &f.Texture); err != nil {
			return nil, fmt.Errorf("scanning placed file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ExportYAML writes up to limit recent runs to w as a YAML document.
func (s *Store) ExportYAML(ctx context.Context, limit int, w io.Writer) error {
	runs, err := s.Recent(ctx, limit, "")
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	_, err = w.Write(data)
	return err
}
