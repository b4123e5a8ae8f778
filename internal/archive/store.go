// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists compiled behavior plans and the discourse state
// that produced them in a SQLite database, and exports them as YAML or JSON.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/beat-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "plans.db"
)

// ErrNotFound is returned when a plan ID is not in the archive.
var ErrNotFound = errors.New("plan not found")

// Store manages the plan archive database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	now        func() time.Time
}

// NewStore opens or creates the archive database at dir/index/plans.db and
// creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document TEXT NOT NULL,
			sentence INTEGER NOT NULL,
			text TEXT NOT NULL,
			bml TEXT NOT NULL,
			mcneill TEXT,
			pruned INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			entity_id TEXT NOT NULL,
			head TEXT NOT NULL,
			referrers TEXT,
			PRIMARY KEY (plan_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_document ON plans(document, sentence)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_entity_id ON entities(entity_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSummary holds counts from a save run.
type SaveSummary struct {
	Saved  int
	Failed int
}

// Total returns the number of plans processed.
func (s SaveSummary) Total() int {
	return s.Saved + s.Failed
}

// Save stores plans, assigning an ID and creation time to any plan without
// one. Progress lines are written to w. The returned plans carry the
// assigned IDs.
func (s *Store) Save(ctx context.Context, w io.Writer, plans []types.Plan) ([]types.Plan, SaveSummary, error) {
	var summary SaveSummary
	saved := make([]types.Plan, 0, len(plans))

	for _, p := range plans {
		select {
		case <-ctx.Done():
			return saved, summary, ctx.Err()
		default:
		}

		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now().UTC()
		}

		if err := s.savePlan(ctx, &p); err != nil {
			fmt.Fprintf(w, "failed  %s#%d: %v\n", p.Document, p.Sentence, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "saved   %s#%d (%s)\n", p.Document, p.Sentence, p.ID)
		summary.Saved++
		saved = append(saved, p)
	}

	return saved, summary, nil
}

func (s *Store) savePlan(ctx context.Context, p *types.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, document, sentence, text, bml, mcneill, pruned, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Document, p.Sentence, p.Text, p.BML, p.McNeill, p.Pruned,
		p.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (plan_id, rank, entity_id, head, referrers) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range p.Entities {
		refsJSON, _ := json.Marshal(e.Referrers)
		if _, err := stmt.ExecContext(ctx, p.ID, e.Rank, e.ID, e.Head, string(refsJSON)); err != nil {
			return fmt.Errorf("inserting entity %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes the plans of a document and returns how many were removed.
func (s *Store) Delete(ctx context.Context, document string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE document = ?`, document)
	if err != nil {
		return 0, fmt.Errorf("deleting plans: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
