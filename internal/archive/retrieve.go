// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/beat-engine/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query matches plans whose text or markup contains it.
	Query string

	// Document filters by input document.
	Document string

	// Entity filters by a discourse entity ID present after the utterance.
	Entity string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Document == "" && q.Entity == ""
}

// Retrieve returns plans matching opts ordered by document and sentence.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Plan, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT p.id, p.document, p.sentence, p.text, p.bml, p.mcneill, p.pruned, p.created_at
		FROM plans p
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND (p.text LIKE ? OR p.bml LIKE ?)`)
		like := "%" + opts.Query + "%"
		args = append(args, like, like)
	}

	if opts.Document != "" {
		qb.WriteString(` AND p.document = ?`)
		args = append(args, opts.Document)
	}

	if opts.Entity != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM entities e WHERE e.plan_id = p.id AND e.entity_id = ?)`)
		args = append(args, opts.Entity)
	}

	qb.WriteString(` ORDER BY p.document, p.sentence, p.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var plans []types.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].Entities, err = s.entities(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Get returns the plan with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document, sentence, text, bml, mcneill, pruned, created_at FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Plan{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return types.Plan{}, err
	}
	p.Entities, err = s.entities(ctx, id)
	return p, err
}

func (s *Store) entities(ctx context.Context, planID string) ([]types.EntityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, entity_id, head, referrers FROM entities WHERE plan_id = ? ORDER BY rank`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var out []types.EntityRecord
	for rows.Next() {
		var (
			e        types.EntityRecord
			refsJSON sql.NullString
		)
		if err := rows.Scan(&e.Rank, &e.ID, &e.Head, &refsJSON); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if refsJSON.Valid {
			json.Unmarshal([]byte(refsJSON.String), &e.Referrers)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(r scanner) (types.Plan, error) {
	var (
		p       types.Plan
		mcneill sql.NullString
		created string
	)
	if err := r.Scan(&p.ID, &p.Document, &p.Sentence, &p.Text, &p.BML, &mcneill, &p.Pruned, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scanning plan: %w", err)
	}
	if mcneill.Valid {
		p.McNeill = mcneill.String
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}
