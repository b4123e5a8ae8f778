// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/beat-engine/internal/frontend"
	"github.com/pdiddy/beat-engine/pkg/types"
)

// DocumentResult holds one document's plans. Err joins the failures of
// individual sentences; the plans of the other sentences are still present.
type DocumentResult struct {
	Document string
	Plans    []types.Plan
	Err      error
}

// BatchSummary holds counts from a batch run.
type BatchSummary struct {
	Compiled int
	Failed   int
}

// Total returns the number of sentences processed.
func (s BatchSummary) Total() int {
	return s.Compiled + s.Failed
}

// RunDocument processes a document's sentences in order on one session. A
// failed sentence is reported and the discourse history is cleared before
// the next one.
func (e *Engine) RunDocument(ctx context.Context, doc *frontend.Document) DocumentResult {
	out := DocumentResult{Document: doc.ID}
	s, err := e.NewSession(Audience{
		Speaker:      doc.Speaker,
		Addressee:    doc.Addressee,
		Participants: doc.Participants,
		Scene:        doc.Scene,
	})
	if err != nil {
		out.Err = fmt.Errorf("document %s: %w", doc.ID, err)
		return out
	}

	var errs []error
	for i, sentence := range doc.Sentences {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if i > 0 && e.cfg.Compile.ResetPerSentence {
			s.ClearState()
		}

		plan, err := s.compileSentence(ctx, doc.ID, i, sentence)
		if err == nil {
			out.Plans = append(out.Plans, plan)
			continue
		}
		e.log.Warn("sentence failed", zap.String("document", doc.ID), zap.Int("sentence", i), zap.Error(err))
		errs = append(errs, fmt.Errorf("document %s sentence %d: %w", doc.ID, i, err))
		s.ClearState()
	}
	out.Err = errors.Join(errs...)
	return out
}

func (s *Session) compileSentence(ctx context.Context, docID string, index int, sentence frontend.Sentence) (types.Plan, error) {
	features, err := sentence.Nodes()
	if err != nil {
		return types.Plan{}, err
	}
	res, err := s.Process(ctx, features)
	if err != nil {
		return types.Plan{}, err
	}
	return types.Plan{
		Document:  docID,
		Sentence:  index,
		Text:      res.Utterance.Text(),
		BML:       res.BML,
		McNeill:   res.McNeill,
		Pruned:    res.Pruned,
		Entities:  res.Entities,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RunBatch processes documents concurrently, one session each, with at most
// cfg.Compile.Workers running at once. Results are in input order. Progress
// lines are written to w.
func (e *Engine) RunBatch(ctx context.Context, w io.Writer, docs []*frontend.Document) ([]DocumentResult, BatchSummary) {
	results := make([]DocumentResult, len(docs))
	workers := e.cfg.Compile.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = e.RunDocument(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	var summary BatchSummary
	for _, r := range results {
		summary.Compiled += len(r.Plans)
		failed := 0
		if r.Err != nil {
			failed = countJoined(r.Err)
		}
		summary.Failed += failed
		if failed > 0 {
			fmt.Fprintf(w, "failed    %s: %v\n", r.Document, r.Err)
		}
		fmt.Fprintf(w, "compiled  %s (%d sentences)\n", r.Document, len(r.Plans))
	}
	return results, summary
}

func countJoined(err error) int {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return len(j.Unwrap())
	}
	return 1
}
