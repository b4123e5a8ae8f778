// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// Chunker splits a sentence's top-level features into clauses. A clause ends
// at punctuation once a verb has been seen.
type Chunker struct {
	d   *dispatch.Dispatcher
	log *zap.Logger

	chunks  [][]tree.Node
	current []tree.Node
	hasVerb bool
}

// NewChunker returns a Chunker.
func NewChunker(log *zap.Logger) *Chunker {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Chunker{
		d:   dispatch.New("information-chunker", log),
		log: log,
	}
	c.d.Register(dispatch.Call1(c.word), tree.WordType)
	c.d.Register(dispatch.Call1(c.constituent), tree.ConstituentType)
	return c
}

// Chunk returns the clauses of features in order. Every feature lands in
// exactly one clause.
func (c *Chunker) Chunk(features []tree.Node) [][]tree.Node {
	c.chunks = nil
	c.current = nil
	c.hasVerb = false

	for _, f := range features {
		c.current = append(c.current, f)
		c.d.Match(f)
	}

	if len(c.chunks) == 0 {
		c.log.Warn("sentence has no clause-ending punctuation, using it whole",
			zap.Int("features", len(features)))
		return [][]tree.Node{slices.Clone(features)}
	}
	if len(c.current) > 0 {
		if c.hasVerb {
			c.chunks = append(c.chunks, c.current)
		} else {
			last := len(c.chunks) - 1
			c.chunks[last] = append(c.chunks[last], c.current...)
		}
	}
	return c.chunks
}

func (c *Chunker) word(w *tree.Word) {
	if w.Is(tree.Verb) {
		c.hasVerb = true
	}
	if w.Is(tree.Punctuation) && c.hasVerb {
		c.chunks = append(c.chunks, c.current)
		c.current = nil
		c.hasVerb = false
	}
}

func (c *Chunker) constituent(con *tree.Constituent) {
	for _, f := range con.Features {
		c.d.Match(f)
	}
}
