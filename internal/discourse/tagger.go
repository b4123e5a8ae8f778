// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// producerRef names entities introduced by personal pronouns.
const producerRef = "PRODUCER"

// Tagger walks a sentence's features and registers every referring
// expression with the Model, either as a new entity or as a reference to an
// existing one.
type Tagger struct {
	model    *Model
	counters map[string]int
	d        *dispatch.Dispatcher
	log      *zap.Logger
	err      error
}

// NewTagger returns a Tagger that records entities in model.
func NewTagger(model *Model, log *zap.Logger) *Tagger {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tagger{
		model:    model,
		counters: make(map[string]int),
		d:        dispatch.New("discourse-tagger", log),
		log:      log,
	}

	t.d.Register(dispatch.Call1(t.constituent), tree.ConstituentType)
	t.d.Register(dispatch.Call1(t.nounPhrase), tree.NounPhraseType)
	t.d.Register(dispatch.Call2(t.constituentWord), tree.ConstituentType, tree.WordType)
	t.d.Register(dispatch.Call2(t.nounPhraseWord), tree.NounPhraseType, tree.WordType)
	t.d.Register(dispatch.Call2(t.nounPhraseConstituent), tree.NounPhraseType, tree.ConstituentType)
	return t
}

// Model returns the model the tagger writes to.
func (t *Tagger) Model() *Model { return t.model }

// Tag processes the top-level features of one sentence.
func (t *Tagger) Tag(features []tree.Node) error {
	t.err = nil
	for _, f := range features {
		t.d.Match(f)
		if t.err != nil {
			return t.err
		}
	}
	t.log.Debug("tagged discourse", zap.Int("entities", t.model.Len()))
	return nil
}

// ClearState empties the model and restarts identifier numbering.
func (t *Tagger) ClearState() {
	t.model.ClearState()
	clear(t.counters)
}

func (t *Tagger) constituent(c *tree.Constituent) {
	for _, f := range c.Features {
		t.d.Match(c, f)
	}
}

func (t *Tagger) nounPhrase(np *tree.Constituent) {
	for _, f := range np.Features {
		t.d.Match(np, f)
	}
}

func (t *Tagger) nounPhraseConstituent(np, c *tree.Constituent) {
	for _, f := range c.Features {
		t.d.Match(np, f)
	}
}

// constituentWord handles adjectives and verbs outside noun phrases. They
// refer to an entity introduced by an equal word, or introduce one.
func (t *Tagger) constituentWord(c *tree.Constituent, w *tree.Word) {
	if !w.Is(tree.Adjective) && !w.Is(tree.Verb) {
		return
	}
	for _, e := range t.model.Entities() {
		if e.Word.Equal(w) {
			t.refer(e, c)
			return
		}
	}
	t.introduce(c, w)
}

// nounPhraseWord handles nouns and pronouns inside a noun phrase. Third
// person personal pronouns only ever refer back; they never introduce.
func (t *Tagger) nounPhraseWord(np *tree.Constituent, w *tree.Word) {
	switch {
	case w.Is(tree.Noun),
		w.Is(tree.Pronoun),
		w.Is(tree.PersonalPronoun) && (w.Is(tree.First) || w.Is(tree.Second)):
		for _, e := range t.model.Entities() {
			if e.Matches(w) {
				t.refer(e, np)
				return
			}
		}
		t.introduce(np, w)

	case w.Is(tree.PersonalPronoun) && w.Is(tree.Third):
		for _, e := range t.model.Entities() {
			if e.Matches(w) {
				t.log.Debug("pronoun resolved", zap.Stringer("word", w), zap.Stringer("entity", e))
				t.refer(e, np)
				return
			}
		}
		t.log.Debug("pronoun without antecedent", zap.Stringer("word", w))
	}
}

func (t *Tagger) refer(e *Entity, c *tree.Constituent) {
	e.AddReferrer(c)
	if err := t.model.Refer(e); err != nil && t.err == nil {
		t.err = fmt.Errorf("tagging %v: %w", c, err)
	}
}

func (t *Tagger) introduce(c *tree.Constituent, w *tree.Word) {
	e := NewEntity(t.identifier(w), w)
	e.AddReferrer(c)
	t.model.AddEntity(e)
}

// identifier returns PRODUCER<n> for personal pronouns and the uppercased
// token with a running number otherwise.
func (t *Tagger) identifier(w *tree.Word) string {
	ref := strings.ToUpper(w.Token)
	if w.Is(tree.PersonalPronoun) {
		ref = producerRef
	}
	t.counters[ref]++
	return fmt.Sprintf("%s%d", ref, t.counters[ref])
}
