// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// Lexicon lists the lemmas a word stands in contrast to.
type Lexicon interface {
	Contrasts(w *tree.Word) []string
}

// Handler roles of the contrast builder.
const (
	roleCollect dispatch.Role = "collect"
	roleProduce dispatch.Role = "produce"
)

type contrastEntry struct {
	word      *tree.Word
	opposites []string
}

var contrastsT = dispatch.Of[*[]contrastEntry]("contrasts")

// ContrastBuilder links words whose lemmas the lexicon lists as opposites of
// another word in the same utterance.
type ContrastBuilder struct {
	lexicon Lexicon
	collect *dispatch.Table
	produce *dispatch.Table
	log     *zap.Logger
}

// NewContrastBuilder returns a builder backed by lexicon.
func NewContrastBuilder(lexicon Lexicon, log *zap.Logger) *ContrastBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	d := dispatch.New("contrast-builder", log)
	b := &ContrastBuilder{
		lexicon: lexicon,
		collect: d.Role(roleCollect),
		produce: d.Role(roleProduce),
		log:     log,
	}

	b.collect.Register(dispatch.Call2(b.collectWord), contrastsT, tree.WordType)
	b.collect.Register(dispatch.Call2(func(m *[]contrastEntry, c *tree.Constituent) {
		for _, f := range c.Features {
			b.collect.Match(m, f)
		}
	}), contrastsT, tree.ConstituentType)

	b.produce.Register(dispatch.Call2(b.produceWord), contrastsT, tree.WordType)
	b.produce.Register(dispatch.Call2(func(m *[]contrastEntry, c *tree.Constituent) {
		for _, f := range c.Features {
			b.produce.Match(m, f)
		}
	}), contrastsT, tree.ConstituentType)
	return b
}

// Build records contrasts across the whole utterance.
func (b *ContrastBuilder) Build(u *tree.Utterance) {
	var entries []contrastEntry
	for _, a := range u.Articulations() {
		for _, p := range a.Phrases {
			b.collect.Match(&entries, p)
		}
	}
	if len(entries) == 0 {
		return
	}
	for _, a := range u.Articulations() {
		for _, p := range a.Phrases {
			b.produce.Match(&entries, p)
		}
	}
}

func (b *ContrastBuilder) collectWord(m *[]contrastEntry, w *tree.Word) {
	if opposites := b.lexicon.Contrasts(w); len(opposites) > 0 {
		b.log.Debug("contrast candidate", zap.Stringer("word", w), zap.Strings("opposites", opposites))
		*m = append(*m, contrastEntry{word: w, opposites: opposites})
	}
}

func (b *ContrastBuilder) produceWord(m *[]contrastEntry, w *tree.Word) {
	for _, e := range *m {
		if e.word != w && slices.Contains(e.opposites, w.Key()) {
			b.log.Debug("contrast", zap.Stringer("word", w), zap.Stringer("with", e.word))
			w.AddContrast(e.word)
		}
	}
}
