// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// transcript accumulates McNeill output. Prefixes are held back until the
// next token so that the separating space goes in front of them.
type transcript struct {
	sb       strings.Builder
	prefixes strings.Builder
	started  bool
}

func (t *transcript) flushPrefixes() {
	t.sb.WriteString(t.prefixes.String())
	t.prefixes.Reset()
}

var transcriptT = dispatch.Of[*transcript]("transcript")

// McNeill renders an utterance as text with each behavior's brackets around
// the span it covers, following McNeill's gesture transcription.
type McNeill struct {
	d   *dispatch.Dispatcher
	log *zap.Logger
}

// NewMcNeill returns a McNeill compiler.
func NewMcNeill(log *zap.Logger) *McNeill {
	if log == nil {
		log = zap.NewNop()
	}
	c := &McNeill{d: dispatch.New("mcneill-compiler", log), log: log}

	c.d.Register(dispatch.Call2(func(t *transcript, a *tree.Articulation) {
		c.wrap(t, a, func() {
			for _, p := range a.Phrases {
				c.d.Match(t, p)
			}
		})
	}), transcriptT, tree.ArticulationType)
	c.d.Register(dispatch.Call2(func(t *transcript, con *tree.Constituent) {
		c.wrap(t, con, func() {
			for _, f := range con.Features {
				c.d.Match(t, f)
			}
		})
	}), transcriptT, tree.ConstituentType)
	c.d.Register(dispatch.Call2(c.word), transcriptT, tree.WordType)
	return c
}

// Compile renders u.
func (c *McNeill) Compile(u *tree.Utterance) string {
	t := &transcript{}
	for _, cl := range u.Clauses {
		c.wrap(t, cl, func() {
			for _, a := range cl.Articulations() {
				if a != nil {
					c.d.Match(t, a)
				}
			}
		})
	}
	return t.sb.String()
}

func (c *McNeill) word(t *transcript, w *tree.Word) {
	c.wrap(t, w, func() {
		if t.started && !w.Is(tree.Punctuation) {
			t.sb.WriteByte(' ')
		}
		t.flushPrefixes()
		t.sb.WriteString(w.Token)
		t.started = true
	})
}

// wrap emits the prefixes of con's behaviors, the body, then the suffixes.
func (c *McNeill) wrap(t *transcript, con tree.Container, body func()) {
	brackets := c.bracketers(con)
	for _, b := range brackets {
		t.prefixes.WriteString(b.Prefix())
	}
	body()
	if len(brackets) > 0 {
		t.flushPrefixes()
	}
	for _, b := range brackets {
		t.sb.WriteString(b.Suffix())
	}
}

func (c *McNeill) bracketers(con tree.Container) []behavior.Bracketer {
	var out []behavior.Bracketer
	for _, b := range con.Behaviors() {
		br, ok := b.(behavior.Bracketer)
		if !ok {
			c.log.Debug("no McNeill form", zap.Stringer("behavior", b))
			continue
		}
		out = append(out, br)
	}
	return out
}
