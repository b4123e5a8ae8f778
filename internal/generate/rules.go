// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// Beat puts an offering beat on every word of a rheme that heads an
// established discourse entity.
type Beat struct {
	discourse Discourse
	d         *dispatch.Dispatcher
	log       *zap.Logger
}

// NewBeat returns the beat generator.
func NewBeat(discourse Discourse, log *zap.Logger) *Beat {
	log = orNop(log)
	g := &Beat{discourse: discourse, d: dispatch.New(NameBeat, log), log: log}

	g.d.Register(dispatch.Call1(func(r *tree.Articulation) {
		for _, p := range r.Phrases {
			g.d.Match(r, p)
		}
	}), tree.RhemeType)
	g.d.Register(dispatch.Call2(func(r *tree.Articulation, c *tree.Constituent) {
		for _, f := range c.Features {
			g.d.Match(r, f)
		}
	}), tree.RhemeType, tree.ConstituentType)
	g.d.Register(dispatch.Call2(g.word), tree.RhemeType, tree.WordType)
	return g
}

func (g *Beat) Name() string { return NameBeat }

func (g *Beat) Generate(u *tree.Utterance) error {
	for _, a := range u.Articulations() {
		g.d.Match(a)
	}
	return nil
}

func (g *Beat) word(_ *tree.Articulation, w *tree.Word) {
	if g.discourse.IsNew(w) {
		g.log.Debug("adding beat", zap.Stringer("word", w))
		w.AddBehavior(behavior.NewGesture(behavior.GestureBeat, "offer", behavior.HandRight))
	}
}

// HeadNod nods on every word of a rheme that heads an established discourse
// entity.
type HeadNod struct {
	discourse Discourse
	d         *dispatch.Dispatcher
	log       *zap.Logger
}

// NewHeadNod returns the head nod generator.
func NewHeadNod(discourse Discourse, log *zap.Logger) *HeadNod {
	log = orNop(log)
	g := &HeadNod{discourse: discourse, d: dispatch.New(NameHeadNod, log), log: log}

	g.d.Register(dispatch.Call1(func(r *tree.Articulation) {
		for _, p := range r.Phrases {
			g.d.Match(p)
		}
	}), tree.RhemeType)
	g.d.Register(dispatch.Call1(func(c *tree.Constituent) {
		for _, f := range c.Features {
			g.d.Match(f)
		}
	}), tree.ConstituentType)
	g.d.Register(dispatch.Call1(func(w *tree.Word) {
		if g.discourse.IsNew(w) {
			g.log.Debug("adding head nod", zap.Stringer("word", w))
			w.AddBehavior(behavior.NewHeadNod())
		}
	}), tree.WordType)
	return g
}

func (g *HeadNod) Name() string { return NameHeadNod }

// Generate visits rhemes only; themes have no handler.
func (g *HeadNod) Generate(u *tree.Utterance) error {
	for _, a := range u.Articulations() {
		if a.Role == tree.Rheme {
			g.d.Match(a)
		}
	}
	return nil
}

// Punctuation raises the eyebrows over a clause that contains an
// exclamation or question mark.
type Punctuation struct {
	d   *dispatch.Dispatcher
	log *zap.Logger
}

// NewPunctuation returns the punctuation generator.
func NewPunctuation(log *zap.Logger) *Punctuation {
	log = orNop(log)
	g := &Punctuation{d: dispatch.New(NamePunctuation, log), log: log}

	g.d.Register(dispatch.Call2(func(cl *tree.Clause, c *tree.Constituent) {
		for _, f := range c.Features {
			g.d.Match(cl, f)
		}
	}), tree.ClauseType, tree.ConstituentType)
	g.d.Register(dispatch.Call2(func(cl *tree.Clause, w *tree.Word) {
		if w.Token == "!" || w.Token == "?" {
			g.log.Debug("adding eyebrows", zap.Stringer("word", w))
			cl.AddBehavior(behavior.NewEyebrows())
		}
	}), tree.ClauseType, tree.WordType)
	return g
}

func (g *Punctuation) Name() string { return NamePunctuation }

func (g *Punctuation) Generate(u *tree.Utterance) error {
	for _, cl := range u.Clauses {
		for _, a := range cl.Articulations() {
			if a == nil {
				continue
			}
			for _, p := range a.Phrases {
				g.d.Match(cl, p)
			}
		}
	}
	return nil
}

// Contrast gestures words that stand in contrast to others. A word with a
// single contrast gets the left-hand contrast gesture and its counterpart
// the right-hand one; a word with several contrasts beats once per
// counterpart.
type Contrast struct {
	d   *dispatch.Dispatcher
	log *zap.Logger
}

// NewContrast returns the contrast generator.
func NewContrast(log *zap.Logger) *Contrast {
	log = orNop(log)
	g := &Contrast{d: dispatch.New(NameContrast, log), log: log}

	g.d.Register(dispatch.Call1(func(c *tree.Constituent) {
		for _, f := range c.Features {
			g.d.Match(f)
		}
	}), tree.ConstituentType)
	g.d.Register(dispatch.Call1(g.word), tree.WordType)
	return g
}

func (g *Contrast) Name() string { return NameContrast }

func (g *Contrast) Generate(u *tree.Utterance) error {
	for _, a := range u.Articulations() {
		for _, p := range a.Phrases {
			g.d.Match(p)
		}
	}
	return nil
}

func (g *Contrast) word(w *tree.Word) {
	contrasts := w.Contrasts()
	switch {
	case len(contrasts) == 1:
		other := contrasts[0]
		g.log.Debug("contrast pair", zap.Stringer("word", w), zap.Stringer("with", other))
		if !hasGestureType(other, behavior.GestureContrast1) {
			other.AddBehavior(contrastGesture(behavior.GestureContrast1, other.Key(), behavior.HandRight))
		}
		w.AddBehavior(contrastGesture(behavior.GestureContrast2, other.Key(), behavior.HandLeft))
	case len(contrasts) > 1:
		for _, other := range contrasts {
			w.AddBehavior(behavior.NewGesture(behavior.GestureBeat, other.Key(), behavior.HandRight))
		}
	}
}

func contrastGesture(typ, value string, hand behavior.Hand) *behavior.Gesture {
	return behavior.NewGesture(typ, value, hand, behavior.Arm{
		Handshape:  "contrast",
		Trajectory: "contrast_trajectory",
		Side:       hand,
	})
}

func hasGestureType(c tree.Container, typ string) bool {
	for _, b := range c.Behaviors() {
		if g, ok := b.(*behavior.Gesture); ok && g.Type == typ {
			return true
		}
	}
	return false
}
