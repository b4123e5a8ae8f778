// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile serializes an utterance and its behaviors. The BML
// compiler produces a timed speech block followed by one tag per behavior;
// the McNeill compiler produces a bracketed transcript.
package compile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/timecode"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// Handler roles of the BML compiler.
const (
	roleSpeech    dispatch.Role = "speech"
	roleBehaviors dispatch.Role = "behaviors"
)

// speech accumulates the speech block.
type speech struct {
	sb      strings.Builder
	started bool
}

// scope collects the words under a container and the rendered tags.
type scope struct {
	words []*tree.Word
	out   *strings.Builder
	tags  int
}

var (
	speechT = dispatch.Of[*speech]("speech")
	scopeT  = dispatch.Of[*scope]("scope")
)

// BML compiles utterances to Behavior Markup Language.
type BML struct {
	speech    *dispatch.Table
	behaviors *dispatch.Table
	log       *zap.Logger
}

// NewBML returns a BML compiler.
func NewBML(log *zap.Logger) *BML {
	if log == nil {
		log = zap.NewNop()
	}
	d := dispatch.New("bml-compiler", log)
	c := &BML{
		speech:    d.Role(roleSpeech),
		behaviors: d.Role(roleBehaviors),
		log:       log,
	}

	c.speech.Register(dispatch.Call2(c.speechWord), speechT, tree.WordType)
	c.speech.Register(dispatch.Call2(func(s *speech, con *tree.Constituent) {
		for _, f := range con.Features {
			c.speech.Match(s, f)
		}
	}), speechT, tree.ConstituentType)

	c.behaviors.Register(dispatch.Call2(func(s *scope, a *tree.Articulation) {
		c.container(s, a, a.Phrases)
	}), scopeT, tree.ArticulationType)
	c.behaviors.Register(dispatch.Call2(func(s *scope, con *tree.Constituent) {
		c.container(s, con, con.Features)
	}), scopeT, tree.ConstituentType)
	c.behaviors.Register(dispatch.Call2(c.behaviorWord), scopeT, tree.WordType)
	return c
}

// Compile renders u as a <bml> block. The second result is the number of
// behavior tags emitted.
func (c *BML) Compile(u *tree.Utterance) (string, int) {
	var out strings.Builder
	out.WriteString("<bml>")

	s := &speech{}
	for _, a := range u.Articulations() {
		for _, p := range a.Phrases {
			c.speech.Match(s, p)
		}
	}
	out.WriteString("<speech>")
	out.WriteString(s.sb.String())
	out.WriteString("</speech>\n")

	tags := 0
	for _, cl := range u.Clauses {
		sc := &scope{out: &out}
		for _, a := range cl.Articulations() {
			if a != nil {
				c.behaviors.Match(sc, a)
			}
		}
		c.render(sc, cl, sc.words)
		tags += sc.tags
	}

	out.WriteString("</bml>")
	return out.String(), tags
}

func (c *BML) speechWord(s *speech, w *tree.Word) {
	if s.started && !w.Is(tree.Punctuation) {
		s.sb.WriteByte(' ')
	}
	if w.Begin.Valid() {
		s.sb.WriteString(`<mark time="`)
		s.sb.WriteString(w.Begin.Format())
		s.sb.WriteString(`"/>`)
	}
	s.sb.WriteString(w.Token)
	s.started = true
}

// container visits children in a nested scope, then renders the
// container's own behaviors over the children's words.
func (c *BML) container(parent *scope, con tree.Container, children []tree.Node) {
	child := &scope{out: parent.out}
	for _, f := range children {
		c.behaviors.Match(child, f)
	}
	parent.words = append(parent.words, child.words...)
	parent.tags += child.tags
	c.render(parent, con, child.words)
}

func (c *BML) behaviorWord(s *scope, w *tree.Word) {
	s.words = append(s.words, w)
	c.emit(s, w, w.Begin, w.End)
}

// render emits con's behaviors from the begin time of its first word to the
// begin time of its last word. An end at or before the begin renders as a
// point event.
func (c *BML) render(s *scope, con tree.Container, words []*tree.Word) {
	begin, end := timecode.None, timecode.None
	if len(words) > 0 {
		begin = words[0].Begin
		end = words[len(words)-1].Begin
	}
	c.emit(s, con, begin, end)
}

func (c *BML) emit(s *scope, con tree.Container, begin, end timecode.Time) {
	for _, b := range con.Behaviors() {
		start, ok := begin.Seconds()
		if !ok {
			c.log.Warn("no begin time for behavior",
				zap.Stringer("behavior", b),
				zap.String("container", fmt.Sprint(con)),
			)
			continue
		}
		if stop, ok := end.Seconds(); ok && stop <= start {
			end = timecode.None
		}
		tag := b.Markup(start, end)
		if tag == "" {
			c.log.Warn("cannot produce BML for behavior",
				zap.Stringer("behavior", b),
				zap.String("container", fmt.Sprint(con)),
			)
			continue
		}
		s.out.WriteString(tag)
		s.out.WriteByte('\n')
		s.tags++
	}
}
