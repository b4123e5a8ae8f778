// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// InstanceMatcher resolves a noun phrase's text to a knowledge base instance.
type InstanceMatcher interface {
	MatchInstance(description string) (id string, ok bool)
}

// GestureIndex reports whether the knowledge base defines a gesture for a
// verb identifier.
type GestureIndex interface {
	HasGesture(value string) bool
}

// wordsT lets handlers receive the phrase's word accumulator.
var wordsT = dispatch.Of[*[]string]("words")

// Identifier links noun and verb phrases to the knowledge base by setting
// their ID.
type Identifier struct {
	instances InstanceMatcher
	gestures  GestureIndex
	nouns     *dispatch.Dispatcher
	verbs     *dispatch.Dispatcher
	log       *zap.Logger
}

// NewIdentifier returns an Identifier. Either lookup may be nil to skip that
// phrase type.
func NewIdentifier(instances InstanceMatcher, gestures GestureIndex, log *zap.Logger) *Identifier {
	if log == nil {
		log = zap.NewNop()
	}
	id := &Identifier{
		instances: instances,
		gestures:  gestures,
		nouns:     dispatch.New("noun-phrase-identifier", log),
		verbs:     dispatch.New("verb-phrase-identifier", log),
		log:       log,
	}

	id.nouns.Register(dispatch.Call1(func(c *tree.Constituent) {
		for _, f := range c.Features {
			id.nouns.Match(f)
		}
	}), tree.ConstituentType)
	id.nouns.Register(dispatch.Call1(id.nounPhrase), tree.NounPhraseType)
	id.nouns.Register(dispatch.Call2(func(words *[]string, w *tree.Word) {
		*words = append(*words, w.Key())
	}), wordsT, tree.WordType)

	id.verbs.Register(dispatch.Call1(func(c *tree.Constituent) {
		for _, f := range c.Features {
			id.verbs.Match(f)
		}
	}), tree.ConstituentType)
	id.verbs.Register(dispatch.Call1(func(vp *tree.Constituent) {
		for _, f := range vp.Features {
			id.verbs.Match(vp, f)
		}
	}), tree.VerbPhraseType)
	id.verbs.Register(dispatch.Call2(id.verbWord), tree.VerbPhraseType, tree.WordType)
	return id
}

// Identify visits every articulation of u.
func (id *Identifier) Identify(u *tree.Utterance) {
	for _, a := range u.Articulations() {
		for _, p := range a.Phrases {
			if id.instances != nil {
				id.nouns.Match(p)
			}
			if id.gestures != nil {
				id.verbs.Match(p)
			}
		}
	}
}

// nounPhrase joins the phrase's own words and asks for a unique instance.
func (id *Identifier) nounPhrase(np *tree.Constituent) {
	var words []string
	for _, f := range np.Features {
		id.nouns.Match(&words, f)
	}
	text := strings.Join(words, " ")
	if inst, ok := id.instances.MatchInstance(text); ok {
		id.log.Debug("noun phrase identified", zap.String("text", text), zap.String("id", inst))
		np.ID = inst
	}
}

func (id *Identifier) verbWord(vp *tree.Constituent, w *tree.Word) {
	if !w.Is(tree.Verb) {
		return
	}
	ident := strings.ToUpper(w.Key())
	if id.gestures.HasGesture(ident) {
		id.log.Debug("verb phrase identified", zap.String("id", ident))
		vp.ID = ident
	}
}
