// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate attaches nonverbal behaviors to an utterance that has
// already been split into themes and rhemes. Each generator applies one
// rule; they run in name order.
package generate

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/knowledge"
	"github.com/pdiddy/beat-engine/internal/tree"
	"github.com/pdiddy/beat-engine/pkg/types"
)

// Generator adds behaviors to an utterance.
type Generator interface {
	Name() string
	Generate(u *tree.Utterance) error
}

// Generator names.
const (
	NameBeat        = "beat"
	NameContrast    = "contrast"
	NameGaze        = "gaze"
	NameHeadNod     = "headnod"
	NameIconic      = "iconic"
	NamePunctuation = "punctuation"
)

// Names lists every generator in run order.
var Names = []string{NameBeat, NameContrast, NameGaze, NameHeadNod, NameIconic, NamePunctuation}

// Discourse answers whether a word heads an established discourse entity.
type Discourse interface {
	IsNew(w *tree.Word) bool
}

// Knowledge is the part of the knowledge base the iconic generator uses.
type Knowledge interface {
	Instance(id string) (*knowledge.Instance, error)
	SurprisingValue(inst *knowledge.Instance) (string, bool)
	CompactGesture(value string) (*behavior.Gesture, error)
}

// Audience lists who may be looked at while speaking.
type Audience interface {
	Hearers() []string
}

// Deps are the collaborators generators draw on. Knowledge and Audience may
// be nil: the iconic generator is then skipped and gaze towards the hearer
// targets the camera.
type Deps struct {
	Discourse Discourse
	Knowledge Knowledge
	Audience  Audience
	Log       *zap.Logger
}

// Build returns the generators enabled in cfg sorted by name. An empty
// enabled list selects all of them.
func Build(cfg types.GeneratorConfig, deps Deps) ([]Generator, error) {
	deps.Log = orNop(deps.Log)
	names := cfg.Enabled
	if len(names) == 0 {
		names = Names
	}
	names = slices.Clone(names)
	sort.Strings(names)
	names = slices.Compact(names)

	var out []Generator
	for _, name := range names {
		switch name {
		case NameBeat:
			out = append(out, NewBeat(deps.Discourse, deps.Log))
		case NameContrast:
			out = append(out, NewContrast(deps.Log))
		case NameGaze:
			rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
			out = append(out, NewGaze(deps.Audience, rng, cfg.ThemeGazeProbability, cfg.RhemeGazeProbability, deps.Log))
		case NameHeadNod:
			out = append(out, NewHeadNod(deps.Discourse, deps.Log))
		case NameIconic:
			if deps.Knowledge == nil {
				deps.Log.Debug("iconic generator disabled without a knowledge base")
				continue
			}
			out = append(out, NewIconic(deps.Discourse, deps.Knowledge, deps.Log))
		case NamePunctuation:
			out = append(out, NewPunctuation(deps.Log))
		default:
			return nil, fmt.Errorf("unknown generator %q", name)
		}
	}
	return out, nil
}

// Run applies each generator to u in order.
func Run(u *tree.Utterance, gens []Generator) error {
	for _, g := range gens {
		if err := g.Generate(u); err != nil {
			return fmt.Errorf("%s generator: %w", g.Name(), err)
		}
	}
	return nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
