// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

const iconicPriority = 20

// Handler roles of the iconic generator.
const (
	roleCollect dispatch.Role = "collect"
	roleProduce dispatch.Role = "produce"
)

// Iconic depicts identified objects and actions in rhemes that mention an
// established entity. A noun phrase linked to a knowledge base instance
// gets the gesture for the instance's most surprising feature value; a verb
// phrase gets the gesture named by its identifier.
type Iconic struct {
	discourse Discourse
	kb        Knowledge
	collect   *dispatch.Table
	produce   *dispatch.Table
	log       *zap.Logger
}

// NewIconic returns the iconic generator.
func NewIconic(discourse Discourse, kb Knowledge, log *zap.Logger) *Iconic {
	log = orNop(log)
	d := dispatch.New(NameIconic, log)
	g := &Iconic{
		discourse: discourse,
		kb:        kb,
		collect:   d.Role(roleCollect),
		produce:   d.Role(roleProduce),
		log:       log,
	}

	g.collect.Register(dispatch.Eval1(func(r *tree.Articulation) bool {
		return g.anyNew(r.Phrases)
	}), tree.RhemeType)
	g.collect.Register(dispatch.Eval1(func(c *tree.Constituent) bool {
		return g.anyNew(c.Features)
	}), tree.ConstituentType)
	g.collect.Register(dispatch.Eval1(g.discourse.IsNew), tree.WordType)

	g.produce.Register(dispatch.Call1(func(r *tree.Articulation) {
		for _, p := range r.Phrases {
			g.produce.Match(p)
		}
	}), tree.RhemeType)
	g.produce.Register(dispatch.Call1(func(c *tree.Constituent) {
		for _, f := range c.Features {
			g.produce.Match(f)
		}
	}), tree.ConstituentType)
	g.produce.Register(dispatch.Call1(g.nounPhrase), tree.NounPhraseType)
	g.produce.Register(dispatch.Call1(g.verbPhrase), tree.VerbPhraseType)
	return g
}

func (g *Iconic) Name() string { return NameIconic }

func (g *Iconic) Generate(u *tree.Utterance) error {
	for _, a := range u.Articulations() {
		if found, ok := g.collect.Match(a); ok && found.(bool) {
			g.produce.Match(a)
		}
	}
	return nil
}

func (g *Iconic) anyNew(nodes []tree.Node) bool {
	for _, n := range nodes {
		if found, ok := g.collect.Match(n); ok && found.(bool) {
			return true
		}
	}
	return false
}

func (g *Iconic) nounPhrase(np *tree.Constituent) {
	if np.ID == "" {
		return
	}
	inst, err := g.kb.Instance(np.ID)
	if err != nil {
		g.log.Debug("noun phrase instance missing", zap.String("id", np.ID), zap.Error(err))
		return
	}
	value, ok := g.kb.SurprisingValue(inst)
	if !ok {
		return
	}
	g.attach(np, value)
}

func (g *Iconic) verbPhrase(vp *tree.Constituent) {
	if vp.ID != "" {
		g.attach(vp, vp.ID)
	}
}

func (g *Iconic) attach(c *tree.Constituent, value string) {
	gesture, err := g.kb.CompactGesture(value)
	if err != nil {
		g.log.Debug("no gesture", zap.String("value", value), zap.Error(err))
		return
	}
	gesture.SetPriority(iconicPriority)
	g.log.Debug("adding iconic gesture", zap.Stringer("phrase", c), zap.Stringer("gesture", gesture))
	c.AddBehavior(gesture)
}
