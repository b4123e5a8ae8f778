// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// Gaze priorities. Looking at a hearer outranks looking away.
const (
	gazeAwayPriority    = 1
	gazeTowardsPriority = 5
)

// turnPosition says whether an articulation opens or closes the turn.
type turnPosition struct {
	first, last bool
}

var turnT = dispatch.Of[turnPosition]("turn")

// Gaze looks away from the hearer at the start of a theme and back at a
// hearer during a rheme. The first articulation of a turn always looks
// away and the last always looks back; others do so with the configured
// probability.
type Gaze struct {
	audience    Audience
	rng         *rand.Rand
	themeChance float64
	rhemeChance float64
	d           *dispatch.Dispatcher
	log         *zap.Logger
}

// NewGaze returns the gaze generator. audience may be nil.
func NewGaze(audience Audience, rng *rand.Rand, themeChance, rhemeChance float64, log *zap.Logger) *Gaze {
	log = orNop(log)
	g := &Gaze{
		audience:    audience,
		rng:         rng,
		themeChance: themeChance,
		rhemeChance: rhemeChance,
		d:           dispatch.New(NameGaze, log),
		log:         log,
	}

	g.d.Register(dispatch.Call2(g.theme), tree.ThemeType, turnT)
	g.d.Register(dispatch.Call2(g.rheme), tree.RhemeType, turnT)
	return g
}

func (g *Gaze) Name() string { return NameGaze }

func (g *Gaze) Generate(u *tree.Utterance) error {
	arts := u.Articulations()
	for i, a := range arts {
		g.d.Match(a, turnPosition{first: i == 0, last: i == len(arts)-1})
	}
	return nil
}

func (g *Gaze) theme(a *tree.Articulation, pos turnPosition) {
	if pos.first || g.chance(g.themeChance) {
		g.log.Debug("adding gaze away", zap.Stringer("articulation", a))
		gz := behavior.NewGaze(behavior.AwayFromHearer, "")
		gz.SetPriority(gazeAwayPriority)
		a.AddBehavior(gz)
	}
}

func (g *Gaze) rheme(a *tree.Articulation, pos turnPosition) {
	if pos.last || g.chance(g.rhemeChance) {
		hearer := g.randomHearer()
		g.log.Debug("adding gaze towards hearer", zap.Stringer("articulation", a), zap.String("hearer", hearer))
		gz := behavior.NewGaze(behavior.TowardsHearer, hearer)
		gz.SetPriority(gazeTowardsPriority)
		a.AddBehavior(gz)
	}
}

func (g *Gaze) chance(p float64) bool {
	return p > g.rng.Float64()
}

// randomHearer returns "" when nobody is listening, which renders as the
// camera.
func (g *Gaze) randomHearer() string {
	if g.audience == nil {
		return ""
	}
	hearers := g.audience.Hearers()
	if len(hearers) == 0 {
		return ""
	}
	return hearers[g.rng.IntN(len(hearers))]
}
