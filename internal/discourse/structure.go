// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// ErrMalformedStructure is returned when the focus flags match no row of the
// split table.
var ErrMalformedStructure = errors.New("no legal information structure")

// focusFlags records whether new information appears before the verb, in the
// verb, and after the verb.
type focusFlags struct {
	preVerb  bool
	hasVerb  bool
	postVerb bool
}

func (f focusFlags) String() string {
	return fmt.Sprintf("preVerb: %t, hasVerb: %t, postVerb: %t", f.preVerb, f.hasVerb, f.postVerb)
}

// split says how one row of the table divides a clause. The pre-verb features
// form the first articulation with role preRole; the verb joins them when
// verbWithPre is set and otherwise leads the second articulation.
type split struct {
	row         int
	preRole     tree.Role
	verbWithPre bool
}

// splits is the theme/rheme table. Row 6 is the only one where the pre-verb
// material is the rheme and the articulations come out rheme first.
var splits = map[focusFlags]split{
	{false, false, false}: {row: 1, preRole: tree.Theme},
	{true, true, false}:   {row: 2, preRole: tree.Theme},
	{true, false, true}:   {row: 3, preRole: tree.Theme, verbWithPre: true},
	{false, true, true}:   {row: 4, preRole: tree.Theme, verbWithPre: true},
	{true, true, true}:    {row: 5, preRole: tree.Theme, verbWithPre: true},
	{true, false, false}:  {row: 6, preRole: tree.Rheme},
	{false, true, false}:  {row: 7, preRole: tree.Theme},
	{false, false, true}:  {row: 8, preRole: tree.Theme, verbWithPre: true},
}

// StructureBuilder divides a clause's top-level features into a theme and a
// rheme according to where discourse-new words fall relative to the verb.
type StructureBuilder struct {
	model *Model
	d     *dispatch.Dispatcher
	log   *zap.Logger

	// scan state, reset per Build
	flags     focusFlags
	focused   bool
	verbFound bool
}

// NewStructureBuilder returns a builder that reads newness from model.
func NewStructureBuilder(model *Model, log *zap.Logger) *StructureBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	b := &StructureBuilder{
		model: model,
		d:     dispatch.New("information-structure", log),
		log:   log,
	}
	b.d.Register(dispatch.Call1(b.constituent), tree.ConstituentType)
	b.d.Register(dispatch.Call1(b.nounPhrase), tree.NounPhraseType)
	b.d.Register(dispatch.Call1(b.verbPhrase), tree.VerbPhraseType)
	b.d.Register(dispatch.Call2(b.word), tree.ConstituentType, tree.WordType)
	return b
}

// Build returns a clause whose articulations partition features. The verb
// appears in exactly one articulation.
func (b *StructureBuilder) Build(features []tree.Node) (*tree.Clause, error) {
	b.flags = focusFlags{}
	b.focused = false
	b.verbFound = false

	var (
		pre, post []tree.Node
		verb      tree.Node
	)
	for _, f := range features {
		b.d.Match(f)
		switch {
		case b.verbFound && verb == nil:
			// f is, or contains, the first verb phrase.
			verb = f
		case verb == nil:
			pre = append(pre, f)
		default:
			post = append(post, f)
		}
	}

	s, ok := splits[b.flags]
	if !ok {
		return nil, fmt.Errorf("%w with %s", ErrMalformedStructure, b.flags)
	}
	b.log.Debug("information structure",
		zap.Int("case", s.row),
		zap.Stringer("flags", b.flags),
	)

	first, second := pre, post
	if verb == nil {
		b.log.Warn("no verb found", zap.Int("features", len(features)))
	} else if s.verbWithPre {
		first = append(first, verb)
	} else {
		second = append([]tree.Node{verb}, second...)
	}

	postRole := tree.Rheme
	if s.preRole == tree.Rheme {
		postRole = tree.Theme
	}
	return tree.NewClause(
		&tree.Articulation{Role: s.preRole, Phrases: first},
		&tree.Articulation{Role: postRole, Phrases: second},
	), nil
}

func (b *StructureBuilder) constituent(c *tree.Constituent) {
	for _, f := range c.Features {
		b.d.Match(f)
	}
}

func (b *StructureBuilder) nounPhrase(np *tree.Constituent) {
	for _, f := range np.Features {
		b.d.Match(np, f)
	}
	if !b.verbFound {
		b.flags.preVerb = b.flags.preVerb || b.focused
	} else {
		b.flags.postVerb = b.flags.postVerb || b.focused
	}
}

func (b *StructureBuilder) verbPhrase(vp *tree.Constituent) {
	for _, f := range vp.Features {
		b.d.Match(vp, f)
	}
	if !b.verbFound {
		b.log.Debug("verb phrase", zap.Stringer("phrase", vp))
		b.verbFound = true
		b.flags.hasVerb = b.focused
	}
}

// word records the newness of the latest word; the last word scanned in a
// phrase decides the phrase's focus.
func (b *StructureBuilder) word(_ *tree.Constituent, w *tree.Word) {
	b.focused = b.model.IsNew(w)
}
