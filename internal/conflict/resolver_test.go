// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/tree"
)

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	reg, err := behavior.NewRegistry(behavior.DefaultConflicts)
	require.NoError(t, err)
	return New(reg, nil)
}

func gesture(priority int) *behavior.Gesture {
	g := behavior.NewGesture(behavior.GestureBeat, "offer", behavior.HandRight)
	g.SetPriority(priority)
	return g
}

func gaze(priority int) *behavior.Gaze {
	g := behavior.NewGaze(behavior.AwayFromHearer, "")
	g.SetPriority(priority)
	return g
}

func TestHigherPriorityWinsAcrossLevels(t *testing.T) {
	r := defaultResolver(t)

	word := tree.NewWord("car", tree.Noun)
	np := tree.NewNounPhrase(word)
	rheme := tree.NewRheme(np)
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(), rheme))

	high := gesture(10)
	low := gesture(3)
	rheme.AddBehavior(low)
	word.AddBehavior(high)

	assert.Equal(t, 1, r.Resolve(u))
	assert.Empty(t, rheme.Behaviors())
	assert.Equal(t, []behavior.Behavior{high}, word.Behaviors())
}

func TestEqualPriorityKeepsOuter(t *testing.T) {
	r := defaultResolver(t)

	word := tree.NewWord("car", tree.Noun)
	theme := tree.NewTheme(tree.NewNounPhrase(word))
	u := tree.NewUtterance(tree.NewClause(theme, tree.NewRheme()))

	outer, inner := gesture(0), gesture(0)
	theme.AddBehavior(outer)
	word.AddBehavior(inner)

	assert.Equal(t, 1, r.Resolve(u))
	assert.Equal(t, []behavior.Behavior{outer}, theme.Behaviors())
	assert.Empty(t, word.Behaviors())
}

func TestSameContainerKeepsFirstOnTie(t *testing.T) {
	r := defaultResolver(t)

	word := tree.NewWord("red", tree.Adjective)
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(), tree.NewRheme(word)))

	first, second, third := gesture(1), gesture(1), gesture(5)
	word.AddBehavior(first)
	word.AddBehavior(second)
	word.AddBehavior(third)

	assert.Equal(t, 2, r.Resolve(u))
	assert.Equal(t, []behavior.Behavior{third}, word.Behaviors())
}

func TestSiblingsAreNotCompared(t *testing.T) {
	r := defaultResolver(t)

	a := tree.NewWord("a", tree.Determiner)
	car := tree.NewWord("car", tree.Noun)
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(a), tree.NewRheme(car)))

	ga, gc := gesture(1), gesture(2)
	a.AddBehavior(ga)
	car.AddBehavior(gc)

	assert.Equal(t, 0, r.Resolve(u))
	assert.Len(t, a.Behaviors(), 1)
	assert.Len(t, car.Behaviors(), 1)
}

func TestUnrelatedKindsSurvive(t *testing.T) {
	r := defaultResolver(t)

	word := tree.NewWord("car", tree.Noun)
	rheme := tree.NewRheme(tree.NewNounPhrase(word))
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(), rheme))

	rheme.AddBehavior(gaze(5))
	word.AddBehavior(gesture(10))
	word.AddBehavior(behavior.NewHeadNod())

	assert.Equal(t, 0, r.Resolve(u))
	assert.Len(t, rheme.Behaviors(), 1)
	assert.Len(t, word.Behaviors(), 2)
}

func TestClauseBehaviorsTakePart(t *testing.T) {
	r := defaultResolver(t)

	word := tree.NewWord("saw", tree.Verb)
	clause := tree.NewClause(tree.NewTheme(tree.NewVerbPhrase(word)), tree.NewRheme())
	u := tree.NewUtterance(clause)

	clauseGaze, wordGaze := gaze(1), gaze(5)
	clause.AddBehavior(clauseGaze)
	word.AddBehavior(wordGaze)

	assert.Equal(t, 1, r.Resolve(u))
	assert.Empty(t, clause.Behaviors())
	assert.Equal(t, []behavior.Behavior{wordGaze}, word.Behaviors())
}

func TestDeclaredConflictBetweenKinds(t *testing.T) {
	reg, err := behavior.NewRegistry(map[behavior.Kind][]behavior.Kind{
		behavior.KindHeadNod: {behavior.KindGesture},
	})
	require.NoError(t, err)
	r := New(reg, nil)

	word := tree.NewWord("car", tree.Noun)
	rheme := tree.NewRheme(word)
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(), rheme))

	a := gesture(10)
	b := behavior.NewHeadNod()
	b.SetPriority(3)
	rheme.AddBehavior(b)
	word.AddBehavior(a)

	assert.Equal(t, 1, r.Resolve(u))
	assert.Empty(t, rheme.Behaviors())
	assert.Equal(t, []behavior.Behavior{a}, word.Behaviors())
}

func TestResolveLeavesNoConflicts(t *testing.T) {
	r := defaultResolver(t)

	w1 := tree.NewWord("I", tree.PersonalPronoun)
	w2 := tree.NewWord("saw", tree.Verb)
	np := tree.NewNounPhrase(w1)
	vp := tree.NewVerbPhrase(w2)
	theme := tree.NewTheme(np, vp)
	clause := tree.NewClause(theme, tree.NewRheme())
	u := tree.NewUtterance(clause)

	containers := []tree.Container{clause, theme, np, vp, w1, w2}
	for i, c := range containers {
		c.AddBehavior(gesture(i % 3))
		c.AddBehavior(gaze((i + 1) % 2))
	}
	r.Resolve(u)

	// Every root-to-leaf path holds at most one gesture and one gaze.
	for _, leafPath := range [][]tree.Container{{clause, theme, np, w1}, {clause, theme, vp, w2}} {
		counts := map[behavior.Kind]int{}
		for _, c := range leafPath {
			for _, b := range c.Behaviors() {
				counts[b.Kind()]++
			}
		}
		assert.LessOrEqual(t, counts[behavior.KindGesture], 1)
		assert.LessOrEqual(t, counts[behavior.KindGaze], 1)
	}
}
