// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/dispatch"
)

func TestWordAttributesReplaceWithinCategory(t *testing.T) {
	w := NewWord("car", Noun, Singular)
	w.AddAttribute(Plural)

	assert.True(t, w.Is(Plural))
	assert.False(t, w.Is(Singular))
	assert.Equal(t, []Attribute{Noun, Plural}, w.Attributes())
}

func TestWordEqual(t *testing.T) {
	a := NewWord("car", Noun, Neuter)
	b := NewWord("car", Noun, Neuter)
	a.Lemma, b.Lemma = "car", "car"

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	b.Lemma = "cars"
	assert.False(t, a.Equal(b))

	c := NewWord("car", Noun)
	c.Lemma = "car"
	assert.False(t, a.Equal(c), "attribute sets differ")
}

func TestWordMatches(t *testing.T) {
	car := NewWord("car", Noun, Masculine, Singular)
	he := NewWord("he", PersonalPronoun, Masculine, Singular, Third)
	she := NewWord("she", PersonalPronoun, Feminine, Singular, Third)
	cars := NewWord("cars", Noun, Plural)
	cars.Lemma = "car"
	bare := NewWord("thing", Noun)

	assert.True(t, car.Matches(he), "gender and number agree")
	assert.False(t, car.Matches(she))
	assert.True(t, car.Matches(cars), "lemma equals token")
	assert.False(t, bare.Matches(he), "no gender and number on the receiver")
}

func TestContrastsAreSet(t *testing.T) {
	big, small := NewWord("big"), NewWord("small")
	big.AddContrast(small)
	big.AddContrast(small)
	assert.Len(t, big.Contrasts(), 1)
}

func TestRemoveBehaviorByIdentity(t *testing.T) {
	w := NewWord("car")
	a, b := behavior.NewHeadNod(), behavior.NewHeadNod()
	w.AddBehavior(a)
	w.AddBehavior(b)

	assert.True(t, w.RemoveBehavior(b))
	require.Len(t, w.Behaviors(), 1)
	assert.Same(t, a, w.Behaviors()[0])
	assert.False(t, w.RemoveBehavior(b))
}

func TestClauseRoles(t *testing.T) {
	theme := NewTheme(NewWord("I"))
	rheme := NewRheme(NewWord("saw"))

	c := NewClause(rheme, theme)
	assert.Same(t, theme, c.Theme())
	assert.Same(t, rheme, c.Rheme())
	assert.Same(t, rheme, c.Articulations()[0], "spoken order is preserved")
}

func TestUtteranceText(t *testing.T) {
	u := NewUtterance(NewClause(
		NewTheme(NewNounPhrase(NewWord("I", PersonalPronoun))),
		NewRheme(NewVerbPhrase(NewWord("saw", Verb)), NewNounPhrase(NewWord("it")), NewWord(",", Punctuation)),
	))
	assert.Equal(t, "I saw it,", u.Text())
	assert.Len(t, u.Words(), 4)
	assert.Len(t, u.Articulations(), 2)
}

func TestParse(t *testing.T) {
	a, err := ParseAttribute("PERSONAL_PRONOUN")
	require.NoError(t, err)
	assert.Equal(t, PersonalPronoun, a)

	_, err = ParseAttribute("gerund")
	assert.Error(t, err)

	k, err := ParseKind("np")
	require.NoError(t, err)
	assert.Equal(t, KindNounPhrase, k)

	_, err = ParseKind("zz")
	assert.Error(t, err)
}

func TestDispatchTypes(t *testing.T) {
	np := NewNounPhrase()
	vp := NewVerbPhrase()
	ap := NewConstituent(KindAdjectivePhrase)
	w := NewWord("x")
	theme := NewTheme()

	tests := []struct {
		typ  *dispatch.Type
		v    any
		want bool
	}{
		{NounPhraseType, np, true},
		{NounPhraseType, vp, false},
		{ConstituentType, ap, true},
		{NodeType, w, true},
		{WordType, np, false},
		{ThemeType, theme, true},
		{RhemeType, theme, false},
		{ArticulationType, w, false},
		{ClauseType, NewClause(theme, NewRheme()), true},
		{ContainerType, theme, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Accepts(tt.v), "%s accepts %T", tt.typ, tt.v)
	}

	d := dispatch.New("tree", nil)
	d.Register(func(args ...any) any { return "constituent" }, ConstituentType)
	d.Register(func(args ...any) any { return "np" }, NounPhraseType)
	got, err := d.Invoke(np)
	require.NoError(t, err)
	assert.Equal(t, "np", got)
	got, err = d.Invoke(vp)
	require.NoError(t, err)
	assert.Equal(t, "constituent", got)
}
