// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/beat-engine/internal/tree"
)

// --- test helpers ---

func ids(m *Model) []string {
	var out []string
	for _, e := range m.Entities() {
		out = append(out, e.ID)
	}
	return out
}

func noun(token string, attrs ...tree.Attribute) *tree.Word {
	return tree.NewWord(token, append([]tree.Attribute{tree.Noun}, attrs...)...)
}

func verb(token string) *tree.Word { return tree.NewWord(token, tree.Verb) }

func punct(token string) *tree.Word { return tree.NewWord(token, tree.Punctuation) }

// --- Model ---

func TestModelRecency(t *testing.T) {
	m := NewModel(nil)
	a := NewEntity("A1", noun("a"))
	b := NewEntity("B1", noun("b"))
	c := NewEntity("C1", noun("c"))
	m.AddEntity(a)
	m.AddEntity(b)
	m.AddEntity(c)
	assert.Equal(t, []string{"C1", "B1", "A1"}, ids(m))

	require.NoError(t, m.Refer(a))
	assert.Equal(t, []string{"A1", "C1", "B1"}, ids(m))

	require.NoError(t, m.Refer(a))
	assert.Equal(t, []string{"A1", "C1", "B1"}, ids(m), "refer is idempotent on the most recent entity")
}

func TestModelReferUnknown(t *testing.T) {
	m := NewModel(nil)
	m.AddEntity(NewEntity("A1", noun("a")))
	err := m.Refer(NewEntity("A1", noun("a")))
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestModelIsNewUsesIdentity(t *testing.T) {
	m := NewModel(nil)
	car := noun("car")
	m.AddEntity(NewEntity("CAR1", car))
	m.AddEntity(NewEntity("DOG1", noun("dog")))

	assert.True(t, m.IsNew(car))
	assert.False(t, m.IsNew(noun("car")), "an equal word is a different instance")
	assert.False(t, m.IsNew(nil))

	m.ClearState()
	assert.False(t, m.IsNew(car))
	assert.Zero(t, m.Len())
}

func TestEntitiesIsACopy(t *testing.T) {
	m := NewModel(nil)
	m.AddEntity(NewEntity("A1", noun("a")))
	got := m.Entities()
	got[0] = nil
	assert.NotNil(t, m.Entities()[0])
}

// --- Tagger ---

func TestTaggerIntroducesAndRefers(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)

	car1 := noun("car", tree.Neuter, tree.Singular)
	np1 := tree.NewNounPhrase(tree.NewWord("a", tree.Determiner), car1)
	require.NoError(t, tagger.Tag([]tree.Node{np1}))
	assert.Equal(t, []string{"CAR1"}, ids(m))
	assert.True(t, m.IsNew(car1))

	car2 := noun("car", tree.Neuter, tree.Singular)
	np2 := tree.NewNounPhrase(tree.NewWord("the", tree.Determiner), car2)
	require.NoError(t, tagger.Tag([]tree.Node{np2}))
	assert.Equal(t, []string{"CAR1"}, ids(m), "a second mention refers back")
	assert.False(t, m.IsNew(car2))

	e := m.Entities()[0]
	if diff := cmp.Diff([]*tree.Constituent{np1, np2}, e.Referrers(), cmp.Comparer(func(a, b *tree.Constituent) bool { return a == b })); diff != "" {
		t.Errorf("referrers mismatch (-want +got):\n%s", diff)
	}
}

func TestTaggerPronouns(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)

	i := tree.NewWord("I", tree.PersonalPronoun, tree.First)
	you := tree.NewWord("you", tree.PersonalPronoun, tree.Second)
	car := noun("car", tree.Neuter, tree.Singular)
	it := tree.NewWord("it", tree.PersonalPronoun, tree.Third, tree.Neuter, tree.Singular)
	she := tree.NewWord("she", tree.PersonalPronoun, tree.Third, tree.Feminine, tree.Singular)

	features := []tree.Node{
		tree.NewNounPhrase(i),
		tree.NewVerbPhrase(verb("saw")),
		tree.NewNounPhrase(car),
		tree.NewNounPhrase(you),
		tree.NewNounPhrase(she),
		tree.NewNounPhrase(it),
	}
	require.NoError(t, tagger.Tag(features))

	// The verb phrase is tagged through the (Constituent, Word) handler.
	assert.Equal(t, []string{"CAR1", "PRODUCER2", "SAW1", "PRODUCER1"}, ids(m))
	assert.Len(t, m.Entities()[0].Referrers(), 2, "it refers to the car")
	assert.False(t, m.IsNew(she))
}

func TestTaggerAdjectivesAndVerbsOutsideNounPhrases(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)

	red1 := tree.NewWord("red", tree.Adjective)
	red2 := tree.NewWord("red", tree.Adjective)
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewConstituent(tree.KindAdjectivePhrase, red1)}))
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewConstituent(tree.KindAdjectivePhrase, red2)}))
	assert.Equal(t, []string{"RED1"}, ids(m))

	// Adjectives inside a noun phrase are left alone.
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(tree.NewWord("blue", tree.Adjective))}))
	assert.Equal(t, []string{"RED1"}, ids(m))
}

func TestTaggerNestedNounPhrase(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)
	outer := tree.NewNounPhrase(tree.NewConstituent(tree.KindAdjectivePhrase, tree.NewWord("big", tree.Adjective)), noun("house"))
	require.NoError(t, tagger.Tag([]tree.Node{outer}))
	assert.Equal(t, []string{"HOUSE1"}, ids(m), "words below a noun phrase are read in its context")
	assert.Same(t, outer, m.Entities()[0].Referrers()[0])
}

func TestTaggerClearStateRestartsNumbering(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(noun("car"))}))
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(noun("bus"))}))
	tagger.ClearState()
	assert.Zero(t, m.Len())

	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(noun("bus"))}))
	assert.Equal(t, []string{"BUS1"}, ids(m))
}

func TestTaggerNumbersRepeatedTokens(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)
	// Keys are case sensitive but identifiers are uppercased.
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(noun("Car"))}))
	require.NoError(t, tagger.Tag([]tree.Node{tree.NewNounPhrase(noun("car"))}))
	assert.Equal(t, []string{"CAR2", "CAR1"}, ids(m))
}

// --- StructureBuilder ---

func TestStructureBuilderTable(t *testing.T) {
	tests := []struct {
		pre, vb, post bool
		wantFirstRole tree.Role
		verbWithPre   bool
	}{
		{false, false, false, tree.Theme, false},
		{true, true, false, tree.Theme, false},
		{true, false, true, tree.Theme, true},
		{false, true, true, tree.Theme, true},
		{true, true, true, tree.Theme, true},
		{true, false, false, tree.Rheme, false},
		{false, true, false, tree.Theme, false},
		{false, false, true, tree.Theme, true},
	}
	for _, tt := range tests {
		name := flagName(tt.pre, tt.vb, tt.post)
		t.Run(name, func(t *testing.T) {
			m := NewModel(nil)
			preWord, verbWord, postWord := noun("man"), verb("saw"), noun("dog")
			for word, isNew := range map[*tree.Word]bool{preWord: tt.pre, verbWord: tt.vb, postWord: tt.post} {
				if isNew {
					m.AddEntity(NewEntity(strings.ToUpper(word.Token), word))
				}
			}
			preNP := tree.NewNounPhrase(preWord)
			vp := tree.NewVerbPhrase(verbWord)
			postNP := tree.NewNounPhrase(postWord)

			clause, err := NewStructureBuilder(m, nil).Build([]tree.Node{preNP, vp, postNP})
			require.NoError(t, err)

			assert.Equal(t, tt.wantFirstRole, clause.First.Role)
			assert.NotEqual(t, clause.First.Role, clause.Second.Role)

			wantFirst := []tree.Node{preNP}
			wantSecond := []tree.Node{vp, postNP}
			if tt.verbWithPre {
				wantFirst = []tree.Node{preNP, vp}
				wantSecond = []tree.Node{postNP}
			}
			assert.Equal(t, wantFirst, clause.First.Phrases)
			assert.Equal(t, wantSecond, clause.Second.Phrases)
		})
	}
}

func flagName(pre, vb, post bool) string {
	b := func(v bool) string {
		if v {
			return "T"
		}
		return "F"
	}
	return b(pre) + b(vb) + b(post)
}

func TestStructureBuilderMissingVerb(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewModel(nil)
	np := tree.NewNounPhrase(noun("dog"))

	clause, err := NewStructureBuilder(m, zap.New(core)).Build([]tree.Node{np})
	require.NoError(t, err)
	assert.Equal(t, []tree.Node{np}, clause.Theme().Phrases)
	assert.Empty(t, clause.Rheme().Phrases)
	assert.Equal(t, 1, logs.FilterMessage("no verb found").Len())
}

func TestStructureBuilderLastWordDecidesFocus(t *testing.T) {
	m := NewModel(nil)
	newWord := noun("dog")
	m.AddEntity(NewEntity("DOG1", newWord))

	// The new word is followed by an old one, so the phrase is not focused.
	np := tree.NewNounPhrase(newWord, noun("house"))
	vp := tree.NewVerbPhrase(verb("barks"))
	clause, err := NewStructureBuilder(m, nil).Build([]tree.Node{np, vp})
	require.NoError(t, err)
	assert.Equal(t, tree.Theme, clause.First.Role)
	assert.Equal(t, []tree.Node{vp}, clause.Second.Phrases)
}

func TestStructureBuilderVerbInsideConstituent(t *testing.T) {
	m := NewModel(nil)
	vp := tree.NewVerbPhrase(verb("ran"))
	wrapper := tree.NewConstituent(tree.KindPhrase, vp, tree.NewWord("away", tree.Adverb))
	np := tree.NewNounPhrase(noun("cat"))

	clause, err := NewStructureBuilder(m, nil).Build([]tree.Node{np, wrapper})
	require.NoError(t, err)
	words := clause.Words()
	assert.Len(t, words, 3, "every word appears exactly once")
	assert.Equal(t, []tree.Node{wrapper}, clause.Rheme().Phrases)
}

// --- Chunker ---

func TestChunker(t *testing.T) {
	i := tree.NewNounPhrase(tree.NewWord("I", tree.PersonalPronoun, tree.First))
	saw := tree.NewVerbPhrase(verb("saw"))
	car := tree.NewNounPhrase(noun("car"))
	comma := punct(",")
	it := tree.NewNounPhrase(tree.NewWord("it", tree.PersonalPronoun, tree.Third))
	was := tree.NewVerbPhrase(verb("was"))
	red := tree.NewConstituent(tree.KindAdjectivePhrase, tree.NewWord("red", tree.Adjective))
	stop := punct(".")

	c := NewChunker(nil)
	got := c.Chunk([]tree.Node{i, saw, car, comma, it, was, red, stop})
	assert.Equal(t, [][]tree.Node{{i, saw, car, comma}, {it, was, red, stop}}, got)

	t.Run("punctuation before any verb does not split", func(t *testing.T) {
		got := c.Chunk([]tree.Node{comma, i, saw, car, stop})
		assert.Equal(t, [][]tree.Node{{comma, i, saw, car, stop}}, got)
	})

	t.Run("trailing features without a verb join the last clause", func(t *testing.T) {
		thanks := tree.NewWord("thanks")
		got := c.Chunk([]tree.Node{i, saw, car, stop, thanks})
		assert.Equal(t, [][]tree.Node{{i, saw, car, stop, thanks}}, got)
	})

	t.Run("trailing clause with a verb stands alone", func(t *testing.T) {
		got := c.Chunk([]tree.Node{i, saw, car, comma, it, was, red})
		assert.Equal(t, [][]tree.Node{{i, saw, car, comma}, {it, was, red}}, got)
	})
}

func TestChunkerWithoutPunctuation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewChunker(zap.New(core))
	features := []tree.Node{tree.NewNounPhrase(noun("dogs")), tree.NewVerbPhrase(verb("bark"))}

	got := c.Chunk(features)
	assert.Equal(t, [][]tree.Node{features}, got)
	assert.Equal(t, 1, logs.Len())
}

// --- ContrastBuilder and Identifier ---

type fakeLexicon map[string][]string

func (f fakeLexicon) Contrasts(w *tree.Word) []string { return f[w.Key()] }

func TestContrastBuilder(t *testing.T) {
	big := tree.NewWord("big", tree.Adjective)
	small := tree.NewWord("small", tree.Adjective)
	house := noun("house")
	u := tree.NewUtterance(tree.NewClause(
		tree.NewTheme(tree.NewNounPhrase(big, house)),
		tree.NewRheme(tree.NewConstituent(tree.KindAdjectivePhrase, small)),
	))

	NewContrastBuilder(fakeLexicon{"big": {"small", "tiny"}}, nil).Build(u)
	assert.Equal(t, []*tree.Word{big}, small.Contrasts())
	assert.Empty(t, big.Contrasts())
	assert.Empty(t, house.Contrasts())
}

type fakeKB struct {
	instances map[string]string
	gestures  map[string]bool
}

func (f fakeKB) MatchInstance(description string) (string, bool) {
	id, ok := f.instances[description]
	return id, ok
}

func (f fakeKB) HasGesture(value string) bool { return f.gestures[value] }

func TestIdentifier(t *testing.T) {
	tank := noun("tanks")
	tank.Lemma = "tank"
	np := tree.NewNounPhrase(tree.NewWord("big", tree.Adjective), tank)
	drive := verb("drove")
	drive.Lemma = "drive"
	vp := tree.NewVerbPhrase(drive)
	other := tree.NewNounPhrase(noun("road"))
	u := tree.NewUtterance(tree.NewClause(
		tree.NewTheme(tree.NewConstituent(tree.KindPrepositionalPhrase, np)),
		tree.NewRheme(vp, other),
	))

	kb := fakeKB{
		instances: map[string]string{"big tank": "TANK1"},
		gestures:  map[string]bool{"DRIVE": true},
	}
	NewIdentifier(kb, kb, nil).Identify(u)

	assert.Equal(t, "TANK1", np.ID)
	assert.Equal(t, "DRIVE", vp.ID)
	assert.Empty(t, other.ID)
}

func TestDescribe(t *testing.T) {
	m := NewModel(nil)
	tagger := NewTagger(m, nil)
	np := tree.NewNounPhrase(tree.NewWord("a", tree.Determiner), noun("car"))
	vp := tree.NewVerbPhrase(verb("stopped"))
	require.NoError(t, tagger.Tag([]tree.Node{np, vp}))

	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(np), tree.NewRheme(vp)))
	got := Describe(u, m)

	want := `Utterance
  + Clause
    + Theme
      + NP
        - a
        - car
    + Rheme
      + VP
        - stopped

Discourse model:
STOPPED1: stopped,
CAR1: a car,
`
	assert.Equal(t, want, got)
}
