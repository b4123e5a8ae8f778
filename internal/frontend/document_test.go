// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beat-engine/internal/tree"
)

const littleCar = `
id: demo
speaker: Tim
participants: [Rob]
sentences:
  - text: I saw a little car.
    features:
      - type: NP
        features: ["I personal-pronoun first"]
      - type: VP
        features:
          - {token: saw, lemma: see, attrs: [verb], begin: 0.3, end: 0.6}
      - type: NP
        id: car1
        features:
          - a determiner
          - little adjective
          - car noun singular
      - . punctuation
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(littleCar))
	require.NoError(t, err)
	assert.Equal(t, "demo", d.ID)
	assert.Equal(t, "Tim", d.Speaker)
	assert.Equal(t, []string{"Rob"}, d.Participants)
	require.Len(t, d.Sentences, 1)

	nodes, err := d.Sentences[0].Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	subject := nodes[0].(*tree.Constituent)
	assert.True(t, subject.IsNounPhrase())
	i := subject.Features[0].(*tree.Word)
	assert.Equal(t, "I", i.Token)
	assert.True(t, i.Is(tree.PersonalPronoun))
	assert.True(t, i.Is(tree.First))

	saw := nodes[1].(*tree.Constituent).Features[0].(*tree.Word)
	assert.Equal(t, "see", saw.Lemma)
	begin, ok := saw.Begin.Seconds()
	require.True(t, ok)
	assert.InDelta(t, 0.3, begin, 1e-9)
	assert.True(t, saw.End.Valid())

	object := nodes[2].(*tree.Constituent)
	assert.Equal(t, "car1", object.ID)
	assert.Len(t, object.Words(), 3)
	assert.False(t, object.Words()[0].Begin.Valid(), "untimed words have no begin")

	assert.True(t, nodes[3].(*tree.Word).Is(tree.Punctuation))
}

func TestNodesAreFresh(t *testing.T) {
	d, err := Parse([]byte(littleCar))
	require.NoError(t, err)
	a, err := d.Sentences[0].Nodes()
	require.NoError(t, err)
	b, err := d.Sentences[0].Nodes()
	require.NoError(t, err)
	assert.NotSame(t, a[3], b[3])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no sentences", "id: x\n"},
		{"no features", "sentences: [{text: hi}]\n"},
		{"unknown attribute", "sentences: [{features: [\"car gizmo\"]}]\n"},
		{"unknown phrase", "sentences: [{features: [{type: QP, features: [car]}]}]\n"},
		{"empty phrase", "sentences: [{features: [{type: NP}]}]\n"},
		{"token and type", "sentences: [{features: [{token: car, type: NP}]}]\n"},
		{"empty node", "sentences: [{features: [{lemma: car}]}]\n"},
		{"not yaml", "sentences: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("id: x\n"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	sentence := "sentences: [{features: [\"hello noun\"]}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(sentence), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(sentence), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	extra := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("id: named\n"+sentence), 0o644))

	docs, err := LoadAll([]string{dir, extra})
	require.NoError(t, err)
	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "named"}, ids)

	_, err = LoadAll([]string{dir, filepath.Join(dir, "a.yml")})
	assert.ErrorContains(t, err, `document id "a"`)

	_, err = LoadAll([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}
