// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package timing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/beat-engine/internal/timecode"
	"github.com/pdiddy/beat-engine/internal/tree"
	"github.com/pdiddy/beat-engine/pkg/types"
)

func sentence(tokens ...string) (*tree.Utterance, []*tree.Word) {
	var words []*tree.Word
	var nodes []tree.Node
	for _, tok := range tokens {
		var w *tree.Word
		if tok == "," || tok == "." {
			w = tree.NewWord(tok, tree.Punctuation)
		} else {
			w = tree.NewWord(tok)
		}
		words = append(words, w)
		nodes = append(nodes, w)
	}
	half := len(nodes) / 2
	u := tree.NewUtterance(tree.NewClause(tree.NewTheme(nodes[:half]...), tree.NewRheme(nodes[half:]...)))
	return u, words
}

func writeSound(t *testing.T, dir, name string, begin, end string) {
	t.Helper()
	content := "File type = \"ooTextFile\"\nObject class = \"Sound 2\"\n\n" + begin + "\n" + end + "\n1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	src, err := New(types.TimingConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTimingInterval, src.(*Fixed).Interval)

	src, err = New(types.TimingConfig{Source: types.TimingNone}, nil)
	require.NoError(t, err)
	assert.Equal(t, "none", src.Name())

	_, err = New(types.TimingConfig{Source: types.TimingPraat}, nil)
	assert.Error(t, err, "praat without a directory")

	_, err = New(types.TimingConfig{Source: "wav"}, nil)
	assert.Error(t, err)
}

func TestFixedSkipsPunctuation(t *testing.T) {
	u, w := sentence("I", "saw", "a", "car", ",")
	require.NoError(t, (&Fixed{Interval: 0.5}).Apply(u, ""))

	assert.True(t, w[0].Begin.Equal(timecode.At(0)))
	assert.True(t, w[1].Begin.Equal(timecode.At(0.5)))
	assert.True(t, w[3].Begin.Equal(timecode.At(1.5)))
	assert.True(t, w[3].End.Equal(timecode.At(2.0)))
	assert.False(t, w[4].Begin.Valid(), "punctuation stays untimed")
}

func TestNoneLeavesWordsUntimed(t *testing.T) {
	u, w := sentence("hello", "there")
	require.NoError(t, None{}.Apply(u, "Rob"))
	assert.False(t, w[0].Begin.Valid())
}

func TestPraat(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "Rob")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeSound(t, dir, "the.Sound", "0.1", "0.2")
	writeSound(t, dir, "Car.Sound", "0.2", "0.6")
	writeSound(t, dir, "the2.Sound", "0.7", "0.8")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.Sound"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPraat(base, zap.New(core))

	u, w := sentence("The", "car", "and", "the", "house", ".")
	require.NoError(t, p.Apply(u, "Rob"))

	assert.True(t, w[0].Begin.Equal(timecode.At(0.1)))
	assert.True(t, w[1].Begin.Equal(timecode.At(0.2)))
	assert.True(t, w[1].End.Equal(timecode.At(0.6)))
	assert.False(t, w[2].Begin.Valid())
	assert.True(t, w[3].Begin.Equal(timecode.At(0.7)), "second occurrence reads the2.Sound")
	assert.False(t, w[5].Begin.Valid())

	assert.Equal(t, 1, logs.FilterMessage("cannot read timing").Len())
	// "and" and "house" have no file.
	assert.Equal(t, 2, logs.FilterMessage("no timing for word").Len())
}

func TestPraatMissingSpeakerDirectory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewPraat(t.TempDir(), zap.New(core))

	u, w := sentence("hello")
	require.NoError(t, p.Apply(u, "Nobody"))
	assert.False(t, w[0].Begin.Valid())
	assert.Equal(t, 1, logs.FilterMessage("praat directory does not exist").Len())
}
