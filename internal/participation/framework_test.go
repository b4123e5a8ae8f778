// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package participation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func states(f *Framework, names ...string) []State {
	out := make([]State, len(names))
	for i, n := range names {
		out[i], _ = f.State(n)
	}
	return out
}

func TestTurnTaking(t *testing.T) {
	f := New(nil, "NED1", "PETER1", "OLAF1")
	order := []string{"NED1", "OLAF1", "PETER1"}

	assert.Equal(t, []State{Hearer, Hearer, Hearer}, states(f, order...))

	steps := []struct {
		name      string
		apply     func()
		want      []State
		wantSpeak string
		wantAddr  string
	}{
		{"ned addresses peter", func() { f.SetSpeakerAddressing("NED1", "PETER1") },
			[]State{Speaker, Hearer, Addressee}, "NED1", "PETER1"},
		{"peter replies", func() { f.SetSpeaker("PETER1") },
			[]State{Addressee, Hearer, Speaker}, "PETER1", "NED1"},
		{"ned replies", func() { f.SetSpeaker("NED1") },
			[]State{Speaker, Hearer, Addressee}, "NED1", "PETER1"},
		{"peter again", func() { f.SetSpeaker("PETER1") },
			[]State{Addressee, Hearer, Speaker}, "PETER1", "NED1"},
		{"olaf joins", func() { f.SetSpeaker("OLAF1") },
			[]State{Hearer, Speaker, Addressee}, "OLAF1", "PETER1"},
		{"ned answers olaf", func() { f.SetSpeaker("NED1") },
			[]State{Speaker, Addressee, Hearer}, "NED1", "OLAF1"},
		{"peter addresses olaf", func() { f.SetSpeakerAddressing("PETER1", "OLAF1") },
			[]State{Hearer, Addressee, Speaker}, "PETER1", "OLAF1"},
	}
	for _, s := range steps {
		s.apply()
		assert.Equal(t, s.want, states(f, order...), s.name)
		assert.Equal(t, s.wantSpeak, f.Speaker(), s.name)
		assert.Equal(t, s.wantAddr, f.Addressee(), s.name)
	}

	assert.Equal(t, []string{"NED1", "OLAF1"}, f.Hearers())
}

func TestSetSpeakerUnknownAndEmpty(t *testing.T) {
	f := New(nil, "A", "B")
	f.SetSpeaker("A")
	f.SetSpeaker("nobody")
	assert.Equal(t, "A", f.Speaker(), "unknown name changes nothing")
	assert.Equal(t, "", f.Addressee())

	f.SetSpeaker("")
	assert.Equal(t, "", f.Speaker())
	assert.Equal(t, "A", f.Addressee())
	assert.Equal(t, []string{"A", "B"}, f.Hearers())
}

func TestRemove(t *testing.T) {
	f := New(nil, "A", "B")
	f.SetSpeakerAddressing("A", "B")
	f.Remove("A")
	f.Remove("B")
	assert.Empty(t, f.Speaker())
	assert.Empty(t, f.Addressee())
	assert.Empty(t, f.Hearers())

	f.Add("C")
	assert.Equal(t, []string{"C"}, f.Hearers())
	assert.Contains(t, f.String(), "C=hearer")
}
