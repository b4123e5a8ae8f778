// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package participation tracks who is speaking, who is addressed, and who is
// only listening in a conversation.
package participation

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// State is a participant's current role.
type State int

const (
	Hearer State = iota
	Addressee
	Speaker
)

func (s State) String() string {
	switch s {
	case Addressee:
		return "addressee"
	case Speaker:
		return "speaker"
	}
	return "hearer"
}

// Framework holds the participants of one conversation. At most one
// participant speaks and at most one is addressed at a time.
type Framework struct {
	mu        sync.RWMutex
	states    map[string]State
	speaker   string
	addressee string
	log       *zap.Logger
}

// New returns a framework with the given participants, all hearers.
func New(log *zap.Logger, names ...string) *Framework {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Framework{states: make(map[string]State), log: log}
	for _, n := range names {
		f.states[n] = Hearer
	}
	return f
}

// Add registers a participant as a hearer.
func (f *Framework) Add(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[name] = Hearer
}

// Remove drops a participant, clearing the speaker or addressee slot it held.
func (f *Framework) Remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.speaker == name {
		f.speaker = ""
	}
	if f.addressee == name {
		f.addressee = ""
	}
	delete(f.states, name)
}

// SetSpeakerAddressing makes speaker talk to addressee. The previous speaker
// and addressee become hearers. Unknown names leave the slot unchanged.
func (f *Framework) SetSpeakerAddressing(speaker, addressee string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.demote(f.speaker)
	f.demote(f.addressee)

	if _, ok := f.states[speaker]; ok {
		f.speaker = speaker
		f.states[speaker] = Speaker
	}
	if _, ok := f.states[addressee]; ok {
		f.addressee = addressee
		f.states[addressee] = Addressee
	}
}

// SetSpeaker hands the turn to name. The previous speaker becomes the
// addressee and the previous addressee a hearer. An empty name clears the
// speaker. An unknown name changes nothing.
func (f *Framework) SetSpeaker(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.states[name]; name != "" && !ok {
		f.log.Warn("unknown speaker", zap.String("participant", name))
		return
	}
	f.demote(f.addressee)
	if f.speaker != "" {
		f.states[f.speaker] = Addressee
		f.addressee = f.speaker
	} else {
		f.addressee = ""
	}

	if name == "" {
		f.speaker = ""
		return
	}
	f.log.Debug("setting speaker", zap.String("participant", name))
	f.speaker = name
	f.states[name] = Speaker
}

func (f *Framework) demote(name string) {
	if _, ok := f.states[name]; ok {
		f.states[name] = Hearer
	}
}

// Speaker returns the current speaker, or "" if nobody speaks.
func (f *Framework) Speaker() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.speaker
}

// Addressee returns the current addressee, or "".
func (f *Framework) Addressee() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.addressee
}

// State returns the state of a participant.
func (f *Framework) State(name string) (State, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.states[name]
	return s, ok
}

// Hearers returns every participant except the speaker, sorted by name.
func (f *Framework) Hearers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []string
	for n := range f.states {
		if n != f.speaker {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

func (f *Framework) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.states))
	for n := range f.states {
		names = append(names, n)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%s", n, f.states[n])
	}
	return fmt.Sprintf("Framework{%s speaker=%q addressee=%q}", strings.Join(parts, " "), f.speaker, f.addressee)
}
