// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discourse tracks which entities have been mentioned and uses that
// history to tag referring expressions, split sentences into clauses, and
// divide each clause into theme and rheme.
package discourse

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/tree"
)

// ErrUnknownEntity is returned by Refer for an entity that is not tracked.
var ErrUnknownEntity = errors.New("entity not in discourse model")

// Entity is something the discourse has mentioned, identified by an ID such
// as CAR1, and remembered through the word that introduced it.
type Entity struct {
	ID   string
	Word *tree.Word

	referrers []*tree.Constituent
}

// NewEntity returns an entity introduced by word.
func NewEntity(id string, word *tree.Word) *Entity {
	return &Entity{ID: id, Word: word}
}

// Matches reports whether w could refer to the entity.
func (e *Entity) Matches(w *tree.Word) bool {
	return e.Word.Matches(w)
}

// AddReferrer records a constituent that refers to the entity.
func (e *Entity) AddReferrer(c *tree.Constituent) {
	e.referrers = append(e.referrers, c)
}

// Referrers returns the referring constituents in the order they were seen.
func (e *Entity) Referrers() []*tree.Constituent { return e.referrers }

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.ID, e.Word.Token)
}

// Model is a recency-ordered list of entities, most recent first. A Model
// belongs to one discourse session and is not safe for concurrent use.
type Model struct {
	entities []*Entity
	log      *zap.Logger
}

// NewModel returns an empty model. A nil logger discards output.
func NewModel(log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{log: log}
}

// AddEntity inserts e as the most recent entity.
func (m *Model) AddEntity(e *Entity) {
	m.log.Debug("adding entity", zap.Stringer("entity", e))
	m.entities = slices.Insert(m.entities, 0, e)
}

// Refer moves e to the most recent position. Referring to the most recent
// entity changes nothing.
func (m *Model) Refer(e *Entity) error {
	i := slices.Index(m.entities, e)
	if i < 0 {
		return fmt.Errorf("refer %v: %w", e, ErrUnknownEntity)
	}
	if i == 0 {
		return nil
	}
	m.log.Debug("referring entity", zap.Stringer("entity", e), zap.Int("from", i))
	m.entities = slices.Delete(m.entities, i, i+1)
	m.entities = slices.Insert(m.entities, 0, e)
	return nil
}

// IsNew reports whether w is the very word instance that introduced some
// tracked entity. Lookup is by identity, not by equal tokens, so a later
// mention of the same thing is not new.
func (m *Model) IsNew(w *tree.Word) bool {
	if w == nil {
		return false
	}
	for _, e := range m.entities {
		if e.Word == w {
			return true
		}
	}
	return false
}

// Entities returns the entities most recent first. The result is a copy.
func (m *Model) Entities() []*Entity {
	return slices.Clone(m.entities)
}

// Len returns the number of tracked entities.
func (m *Model) Len() int { return len(m.entities) }

// ClearState forgets every entity.
func (m *Model) ClearState() {
	m.entities = nil
}
