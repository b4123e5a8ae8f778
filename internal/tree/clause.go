// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree is the constituent tree every stage reads and annotates:
// utterances of clauses, each split into a theme and a rheme articulation
// whose phrases are constituents and words. Every level can carry
// behaviors.
package tree

import (
	"fmt"
	"strings"
)

// Role is the information-structure role of an articulation.
type Role int

const (
	Theme Role = iota
	Rheme
)

func (r Role) String() string {
	if r == Rheme {
		return "Rheme"
	}
	return "Theme"
}

// Articulation is the theme or rheme half of a clause.
type Articulation struct {
	behaviors

	Role    Role
	Phrases []Node
}

// NewTheme returns a theme articulation.
func NewTheme(phrases ...Node) *Articulation {
	return &Articulation{Role: Theme, Phrases: phrases}
}

// NewRheme returns a rheme articulation.
func NewRheme(phrases ...Node) *Articulation {
	return &Articulation{Role: Rheme, Phrases: phrases}
}

// Words returns the descendant words in order.
func (a *Articulation) Words() []*Word {
	return Words(a.Phrases...)
}

func (a *Articulation) String() string {
	parts := make([]string, len(a.Phrases))
	for i, p := range a.Phrases {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s[%s]", a.Role, strings.Join(parts, " "))
}

// Clause is an ordered pair of articulations, normally theme then rheme.
type Clause struct {
	behaviors

	First  *Articulation
	Second *Articulation
}

// NewClause returns a clause with the articulations in spoken order.
func NewClause(first, second *Articulation) *Clause {
	return &Clause{First: first, Second: second}
}

// Articulations returns both articulations in spoken order.
func (c *Clause) Articulations() []*Articulation {
	return []*Articulation{c.First, c.Second}
}

// Theme returns the articulation with the Theme role.
func (c *Clause) Theme() *Articulation { return c.byRole(Theme) }

// Rheme returns the articulation with the Rheme role.
func (c *Clause) Rheme() *Articulation { return c.byRole(Rheme) }

func (c *Clause) byRole(r Role) *Articulation {
	for _, a := range c.Articulations() {
		if a != nil && a.Role == r {
			return a
		}
	}
	return nil
}

// Words returns the descendant words in order.
func (c *Clause) Words() []*Word {
	var out []*Word
	for _, a := range c.Articulations() {
		if a != nil {
			out = append(out, a.Words()...)
		}
	}
	return out
}

func (c *Clause) String() string {
	return fmt.Sprintf("Clause{%v %v}", c.First, c.Second)
}

// Utterance is one speaker turn: an ordered list of clauses.
type Utterance struct {
	Clauses []*Clause
}

// NewUtterance returns an utterance.
func NewUtterance(clauses ...*Clause) *Utterance {
	return &Utterance{Clauses: clauses}
}

// Words returns every word of the utterance in spoken order.
func (u *Utterance) Words() []*Word {
	var out []*Word
	for _, c := range u.Clauses {
		out = append(out, c.Words()...)
	}
	return out
}

// Articulations returns every non-nil articulation in spoken order.
func (u *Utterance) Articulations() []*Articulation {
	var out []*Articulation
	for _, c := range u.Clauses {
		for _, a := range c.Articulations() {
			if a != nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// Text renders the tokens separated by spaces, without a space before
// punctuation.
func (u *Utterance) Text() string {
	var sb strings.Builder
	for i, w := range u.Words() {
		if i > 0 && !w.Is(Punctuation) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Token)
	}
	return sb.String()
}
