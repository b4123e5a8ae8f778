// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/beat-engine/internal/timecode"
)

// Word is a token leaf of the tree.
type Word struct {
	behaviors

	Token string
	Lemma string

	// Begin and End are filled in by a timing source.
	Begin timecode.Time
	End   timecode.Time

	attrs     map[Attribute]struct{}
	contrasts []*Word
}

// NewWord returns a word with the given attributes.
func NewWord(token string, attrs ...Attribute) *Word {
	w := &Word{Token: token}
	for _, a := range attrs {
		w.AddAttribute(a)
	}
	return w
}

func (*Word) node() {}

// AddAttribute sets a. An attribute of the same category is replaced.
func (w *Word) AddAttribute(a Attribute) {
	if w.attrs == nil {
		w.attrs = make(map[Attribute]struct{})
	}
	if cat := a.Category(); cat != "" {
		for existing := range w.attrs {
			if existing.Category() == cat {
				delete(w.attrs, existing)
			}
		}
	}
	w.attrs[a] = struct{}{}
}

// Is reports whether the word carries a.
func (w *Word) Is(a Attribute) bool {
	_, ok := w.attrs[a]
	return ok
}

// Find returns the word's attribute in category c.
func (w *Word) Find(c Category) (Attribute, bool) {
	for a := range w.attrs {
		if a.Category() == c {
			return a, true
		}
	}
	return "", false
}

// Attributes returns the attributes sorted by name.
func (w *Word) Attributes() []Attribute {
	out := make([]Attribute, 0, len(w.attrs))
	for a := range w.attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Key is the lemma, or the token when no lemma is known.
func (w *Word) Key() string {
	if w.Lemma != "" {
		return w.Lemma
	}
	return w.Token
}

// Equal reports whether both words have the same token, lemma and
// attributes. Timing, behaviors and contrasts are ignored.
func (w *Word) Equal(o *Word) bool {
	if w == o {
		return true
	}
	if w == nil || o == nil {
		return false
	}
	if w.Token != o.Token || w.Lemma != o.Lemma || len(w.attrs) != len(o.attrs) {
		return false
	}
	for a := range w.attrs {
		if !o.Is(a) {
			return false
		}
	}
	return true
}

// Matches reports whether o could refer to the same entity as w: the
// lemma-or-token is the same, or w has a gender and a number and o agrees
// with both.
func (w *Word) Matches(o *Word) bool {
	if w == nil || o == nil {
		return false
	}
	if w.Key() == o.Key() {
		return true
	}
	g, okG := w.Find(CategoryGender)
	n, okN := w.Find(CategoryNumber)
	if !okG || !okN {
		return false
	}
	return o.Is(g) && o.Is(n)
}

// AddContrast records that w is contrasted with c. Adding the same word twice
// has no effect.
func (w *Word) AddContrast(c *Word) {
	if slices.Contains(w.contrasts, c) {
		return
	}
	w.contrasts = append(w.contrasts, c)
}

// Contrasts returns the words w is contrasted with.
func (w *Word) Contrasts() []*Word { return w.contrasts }

func (w *Word) String() string {
	attrs := make([]string, 0, len(w.attrs))
	for _, a := range w.Attributes() {
		attrs = append(attrs, string(a))
	}
	return fmt.Sprintf("%s[%s]", w.Token, strings.Join(attrs, ","))
}
