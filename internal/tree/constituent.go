// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"
	"strings"
)

// Node is a feature structure: a Word or a Constituent.
type Node interface {
	Container
	node()
}

// Kind is the phrase type of a Constituent.
type Kind string

const (
	KindNounPhrase                    Kind = "NP"
	KindVerbPhrase                    Kind = "VP"
	KindAdjectivePhrase               Kind = "AP"
	KindAdverbPhrase                  Kind = "AdvP"
	KindPrepositionalPhrase           Kind = "PP"
	KindCoordinatingConjunctionPhrase Kind = "CP"
	KindPhrase                        Kind = "XP"
)

var kindAliases = map[string]Kind{
	"np": KindNounPhrase, "noun-phrase": KindNounPhrase,
	"vp": KindVerbPhrase, "verb-phrase": KindVerbPhrase,
	"ap": KindAdjectivePhrase, "adjp": KindAdjectivePhrase, "adjective-phrase": KindAdjectivePhrase,
	"advp": KindAdverbPhrase, "adverb-phrase": KindAdverbPhrase,
	"pp": KindPrepositionalPhrase, "prepositional-phrase": KindPrepositionalPhrase,
	"cp": KindCoordinatingConjunctionPhrase, "ccp": KindCoordinatingConjunctionPhrase,
	"coordinating-conjunction-phrase": KindCoordinatingConjunctionPhrase,
	"xp": KindPhrase, "phrase": KindPhrase,
}

// ParseKind converts a phrase label such as "NP" or "verb-phrase" into a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")]
	if !ok {
		return "", fmt.Errorf("unknown phrase type %q", s)
	}
	return k, nil
}

// Constituent is a phrase node holding an ordered list of features.
type Constituent struct {
	behaviors

	Kind     Kind
	Features []Node

	// ID is the knowledge base identifier assigned to noun and verb phrases.
	ID string
}

// NewConstituent returns a constituent of kind k.
func NewConstituent(k Kind, features ...Node) *Constituent {
	return &Constituent{Kind: k, Features: features}
}

// NewNounPhrase returns a noun phrase.
func NewNounPhrase(features ...Node) *Constituent {
	return NewConstituent(KindNounPhrase, features...)
}

// NewVerbPhrase returns a verb phrase.
func NewVerbPhrase(features ...Node) *Constituent {
	return NewConstituent(KindVerbPhrase, features...)
}

func (*Constituent) node() {}

// Add appends features.
func (c *Constituent) Add(features ...Node) {
	c.Features = append(c.Features, features...)
}

// IsNounPhrase reports whether c is a noun phrase.
func (c *Constituent) IsNounPhrase() bool { return c.Kind == KindNounPhrase }

// IsVerbPhrase reports whether c is a verb phrase.
func (c *Constituent) IsVerbPhrase() bool { return c.Kind == KindVerbPhrase }

// Words returns the descendant words in order.
func (c *Constituent) Words() []*Word {
	return Words(c.Features...)
}

func (c *Constituent) String() string {
	parts := make([]string, len(c.Features))
	for i, f := range c.Features {
		parts[i] = fmt.Sprint(f)
	}
	if c.ID != "" {
		return fmt.Sprintf("%s#%s(%s)", c.Kind, c.ID, strings.Join(parts, " "))
	}
	return fmt.Sprintf("%s(%s)", c.Kind, strings.Join(parts, " "))
}

// Words flattens nodes into their words in order.
func Words(nodes ...Node) []*Word {
	var out []*Word
	for _, n := range nodes {
		switch v := n.(type) {
		case *Word:
			out = append(out, v)
		case *Constituent:
			out = append(out, Words(v.Features...)...)
		}
	}
	return out
}
