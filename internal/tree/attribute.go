// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"
	"strings"
)

// Category groups attributes so that a word carries at most one value from
// each category.
type Category string

const (
	CategoryWordClass Category = "class"
	CategoryGender    Category = "gender"
	CategoryNumber    Category = "number"
	CategoryPerson    Category = "person"
)

// Attribute is a grammatical feature of a word.
type Attribute string

// Word classes.
const (
	Noun            Attribute = "noun"
	Verb            Attribute = "verb"
	Adjective       Attribute = "adjective"
	Adverb          Attribute = "adverb"
	Determiner      Attribute = "determiner"
	Numeral         Attribute = "numeral"
	Preposition     Attribute = "preposition"
	Conjunction     Attribute = "conjunction"
	Pronoun         Attribute = "pronoun"
	PersonalPronoun Attribute = "personal-pronoun"
	Punctuation     Attribute = "punctuation"
)

// Genders.
const (
	Masculine Attribute = "masculine"
	Feminine  Attribute = "feminine"
	Neuter    Attribute = "neuter"
)

// Numbers.
const (
	Singular Attribute = "singular"
	Plural   Attribute = "plural"
)

// Persons.
const (
	First  Attribute = "first"
	Second Attribute = "second"
	Third  Attribute = "third"
)

var categories = map[Attribute]Category{
	Noun:            CategoryWordClass,
	Verb:            CategoryWordClass,
	Adjective:       CategoryWordClass,
	Adverb:          CategoryWordClass,
	Determiner:      CategoryWordClass,
	Numeral:         CategoryWordClass,
	Preposition:     CategoryWordClass,
	Conjunction:     CategoryWordClass,
	Pronoun:         CategoryWordClass,
	PersonalPronoun: CategoryWordClass,
	Punctuation:     CategoryWordClass,
	Masculine:       CategoryGender,
	Feminine:        CategoryGender,
	Neuter:          CategoryGender,
	Singular:        CategoryNumber,
	Plural:          CategoryNumber,
	First:           CategoryPerson,
	Second:          CategoryPerson,
	Third:           CategoryPerson,
}

// Category returns the category the attribute belongs to.
func (a Attribute) Category() Category { return categories[a] }

// ParseAttribute converts a name such as "noun" or "PERSONAL_PRONOUN" into an
// Attribute.
func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if _, ok := categories[a]; !ok {
		return "", fmt.Errorf("unknown word attribute %q", s)
	}
	return a, nil
}
