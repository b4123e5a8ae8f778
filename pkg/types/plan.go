// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines configuration and the persisted plan records shared
// by the engine's packages and the CLI.
package types

import "time"

// Plan is one compiled utterance as stored in the archive.
type Plan struct {
	// ID is a UUID assigned when the plan is saved.
	ID string `json:"id" yaml:"id"`

	// Document names the input document the sentence came from.
	Document string `json:"document" yaml:"document"`

	// Sentence is the zero-based sentence index within the document.
	Sentence int `json:"sentence" yaml:"sentence"`

	// Text is the utterance's surface text.
	Text string `json:"text" yaml:"text"`

	// BML is the timed behavior markup.
	BML string `json:"bml" yaml:"bml"`

	// McNeill is the bracket-notation transcript, if produced.
	McNeill string `json:"mcneill,omitempty" yaml:"mcneill,omitempty"`

	// Pruned counts behaviors removed by conflict resolution.
	Pruned int `json:"pruned" yaml:"pruned"`

	// Entities is the discourse model after the utterance, most recent first.
	Entities []EntityRecord `json:"entities,omitempty" yaml:"entities,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// EntityRecord is a snapshot of one discourse entity.
type EntityRecord struct {
	// Rank is the recency position, 0 for the most recent.
	Rank int `json:"rank" yaml:"rank"`

	ID   string `json:"id" yaml:"id"`
	Head string `json:"head" yaml:"head"`

	// Referrers holds the text of each referring expression.
	Referrers []string `json:"referrers,omitempty" yaml:"referrers,omitempty"`
}
