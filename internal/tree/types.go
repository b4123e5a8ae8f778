// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import "github.com/pdiddy/beat-engine/internal/dispatch"

// Dispatch parameter types for every tree variant. The lattice is
//
//	Container
//	├── ClauseType
//	├── ArticulationType
//	│   ├── ThemeType
//	│   └── RhemeType
//	└── NodeType
//	    ├── WordType
//	    └── ConstituentType
//	        ├── NounPhraseType
//	        └── VerbPhraseType
var (
	ContainerType = dispatch.Of[Container]("Container")

	ClauseType = dispatch.NewType("Clause", ContainerType, func(v any) bool {
		_, ok := v.(*Clause)
		return ok
	})

	ArticulationType = dispatch.NewType("Articulation", ContainerType, func(v any) bool {
		_, ok := v.(*Articulation)
		return ok
	})
	ThemeType = dispatch.NewType("Theme", ArticulationType, func(v any) bool {
		return v.(*Articulation).Role == Theme
	})
	RhemeType = dispatch.NewType("Rheme", ArticulationType, func(v any) bool {
		return v.(*Articulation).Role == Rheme
	})

	NodeType = dispatch.NewType("Node", ContainerType, func(v any) bool {
		_, ok := v.(Node)
		return ok
	})
	WordType = dispatch.NewType("Word", NodeType, func(v any) bool {
		_, ok := v.(*Word)
		return ok
	})
	ConstituentType = dispatch.NewType("Constituent", NodeType, func(v any) bool {
		_, ok := v.(*Constituent)
		return ok
	})
	NounPhraseType = dispatch.NewType("NounPhrase", ConstituentType, func(v any) bool {
		return v.(*Constituent).IsNounPhrase()
	})
	VerbPhraseType = dispatch.NewType("VerbPhrase", ConstituentType, func(v any) bool {
		return v.(*Constituent).IsVerbPhrase()
	})
)
