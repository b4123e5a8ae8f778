// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package behavior defines the nonverbal behaviors attached to tree
// containers and renders them as timed BML tags.
package behavior

import (
	"fmt"
	"strings"

	"github.com/pdiddy/beat-engine/internal/timecode"
)

// Kind identifies a behavior family. Conflicts are declared between kinds.
type Kind string

// Behavior kinds.
const (
	KindGaze     Kind = "gaze"
	KindGesture  Kind = "gesture"
	KindHeadNod  Kind = "headnod"
	KindEyebrows Kind = "eyebrows"
)

// Kinds lists every known behavior kind.
var Kinds = []Kind{KindGaze, KindGesture, KindHeadNod, KindEyebrows}

// Behavior is a nonverbal action attached to a container in the tree.
// Behaviors are compared by identity: two separately constructed behaviors
// with the same fields are distinct.
type Behavior interface {
	Kind() Kind

	// Priority returns the conflict priority, zero when never set.
	Priority() int
	SetPriority(p int)

	// Markup renders a self-closing BML tag starting at begin. An unset end
	// means a point behavior. It returns "" when the behavior has no BML form.
	Markup(begin float64, end timecode.Time) string

	String() string
}

// Bracketer is implemented by behaviors that have a McNeill-notation form.
type Bracketer interface {
	Prefix() string
	Suffix() string
}

// priority is embedded by every behavior.
type priority struct {
	value int
	set   bool
}

func (p *priority) Priority() int { return p.value }

func (p *priority) SetPriority(v int) {
	p.value = v
	p.set = true
}

// HasPriority reports whether a priority was assigned.
func (p *priority) HasPriority() bool { return p.set }

// timing renders the start and optional end attributes.
func timing(begin float64, end timecode.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ` start="%s"`, timecode.At(begin).Format())
	if end.Valid() {
		fmt.Fprintf(&sb, ` end="%s"`, end.Format())
	}
	return sb.String()
}
