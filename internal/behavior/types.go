// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package behavior

import (
	"fmt"

	"github.com/pdiddy/beat-engine/internal/timecode"
)

// CameraTarget is the gaze and deictic target representing the listener in
// front of the agent.
const CameraTarget = "Camera"

// Direction is where a gaze is pointed relative to the hearer.
type Direction int

const (
	AwayFromHearer Direction = iota
	TowardsHearer
)

func (d Direction) String() string {
	if d == TowardsHearer {
		return "towards-hearer"
	}
	return "away-from-hearer"
}

// Gaze directs the agent's eyes towards or away from a hearer.
type Gaze struct {
	priority
	Direction Direction
	// Focus names the hearer looked at. Only meaningful towards the hearer.
	Focus string
}

// NewGaze returns a gaze in direction dir looking at focus.
func NewGaze(dir Direction, focus string) *Gaze {
	return &Gaze{Direction: dir, Focus: focus}
}

func (g *Gaze) Kind() Kind { return KindGaze }

func (g *Gaze) Markup(begin float64, end timecode.Time) string {
	target := CameraTarget
	if g.Direction == TowardsHearer && g.Focus != "" {
		target = g.Focus
	}
	return fmt.Sprintf(`<gaze target="%s"%s/>`, target, timing(begin, end))
}

func (g *Gaze) Prefix() string {
	if g.Direction == TowardsHearer {
		return "(GT)"
	}
	return "(GA)"
}

func (g *Gaze) Suffix() string { return "" }

func (g *Gaze) String() string {
	return fmt.Sprintf("Gaze{%s focus=%q priority=%d}", g.Direction, g.Focus, g.Priority())
}

// Gesture types produced by the generators and the knowledge base.
const (
	GestureBeat      = "beat"
	GestureIconic    = "iconic"
	GestureDeictic   = "deictic"
	GestureContrast1 = "contrast_1"
	GestureContrast2 = "contrast_2"
)

// Hand selects which hands perform a gesture.
type Hand string

const (
	HandLeft  Hand = "LEFT"
	HandRight Hand = "RIGHT"
	HandBoth  Hand = "BOTH"
)

// Arm describes one arm's part in a gesture.
type Arm struct {
	Handshape  string `yaml:"handshape" json:"handshape"`
	Trajectory string `yaml:"trajectory" json:"trajectory"`
	Side       Hand   `yaml:"type" json:"type"`
}

// Gesture is a hand or arm movement.
type Gesture struct {
	priority
	Type  string
	Value string
	Hand  Hand
	Arms  []Arm
}

// NewGesture returns a gesture of the given type performed with hand.
func NewGesture(typ, value string, hand Hand, arms ...Arm) *Gesture {
	return &Gesture{Type: typ, Value: value, Hand: hand, Arms: arms}
}

func (g *Gesture) Kind() Kind { return KindGesture }

func (g *Gesture) Markup(begin float64, end timecode.Time) string {
	switch g.Type {
	case GestureIconic, GestureContrast1, GestureContrast2:
		if len(g.Arms) == 0 {
			return ""
		}
		return fmt.Sprintf(`<gesture type="%s"%s/>`, g.Arms[0].Handshape, timing(begin, end))
	case GestureBeat:
		return fmt.Sprintf(`<gesture type="%s"%s/>`, g.Value, timing(begin, end))
	case GestureDeictic:
		return fmt.Sprintf(`<gesture type="you" target="%s"%s/>`, CameraTarget, timing(begin, end))
	}
	return ""
}

func (g *Gesture) Prefix() string { return "[" }
func (g *Gesture) Suffix() string { return "]" }

// Clone returns an independent copy without the priority.
func (g *Gesture) Clone() *Gesture {
	c := &Gesture{Type: g.Type, Value: g.Value, Hand: g.Hand}
	c.Arms = append([]Arm(nil), g.Arms...)
	return c
}

func (g *Gesture) String() string {
	return fmt.Sprintf("Gesture{%s %q hand=%s priority=%d}", g.Type, g.Value, g.Hand, g.Priority())
}

// HeadNod is a single nod.
type HeadNod struct {
	priority
}

// NewHeadNod returns a head nod.
func NewHeadNod() *HeadNod { return &HeadNod{} }

func (h *HeadNod) Kind() Kind { return KindHeadNod }

func (h *HeadNod) Markup(begin float64, end timecode.Time) string {
	return fmt.Sprintf(`<head type="nod"%s/>`, timing(begin, end))
}

func (h *HeadNod) String() string {
	return fmt.Sprintf("HeadNod{priority=%d}", h.Priority())
}

// Eyebrows raises the eyebrows, typically over a question or exclamation.
type Eyebrows struct {
	priority
}

// NewEyebrows returns an eyebrow raise.
func NewEyebrows() *Eyebrows { return &Eyebrows{} }

func (e *Eyebrows) Kind() Kind { return KindEyebrows }

func (e *Eyebrows) Markup(begin float64, end timecode.Time) string {
	return fmt.Sprintf(`<face type="eyebrows"%s/>`, timing(begin, end))
}

func (e *Eyebrows) String() string {
	return fmt.Sprintf("Eyebrows{priority=%d}", e.Priority())
}
