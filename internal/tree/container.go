// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"slices"

	"github.com/pdiddy/beat-engine/internal/behavior"
)

// Container is a tree element that carries behaviors.
type Container interface {
	Behaviors() []behavior.Behavior
	AddBehavior(b behavior.Behavior)
	RemoveBehavior(b behavior.Behavior) bool
}

// behaviors is embedded by every Container.
type behaviors struct {
	list []behavior.Behavior
}

// Behaviors returns the attached behaviors in attachment order. The slice
// must not be modified.
func (c *behaviors) Behaviors() []behavior.Behavior { return c.list }

// AddBehavior attaches b.
func (c *behaviors) AddBehavior(b behavior.Behavior) {
	c.list = append(c.list, b)
}

// RemoveBehavior detaches b by identity and reports whether it was attached.
func (c *behaviors) RemoveBehavior(b behavior.Behavior) bool {
	i := slices.Index(c.list, b)
	if i < 0 {
		return false
	}
	c.list = slices.Delete(c.list, i, i+1)
	return true
}
