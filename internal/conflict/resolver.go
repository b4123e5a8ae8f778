// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conflict removes behaviors that cannot be performed together.
//
// The resolver walks the tree depth first while keeping the path of
// containers from the clause down to the current node. After a node's
// subtree is visited, every pair of behaviors on that path is tested; when
// two conflict, the one with the lower priority is removed. On equal
// priority the behavior nearer the root (or listed first on the same
// container) is kept. Behaviors in sibling subtrees are never compared.
package conflict

import (
	"go.uber.org/zap"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// path is the stack of containers from the clause to the current node.
type path struct {
	stack   []tree.Container
	removed int
}

var pathT = dispatch.Of[*path]("path")

// Resolver prunes conflicting behaviors.
type Resolver struct {
	registry *behavior.Registry
	d        *dispatch.Dispatcher
	log      *zap.Logger
}

// New returns a Resolver using the conflict declarations in registry.
func New(registry *behavior.Registry, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		registry: registry,
		d:        dispatch.New("conflict-resolver", log),
		log:      log,
	}

	r.d.Register(dispatch.Call2(r.articulation), pathT, tree.ArticulationType)
	r.d.Register(dispatch.Call2(r.constituent), pathT, tree.ConstituentType)
	r.d.Register(dispatch.Call2(r.word), pathT, tree.WordType)
	return r
}

// Resolve removes conflicting behaviors from u and returns how many were
// removed.
func (r *Resolver) Resolve(u *tree.Utterance) int {
	p := &path{}
	for _, c := range u.Clauses {
		p.stack = append(p.stack, c)
		for _, a := range c.Articulations() {
			if a != nil {
				r.d.Match(p, a)
			}
		}
		r.check(p)
		p.stack = p.stack[:len(p.stack)-1]
	}
	if p.removed > 0 {
		r.log.Debug("resolved behavior conflicts", zap.Int("removed", p.removed))
	}
	return p.removed
}

func (r *Resolver) articulation(p *path, a *tree.Articulation) {
	r.visit(p, a, a.Phrases)
}

func (r *Resolver) constituent(p *path, c *tree.Constituent) {
	r.visit(p, c, c.Features)
}

func (r *Resolver) word(p *path, w *tree.Word) {
	r.visit(p, w, nil)
}

func (r *Resolver) visit(p *path, c tree.Container, children []tree.Node) {
	p.stack = append(p.stack, c)
	for _, child := range children {
		r.d.Match(p, child)
	}
	r.check(p)
	p.stack = p.stack[:len(p.stack)-1]
}

type removal struct {
	from tree.Container
	b    behavior.Behavior
}

// check compares every pair of behaviors on the path, outer container first.
func (r *Resolver) check(p *path) {
	var doomed []removal
	marked := make(map[behavior.Behavior]bool)

	for i, outer := range p.stack {
		for j := i; j < len(p.stack); j++ {
			inner := p.stack[j]
			bs1 := outer.Behaviors()
			bs2 := inner.Behaviors()
			for x, b1 := range bs1 {
				start := 0
				if i == j {
					start = x + 1
				}
				for _, b2 := range bs2[start:] {
					if marked[b1] || marked[b2] || !r.registry.Conflicts(b1, b2) {
						continue
					}
					loser, from := b2, inner
					if b1.Priority() < b2.Priority() {
						loser, from = b1, outer
					}
					r.log.Debug("behavior conflict",
						zap.Stringer("kept", other(loser, b1, b2)),
						zap.Stringer("removed", loser),
					)
					marked[loser] = true
					doomed = append(doomed, removal{from: from, b: loser})
				}
			}
		}
	}

	for _, d := range doomed {
		if d.from.RemoveBehavior(d.b) {
			p.removed++
		}
	}
}

func other(b, b1, b2 behavior.Behavior) behavior.Behavior {
	if b == b1 {
		return b2
	}
	return b1
}
