// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package behavior

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnknownKind is returned when a conflict declaration names a kind that is
// not in Kinds.
var ErrUnknownKind = errors.New("unknown behavior kind")

// DefaultConflicts is the static conflict table. A gesture or gaze on an
// ancestor and another on a descendant cannot be performed together.
var DefaultConflicts = map[Kind][]Kind{
	KindGaze:    {KindGaze},
	KindGesture: {KindGesture},
}

// Registry answers whether two behaviors conflict. Declarations are
// directional; two behaviors conflict when either kind declares the other.
type Registry struct {
	table map[Kind]map[Kind]struct{}
}

// NewRegistry validates decl against Kinds and builds a Registry.
func NewRegistry(decl map[Kind][]Kind) (*Registry, error) {
	r := &Registry{table: make(map[Kind]map[Kind]struct{}, len(decl))}
	for from, tos := range decl {
		if !slices.Contains(Kinds, from) {
			return nil, fmt.Errorf("conflict declaration for %q: %w", from, ErrUnknownKind)
		}
		set := make(map[Kind]struct{}, len(tos))
		for _, to := range tos {
			if !slices.Contains(Kinds, to) {
				return nil, fmt.Errorf("conflict %q -> %q: %w", from, to, ErrUnknownKind)
			}
			set[to] = struct{}{}
		}
		r.table[from] = set
	}
	return r, nil
}

// ParseConflicts converts a configuration map of kind names into a
// declaration table. An empty map yields DefaultConflicts.
func ParseConflicts(m map[string][]string) map[Kind][]Kind {
	if len(m) == 0 {
		return DefaultConflicts
	}
	decl := make(map[Kind][]Kind, len(m))
	for from, tos := range m {
		for _, to := range tos {
			decl[Kind(from)] = append(decl[Kind(from)], Kind(to))
		}
		if len(tos) == 0 {
			decl[Kind(from)] = nil
		}
	}
	return decl
}

// Conflicts reports whether a and b cannot both be performed. A behavior
// never conflicts with itself.
func (r *Registry) Conflicts(a, b Behavior) bool {
	if a == b {
		return false
	}
	return r.declares(a.Kind(), b.Kind()) || r.declares(b.Kind(), a.Kind())
}

func (r *Registry) declares(from, to Kind) bool {
	_, ok := r.table[from][to]
	return ok
}

// Pairs lists the declared conflicts as sorted "from->to" strings.
func (r *Registry) Pairs() []string {
	var out []string
	for from, tos := range r.table {
		for to := range tos {
			out = append(out, string(from)+"->"+string(to))
		}
	}
	sort.Strings(out)
	return out
}
