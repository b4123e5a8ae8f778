// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

// Type is a node in the parameter-type lattice used to select handlers.
// Every Type except Any has exactly one parent; a value accepted by a Type
// is accepted by all of its ancestors.
type Type struct {
	name    string
	parent  *Type
	accepts func(v any) bool
}

// Any is the wildcard parameter type. It accepts every value, nil included.
var Any = &Type{name: "any"}

// NewType declares a parameter type below parent. A nil parent means Any.
// The accepts predicate is only consulted for values the parent accepts.
func NewType(name string, parent *Type, accepts func(v any) bool) *Type {
	if parent == nil {
		parent = Any
	}
	return &Type{name: name, parent: parent, accepts: accepts}
}

// Of declares a parameter type directly below Any that accepts values whose
// dynamic type implements or equals T.
func Of[T any](name string) *Type {
	return NewType(name, Any, func(v any) bool {
		_, ok := v.(T)
		return ok
	})
}

// Name returns the declared name.
func (t *Type) Name() string { return t.name }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.name }

// Parent returns the enclosing type, or nil for Any.
func (t *Type) Parent() *Type { return t.parent }

// Accepts reports whether v is an instance of t. Only Any accepts nil.
func (t *Type) Accepts(v any) bool {
	if t == Any {
		return true
	}
	if v == nil {
		return false
	}
	if t.parent != nil && !t.parent.Accepts(v) {
		return false
	}
	return t.accepts(v)
}

// AssignableFrom reports whether u is t or a descendant of t.
func (t *Type) AssignableFrom(u *Type) bool {
	for x := u; x != nil; x = x.parent {
		if x == t {
			return true
		}
	}
	return false
}
