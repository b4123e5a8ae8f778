// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch selects a handler from a registered family by the runtime
// types of all of its arguments. Handlers are grouped into roles so one
// component can keep several independent families, for example a collect
// pass and a produce pass over the same tree.
//
// Among the handlers whose parameter types accept the arguments, the most
// specific one wins: a handler is more specific than another when each of its
// parameter types is the same as, or a descendant of, the other's. When the
// applicable handlers are mutually incomparable the one registered first wins.
package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoHandler is returned by Invoke when no registered handler accepts the
// arguments. It signals a programming error in the handler family.
var ErrNoHandler = errors.New("no applicable handler")

// Role names a handler family inside a Dispatcher.
type Role string

// DefaultRole is the family used by the Dispatcher's own Register, Invoke,
// and Match methods.
const DefaultRole Role = ""

// Func is the uniform handler signature. Use the Call and Eval adapters to
// register typed functions.
type Func func(args ...any) any

type handler struct {
	params []*Type
	fn     Func
	seq    int
}

// applicable reports whether every parameter accepts the matching argument.
func (h *handler) applicable(args []any) bool {
	if len(h.params) != len(args) {
		return false
	}
	for i, p := range h.params {
		if !p.Accepts(args[i]) {
			return false
		}
	}
	return true
}

// narrower reports whether h is at least as specific as o in every position.
func (h *handler) narrower(o *handler) bool {
	for i := range h.params {
		if !o.params[i].AssignableFrom(h.params[i]) {
			return false
		}
	}
	return true
}

// strictlyNarrower reports whether h is narrower than o and not equivalent.
func (h *handler) strictlyNarrower(o *handler) bool {
	return h.narrower(o) && !o.narrower(h)
}

func (h *handler) signature() string {
	names := make([]string, len(h.params))
	for i, p := range h.params {
		names[i] = p.name
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// Table is one role's handler family.
type Table struct {
	owner *Dispatcher
	role  Role

	mu       sync.RWMutex
	handlers []*handler
}

// Dispatcher owns the handler tables of one component. It embeds the default
// role's table.
type Dispatcher struct {
	*Table

	name string
	log  *zap.Logger

	mu    sync.Mutex
	roles map[Role]*Table
	seq   int
}

// New returns a Dispatcher named name. A nil logger discards output.
func New(name string, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		name:  name,
		log:   log.With(zap.String("dispatcher", name)),
		roles: make(map[Role]*Table),
	}
	d.Table = d.Role(DefaultRole)
	return d
}

// Name returns the Dispatcher's name.
func (d *Dispatcher) Name() string { return d.name }

// Role returns the handler table for role, creating it on first use.
func (d *Dispatcher) Role(role Role) *Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.roles[role]
	if !ok {
		t = &Table{owner: d, role: role}
		d.roles[role] = t
	}
	return t
}

func (d *Dispatcher) nextSeq() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq
}

// Register adds fn to the table under the given parameter types.
func (t *Table) Register(fn Func, params ...*Type) {
	h := &handler{params: params, fn: fn, seq: t.owner.nextSeq()}
	t.mu.Lock()
	t.handlers = append(t.handlers, h)
	t.mu.Unlock()
}

// Invoke calls the most specific handler for args and returns its result.
// It returns ErrNoHandler when nothing applies.
func (t *Table) Invoke(args ...any) (any, error) {
	h := t.resolve(args)
	if h == nil {
		return nil, fmt.Errorf("%w in %s%s for %s", ErrNoHandler, t.owner.name, t.roleSuffix(), describe(args))
	}
	return h.fn(args...), nil
}

// Match calls the most specific handler for args if there is one. The second
// result reports whether a handler ran.
func (t *Table) Match(args ...any) (any, bool) {
	h := t.resolve(args)
	if h == nil {
		t.owner.log.Debug("no handler",
			zap.String("role", string(t.role)),
			zap.String("args", describe(args)),
		)
		return nil, false
	}
	return h.fn(args...), true
}

// Applicable reports whether some handler accepts args.
func (t *Table) Applicable(args ...any) bool {
	return t.resolve(args) != nil
}

func (t *Table) resolve(args []any) *handler {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var candidates []*handler
	for _, h := range t.handlers {
		if h.applicable(args) {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Keep the candidates nothing else is strictly narrower than.
	var best []*handler
	for _, c := range candidates {
		dominated := false
		for _, o := range candidates {
			if o != c && o.strictlyNarrower(c) {
				dominated = true
				break
			}
		}
		if !dominated {
			best = append(best, c)
		}
	}

	winner := best[0]
	for _, b := range best[1:] {
		if b.seq < winner.seq {
			winner = b
		}
	}
	if len(best) > 1 {
		sigs := make([]string, len(best))
		for i, b := range best {
			sigs[i] = b.signature()
		}
		t.owner.log.Debug("ambiguous dispatch, using first registered",
			zap.String("role", string(t.role)),
			zap.String("args", describe(args)),
			zap.Strings("candidates", sigs),
			zap.String("chosen", winner.signature()),
		)
	}
	return winner
}

func (t *Table) roleSuffix() string {
	if t.role == DefaultRole {
		return ""
	}
	return "/" + string(t.role)
}

func describe(args []any) string {
	names := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			names[i] = "nil"
			continue
		}
		names[i] = reflect.TypeOf(a).String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
