// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge loads the domain knowledge base: object types with their
// typical feature values, the instances that appear in a scene, the scenes
// themselves, the gesture lexicon, and a contrast lexicon.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beat-engine/internal/behavior"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// ErrNotFound is returned for lookups of unknown identifiers.
var ErrNotFound = errors.New("not found in knowledge base")

// FeatureType says how a feature's typical value is interpreted.
type FeatureType string

const (
	// Symbolic: the typical value is a literal, "any", or empty (never typical).
	FeatureSymbolic FeatureType = "SYM"
	// Numeric: the typical value is "min-max" or a single number.
	FeatureNumeric FeatureType = "NUM"
)

// Feature is one property of a Type.
type Feature struct {
	Name    string      `yaml:"name" json:"name"`
	Type    FeatureType `yaml:"type" json:"type"`
	Typical string      `yaml:"typical" json:"typical"`
}

// IsTypical reports whether value is unremarkable for the feature.
func (f Feature) IsTypical(value string) bool {
	switch f.Type {
	case FeatureSymbolic:
		switch f.Typical {
		case "":
			return false
		case "any":
			return true
		}
		return f.Typical == value
	case FeatureNumeric:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return false
		}
		lo, hi, ok := numericRange(f.Typical)
		return ok && v >= lo && v <= hi
	}
	return false
}

// numericRange parses "min-max" or a single number.
func numericRange(s string) (lo, hi float64, ok bool) {
	s = strings.TrimSpace(s)
	// Skip a leading sign so "-5" and "-5-5" parse.
	cut := strings.Index(s[min(1, len(s)):], "-")
	if cut >= 0 {
		cut += min(1, len(s))
		l, errL := strconv.ParseFloat(strings.TrimSpace(s[:cut]), 64)
		h, errH := strconv.ParseFloat(strings.TrimSpace(s[cut+1:]), 64)
		if errL != nil || errH != nil {
			return 0, 0, false
		}
		return l, h, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false
	}
	return v, v, true
}

// Type is a class of objects with typical feature values.
type Type struct {
	Name     string    `yaml:"name" json:"name"`
	Klass    string    `yaml:"klass" json:"klass"`
	Features []Feature `yaml:"features" json:"features"`
}

// Instance is a concrete object in the domain.
type Instance struct {
	ID         string            `yaml:"id" json:"id"`
	InstanceOf string            `yaml:"instanceOf" json:"instance_of"`
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
}

// Values returns the attribute values sorted by attribute name.
func (i *Instance) Values() []string {
	keys := make([]string, 0, len(i.Attributes))
	for k := range i.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for n, k := range keys {
		out[n] = i.Attributes[k]
	}
	return out
}

// PersonRole is a person's part in a scene.
type PersonRole string

const (
	RoleParticipant PersonRole = "PARTICIPANT"
	RoleBystander   PersonRole = "BYSTANDER"
)

// Person is someone present in a scene.
type Person struct {
	ID   string     `yaml:"id" json:"id"`
	Role PersonRole `yaml:"role" json:"role"`
}

// Scene lists what can be seen and who is present.
type Scene struct {
	ID      string   `yaml:"id" json:"id"`
	Objects []string `yaml:"objects" json:"objects"`
	Persons []Person `yaml:"persons" json:"persons"`
}

// Contains reports whether id is an object or a person in the scene.
func (s *Scene) Contains(id string) bool {
	for _, o := range s.Objects {
		if o == id {
			return true
		}
	}
	for _, p := range s.Persons {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Participants returns the IDs of persons taking part in the conversation.
func (s *Scene) Participants() []string {
	var out []string
	for _, p := range s.Persons {
		if p.Role == RoleParticipant {
			out = append(out, p.ID)
		}
	}
	return out
}

// GestureSpec is a gesture lexicon entry.
type GestureSpec struct {
	Type  string         `yaml:"type" json:"type"`
	Value string         `yaml:"value" json:"value"`
	Arms  []behavior.Arm `yaml:"arms" json:"arms"`
}

// document is the on-disk layout.
type document struct {
	Types     []Type              `yaml:"types"`
	Instances []Instance          `yaml:"instances"`
	Scenes    []Scene             `yaml:"scenes"`
	Gestures  []GestureSpec       `yaml:"gestures"`
	Contrasts map[string][]string `yaml:"contrasts"`
}

// Base is a loaded knowledge base. It is read-only after loading and safe
// for concurrent use.
type Base struct {
	Types     []Type
	Instances []Instance
	Scenes    []Scene
	Gestures  []GestureSpec
	Contrast  map[string][]string

	fuzzy float64
	log   *zap.Logger
}

// Option configures a Base.
type Option func(*Base)

// WithFuzzyThreshold lets instance values match description words whose
// Jaro-Winkler similarity reaches threshold. Zero disables fuzzy matching.
func WithFuzzyThreshold(threshold float64) Option {
	return func(b *Base) { b.fuzzy = threshold }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Base) { b.log = log }
}

// Load reads a YAML knowledge base from path.
func Load(path string, opts ...Option) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base %s: %w", path, err)
	}
	b, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a YAML knowledge base.
func Parse(data []byte, opts ...Option) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}
	b := &Base{
		Types:     doc.Types,
		Instances: doc.Instances,
		Scenes:    doc.Scenes,
		Gestures:  doc.Gestures,
		Contrast:  doc.Contrasts,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b, nil
}

// BestInstanceMatch returns the instance with the most attribute values found
// in description. It reports false when nothing matches or when the best
// count is shared by more than one instance.
func (b *Base) BestInstanceMatch(description string) (*Instance, bool) {
	words := strings.Fields(description)
	var (
		best      *Instance
		bestHits  int
		bestCount int
	)
	for i := range b.Instances {
		inst := &b.Instances[i]
		hits := 0
		for _, v := range inst.Values() {
			if v != "" && b.valueMatches(description, words, v) {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, bestCount = inst, hits, 1
		case hits == bestHits && hits > 0:
			bestCount++
		}
	}
	if best == nil || bestCount > 1 {
		b.log.Debug("no unique instance match",
			zap.String("description", description),
			zap.Int("hits", bestHits),
			zap.Int("tied", bestCount),
		)
		return nil, false
	}
	return best, true
}

func (b *Base) valueMatches(description string, words []string, value string) bool {
	if strings.Contains(description, value) {
		return true
	}
	if b.fuzzy <= 0 {
		return false
	}
	lv := strings.ToLower(value)
	for _, w := range words {
		if matchr.JaroWinkler(strings.ToLower(w), lv, false) >= b.fuzzy {
			return true
		}
	}
	return false
}

// MatchInstance returns the ID of the best instance match.
func (b *Base) MatchInstance(description string) (string, bool) {
	inst, ok := b.BestInstanceMatch(description)
	if !ok {
		return "", false
	}
	return inst.ID, true
}

// Instance returns the instance with the given ID.
func (b *Base) Instance(id string) (*Instance, error) {
	for i := range b.Instances {
		if b.Instances[i].ID == id {
			return &b.Instances[i], nil
		}
	}
	return nil, fmt.Errorf("instance %q: %w", id, ErrNotFound)
}

// SurprisingValue returns the instance's value for the first feature of its
// type that is not typical. Features the instance has no value for are
// skipped.
func (b *Base) SurprisingValue(inst *Instance) (string, bool) {
	for _, t := range b.Types {
		if t.Name != inst.InstanceOf {
			continue
		}
		for _, f := range t.Features {
			v, ok := inst.Attributes[f.Name]
			if !ok {
				continue
			}
			if !f.IsTypical(v) {
				return v, true
			}
		}
	}
	return "", false
}

func (b *Base) gestureSpec(value string) (*GestureSpec, bool) {
	for i := range b.Gestures {
		if strings.EqualFold(b.Gestures[i].Value, value) {
			return &b.Gestures[i], true
		}
	}
	return nil, false
}

// HasGesture reports whether the lexicon has a gesture for value. Values
// compare case-insensitively.
func (b *Base) HasGesture(value string) bool {
	_, ok := b.gestureSpec(value)
	return ok
}

// Gesture returns a new gesture behavior for value.
func (b *Base) Gesture(value string) (*behavior.Gesture, error) {
	spec, ok := b.gestureSpec(value)
	if !ok {
		return nil, fmt.Errorf("gesture %q: %w", value, ErrNotFound)
	}
	return behavior.NewGesture(spec.Type, spec.Value, "", spec.Arms...).Clone(), nil
}

// CompactGesture returns the gesture for value with its hand set from the
// arms it uses: both, left, or right.
func (b *Base) CompactGesture(value string) (*behavior.Gesture, error) {
	g, err := b.Gesture(value)
	if err != nil {
		return nil, err
	}
	var left, right bool
	for _, a := range g.Arms {
		switch a.Side {
		case behavior.HandLeft:
			left = true
		case behavior.HandRight:
			right = true
		}
	}
	switch {
	case left && right:
		g.Hand = behavior.HandBoth
	case left:
		g.Hand = behavior.HandLeft
	case right:
		g.Hand = behavior.HandRight
	}
	return g, nil
}

// Scene returns the scene with the given ID.
func (b *Base) Scene(id string) (*Scene, error) {
	for i := range b.Scenes {
		if b.Scenes[i].ID == id {
			return &b.Scenes[i], nil
		}
	}
	return nil, fmt.Errorf("scene %q: %w", id, ErrNotFound)
}

// IsObservable reports whether object is in the scene.
func (b *Base) IsObservable(sceneID, object string) bool {
	s, err := b.Scene(sceneID)
	return err == nil && s.Contains(object)
}

// Contrasts returns the lemmas listed as opposites of w.
func (b *Base) Contrasts(w *tree.Word) []string {
	if out, ok := b.Contrast[w.Key()]; ok {
		return out
	}
	return b.Contrast[strings.ToLower(w.Key())]
}
