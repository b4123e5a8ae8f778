// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontend decodes input documents: sentences that an external
// parser has already split into phrases and annotated with word classes.
// Each sentence becomes a fresh list of tree features on every call, so a
// document can be compiled more than once.
package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beat-engine/internal/timecode"
	"github.com/pdiddy/beat-engine/internal/tree"
)

// ErrEmptyDocument is returned for a document without sentences.
var ErrEmptyDocument = errors.New("document has no sentences")

// Document is one input file.
type Document struct {
	// ID names the document in output and in the archive. Load defaults it
	// to the file name without extension.
	ID string `yaml:"id"`

	// Speaker selects the Praat timing directory and the participation
	// framework's speaker.
	Speaker   string `yaml:"speaker,omitempty"`
	Addressee string `yaml:"addressee,omitempty"`

	// Participants are everyone present besides the speaker.
	Participants []string `yaml:"participants,omitempty"`

	// Scene is a knowledge base scene id; its persons join the participants.
	Scene string `yaml:"scene,omitempty"`

	Sentences []Sentence `yaml:"sentences"`
}

// Sentence is one sentence's top-level features.
type Sentence struct {
	// Text is informational; the compiled text comes from the words.
	Text     string     `yaml:"text,omitempty"`
	Features []NodeSpec `yaml:"features"`
}

// NodeSpec describes a word (Token set) or a phrase (Type set). A word may
// also be written as a plain string "token attr attr...", e.g.
// "car noun singular".
type NodeSpec struct {
	Token string   `yaml:"token,omitempty"`
	Lemma string   `yaml:"lemma,omitempty"`
	Attrs []string `yaml:"attrs,omitempty"`
	Begin *float64 `yaml:"begin,omitempty"`
	End   *float64 `yaml:"end,omitempty"`

	Type     string     `yaml:"type,omitempty"`
	ID       string     `yaml:"id,omitempty"`
	Features []NodeSpec `yaml:"features,omitempty"`
}

type nodeSpecFields NodeSpec

// UnmarshalYAML accepts the compact scalar word form as well as a mapping.
func (n *NodeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		fields := strings.Fields(value.Value)
		if len(fields) == 0 {
			return fmt.Errorf("line %d: empty word", value.Line)
		}
		*n = NodeSpec{Token: fields[0], Attrs: fields[1:]}
		return nil
	}
	var f nodeSpecFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	*n = NodeSpec(f)
	return nil
}

// IsWord reports whether n describes a word.
func (n NodeSpec) IsWord() bool { return n.Token != "" }

// Build converts n into a tree node.
func (n NodeSpec) Build() (tree.Node, error) {
	switch {
	case n.Token != "" && n.Type != "":
		return nil, fmt.Errorf("node %q has both a token and a phrase type", n.Token)
	case n.Token != "":
		return n.word()
	case n.Type != "":
		return n.phrase()
	}
	return nil, errors.New("node has neither a token nor a phrase type")
}

func (n NodeSpec) word() (*tree.Word, error) {
	w := tree.NewWord(n.Token)
	w.Lemma = n.Lemma
	for _, s := range n.Attrs {
		a, err := tree.ParseAttribute(s)
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", n.Token, err)
		}
		w.AddAttribute(a)
	}
	w.Begin = timecode.Ptr(n.Begin)
	w.End = timecode.Ptr(n.End)
	return w, nil
}

func (n NodeSpec) phrase() (*tree.Constituent, error) {
	k, err := tree.ParseKind(n.Type)
	if err != nil {
		return nil, err
	}
	if len(n.Features) == 0 {
		return nil, fmt.Errorf("%s phrase has no features", k)
	}
	c := tree.NewConstituent(k)
	c.ID = n.ID
	for i, f := range n.Features {
		node, err := f.Build()
		if err != nil {
			return nil, fmt.Errorf("%s feature %d: %w", k, i, err)
		}
		c.Add(node)
	}
	return c, nil
}

// Nodes builds a fresh tree for the sentence's features.
func (s Sentence) Nodes() ([]tree.Node, error) {
	out := make([]tree.Node, 0, len(s.Features))
	for i, f := range s.Features {
		node, err := f.Build()
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, node)
	}
	return out, nil
}

// Validate builds every sentence once and reports the first problem.
func (d *Document) Validate() error {
	if len(d.Sentences) == 0 {
		return ErrEmptyDocument
	}
	for i, s := range d.Sentences {
		if len(s.Features) == 0 {
			return fmt.Errorf("sentence %d: no features", i)
		}
		if _, err := s.Nodes(); err != nil {
			return fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	return nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.ID == "" {
		d.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// LoadAll loads every path. A directory contributes its .yaml and .yml
// files in name order.
func LoadAll(paths []string) ([]*Document, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	docs := make([]*Document, 0, len(files))
	seen := make(map[string]string)
	for _, f := range files {
		d, err := Load(f)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[d.ID]; ok {
			return nil, fmt.Errorf("document id %q used by %s and %s", d.ID, prev, f)
		}
		seen[d.ID] = f
		docs = append(docs, d)
	}
	return docs, nil
}
