// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discourse

import (
	"fmt"
	"strings"

	"github.com/pdiddy/beat-engine/internal/dispatch"
	"github.com/pdiddy/beat-engine/internal/tree"
)

var (
	builderT = dispatch.Of[*strings.Builder]("builder")
	indentT  = dispatch.Of[int]("indent")
)

// Describe renders the utterance's structure followed by the model's
// entities and their referring expressions.
func Describe(u *tree.Utterance, m *Model) string {
	d := dispatch.New("discourse-describe", nil)

	var node func(sb *strings.Builder, indent int, label string, features []tree.Node)
	node = func(sb *strings.Builder, indent int, label string, features []tree.Node) {
		fmt.Fprintf(sb, "%s+ %s\n", strings.Repeat(" ", indent), label)
		for _, f := range features {
			d.Match(sb, indent+2, f)
		}
	}
	d.Register(dispatch.Call3(func(sb *strings.Builder, indent int, c *tree.Constituent) {
		node(sb, indent, fmt.Sprintf("Constituent (%s)", c.Kind), c.Features)
	}), builderT, indentT, tree.ConstituentType)
	d.Register(dispatch.Call3(func(sb *strings.Builder, indent int, np *tree.Constituent) {
		node(sb, indent, labelWithID("NP", np.ID), np.Features)
	}), builderT, indentT, tree.NounPhraseType)
	d.Register(dispatch.Call3(func(sb *strings.Builder, indent int, vp *tree.Constituent) {
		node(sb, indent, labelWithID("VP", vp.ID), vp.Features)
	}), builderT, indentT, tree.VerbPhraseType)
	d.Register(dispatch.Call3(func(sb *strings.Builder, indent int, w *tree.Word) {
		fmt.Fprintf(sb, "%s- %s\n", strings.Repeat(" ", indent), w.Token)
	}), builderT, indentT, tree.WordType)
	d.Register(dispatch.Call2(func(sb *strings.Builder, a *tree.Articulation) {
		node(sb, 4, a.Role.String(), a.Phrases)
	}), builderT, tree.ArticulationType)

	var sb strings.Builder
	sb.WriteString("Utterance\n")
	for _, c := range u.Clauses {
		sb.WriteString("  + Clause\n")
		for _, a := range c.Articulations() {
			d.Match(&sb, a)
		}
	}
	sb.WriteString("\nDiscourse model:\n")
	for _, e := range m.Entities() {
		sb.WriteString(e.ID)
		sb.WriteString(":")
		for _, r := range e.Referrers() {
			words := r.Words()
			tokens := make([]string, len(words))
			for i, w := range words {
				tokens[i] = w.Token
			}
			fmt.Fprintf(&sb, " %s,", strings.Join(tokens, " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func labelWithID(label, id string) string {
	if id == "" {
		return label
	}
	return label + " " + id
}
