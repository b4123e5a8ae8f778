// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beat-engine/internal/discourse"
	"github.com/pdiddy/beat-engine/internal/frontend"
	"github.com/pdiddy/beat-engine/internal/pipeline"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the discourse analysis of a document sentence by sentence",
	Long: `Inspect compiles one document and prints, for every sentence, its clauses
divided into theme and rheme with their phrases and words, and the
discourse entities known after the sentence with the expressions
that referred to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := frontend.Load(args[0])
	if err != nil {
		return err
	}
	engine, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	s, err := engine.NewSession(pipeline.Audience{
		Speaker:      doc.Speaker,
		Addressee:    doc.Addressee,
		Participants: doc.Participants,
		Scene:        doc.Scene,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "document %s, %s\n", doc.ID, s.Participants())

	showBML, _ := cmd.Flags().GetBool("bml")
	for i, sentence := range doc.Sentences {
		features, err := sentence.Nodes()
		if err != nil {
			return fmt.Errorf("sentence %d: %w", i, err)
		}
		res, err := s.Process(context.Background(), features)
		if err != nil {
			return fmt.Errorf("sentence %d: %w", i, err)
		}

		fmt.Fprintf(os.Stdout, "\n%s\n", strings.Repeat("-", 60))
		fmt.Fprintf(os.Stdout, "#%d %s\n", i, res.Utterance.Text())
		fmt.Fprint(os.Stdout, discourse.Describe(res.Utterance, s.Model()))
		if res.Pruned > 0 {
			fmt.Fprintf(os.Stdout, "pruned %d conflicting behavior(s)\n", res.Pruned)
		}
		if showBML && res.BML != "" {
			fmt.Fprintln(os.Stdout, res.BML)
		}
	}
	return nil
}

func init() {
	inspectCmd.Flags().Bool("bml", false, "also print the compiled BML")
	rootCmd.AddCommand(inspectCmd)
}
