// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beat-engine/internal/archive"
	"github.com/pdiddy/beat-engine/internal/frontend"
	"github.com/pdiddy/beat-engine/internal/pipeline"
	"github.com/pdiddy/beat-engine/pkg/types"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file or directory>...",
	Short: "Compile input documents into behavior markup",
	Long: `Compile reads YAML documents of pre-parsed sentences, plans behaviors for
each sentence, and writes BML, McNeill transcripts, or both. A directory
argument compiles every .yaml and .yml file in it.

Documents are compiled concurrently, one discourse session per document.
Within a document, sentences share discourse history unless
--reset-per-sentence is set. With --archive the plans are also saved to the
SQLite archive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := frontend.LoadAll(args)
	if err != nil {
		return err
	}

	engine, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx := context.Background()
	results, summary := engine.RunBatch(ctx, os.Stderr, docs)

	outDir, _ := cmd.Flags().GetString("out")
	var plans []types.Plan
	for _, r := range results {
		plans = append(plans, r.Plans...)
		if outDir != "" {
			if err := writeDocumentFiles(outDir, r, cfg.Compile.Format); err != nil {
				return err
			}
			continue
		}
		writePlans(os.Stdout, r.Plans)
	}

	if cfg.Archive.Enabled && len(plans) > 0 {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		_, saveSummary, err := store.Save(ctx, os.Stderr, plans)
		if err != nil {
			return err
		}
		if saveSummary.Failed > 0 {
			return fmt.Errorf("%d plan(s) failed to archive", saveSummary.Failed)
		}
	}

	fmt.Fprintf(os.Stderr, "%d of %d sentence(s) compiled\n", summary.Compiled, summary.Total())
	if summary.Failed > 0 {
		return fmt.Errorf("%d sentence(s) failed", summary.Failed)
	}
	return nil
}

func writePlans(w io.Writer, plans []types.Plan) {
	for _, p := range plans {
		fmt.Fprintf(w, "== %s#%d: %s\n", p.Document, p.Sentence, p.Text)
		if p.BML != "" {
			fmt.Fprintln(w, p.BML)
		}
		if p.McNeill != "" {
			fmt.Fprintln(w, p.McNeill)
		}
	}
}

// writeDocumentFiles writes <doc>.bml and <doc>.mcneill.txt as the format
// asks, one plan per entry.
func writeDocumentFiles(dir string, r pipeline.DocumentResult, format types.OutputFormat) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var bml, mcneill []string
	for _, p := range r.Plans {
		bml = append(bml, p.BML)
		mcneill = append(mcneill, p.McNeill)
	}

	if format != types.FormatMcNeill {
		path := filepath.Join(dir, r.Document+".bml")
		if err := os.WriteFile(path, []byte(strings.Join(bml, "\n")+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if format == types.FormatMcNeill || format == types.FormatBoth {
		path := filepath.Join(dir, r.Document+".mcneill.txt")
		if err := os.WriteFile(path, []byte(strings.Join(mcneill, "\n")+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func init() {
	f := compileCmd.Flags()
	f.String("out", "", "write <document>.bml / <document>.mcneill.txt here instead of stdout")
	f.String("format", "", "output format: bml, mcneill, or both")
	f.Int("workers", 0, "documents compiled at once")
	f.Bool("reset-per-sentence", false, "forget discourse history between sentences")
	f.Bool("archive", false, "save compiled plans to the archive")

	bindFlags(f, map[string]string{
		"compile.format":             "format",
		"compile.workers":            "workers",
		"compile.reset_per_sentence": "reset-per-sentence",
		"archive.enabled":            "archive",
	})

	rootCmd.AddCommand(compileCmd)
}
