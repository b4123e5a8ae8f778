// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beat-engine/internal/archive"
	"github.com/pdiddy/beat-engine/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query the archive of compiled plans (list, retrieve, show, export, delete)",
	Long: `Archive manages the local SQLite database that compile --archive writes
to. Each plan records a sentence's text, its markup, and the discourse
entities known after it.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArchiveQuery(cmd, archive.QueryOptions{})
	},
}

// --- retrieve subcommand ---

var archiveRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Find plans by text, document or discourse entity",
	Long: `Retrieve returns plans whose text or BML contains the query, optionally
restricted to a document (--document) or to plans whose discourse model
holds an entity (--entity).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := queryOptsFromFlags(cmd, args)
		if opts.IsEmpty() {
			return fmt.Errorf("query or filter required: provide a search query, --document, or --entity")
		}
		return runArchiveQuery(cmd, opts)
	},
}

func runArchiveQuery(cmd *cobra.Command, opts archive.QueryOptions) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.MaxResults == 0 {
		opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	plans, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPlans(plans, jsonOutput)
}

func formatPlans(plans []types.Plan, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}

	if len(plans) == 0 {
		fmt.Println("No plans found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-4s  %-6s  %s\n", "ID", "Document", "#", "Pruned", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, p := range plans {
		doc := p.Document
		if len(doc) > 20 {
			doc = doc[:17] + "..."
		}
		text := p.Text
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-4d  %-6d  %s\n", p.ID, doc, p.Sentence, p.Pruned, text)
	}
	fmt.Fprintf(os.Stdout, "\n%d plans\n", len(plans))
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one plan with its markup and discourse entities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s#%d: %s\n\n%s\n", p.Document, p.Sentence, p.Text, p.BML)
		if p.McNeill != "" {
			fmt.Printf("\n%s\n", p.McNeill)
		}
		fmt.Println("\nDiscourse model:")
		for _, e := range p.Entities {
			fmt.Printf("  %d. %s (%s): %s\n", e.Rank, e.ID, e.Head, strings.Join(e.Referrers, "; "))
		}
		return nil
	},
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export plans to YAML or JSON",
	Long: `Export writes all plans (or the subset matching the retrieve filters) to
<archive dir>/index/export.yaml or export.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		opts := queryOptsFromFlags(cmd, args)
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(context.Background(), opts)
		case "json":
			path, err = store.ExportJSON(context.Background(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- delete subcommand ---

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <document>",
	Short: "Remove every plan of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Delete(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d plan(s) of %s\n", n, args[0])
		return nil
	},
}

// --- shared helpers ---

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return archive.NewStore(cfg.Archive)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	document, _ := cmd.Flags().GetString("document")
	entity, _ := cmd.Flags().GetString("entity")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return archive.QueryOptions{
		Query:      strings.Join(args, " "),
		Document:   document,
		Entity:     entity,
		MaxResults: maxResults,
	}
}

func init() {
	for _, c := range []*cobra.Command{archiveListCmd, archiveRetrieveCmd} {
		c.Flags().Int("max-results", 0, "maximum plans returned (default from config)")
		c.Flags().Bool("json", false, "print JSON instead of a table")
	}
	for _, c := range []*cobra.Command{archiveRetrieveCmd, archiveExportCmd} {
		c.Flags().String("document", "", "only plans of this document")
		c.Flags().String("entity", "", "only plans whose discourse model holds this entity ID")
	}
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	archiveCmd.AddCommand(archiveListCmd, archiveRetrieveCmd, archiveShowCmd, archiveExportCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}
