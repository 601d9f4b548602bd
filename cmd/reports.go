/*
Copyright © 2026 The ocrefine authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/textops/ocrefine/internal/markdown"
	"github.com/textops/ocrefine/internal/store"
)

var reportsDBPath string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage stored refinement reports",
	Long:  `List, inspect, and clear the SQLite refinement report store.`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored refinement reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(reportsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListReports(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No stored reports.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tIMPROVEMENTS\tMETHODS\tUSED\tLAST USED\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\t%s\n",
				e.ID, e.Report.TotalImprovements,
				strings.Join(e.Report.MethodsUsed, ","),
				e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				snippetOf(e.SourceText, 40))
		}
		return w.Flush()
	},
}

// snippetOf shortens s for the list view, truncating on runes so a
// multibyte character is never cut mid-sequence.
func snippetOf(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

var (
	reportsShowHTML  bool
	reportsShowPlain bool
)

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one refinement report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(reportsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entry, err := db.GetReport(context.Background(), args[0])
		if err != nil {
			return err
		}

		md := markdown.RenderReport(entry.ID, entry.Report)
		switch {
		case reportsShowHTML:
			fmt.Print(markdown.ToHTML(md))
		case reportsShowPlain:
			fmt.Print(markdown.ToPlainText(md))
		default:
			os.Stdout.Write(md)
		}
		return nil
	},
}

var reportsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show refinement statistics across all stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(reportsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total reports:       %d\n", stats.TotalReports)
		fmt.Printf("Total improvements:  %d\n", stats.TotalImprovements)
		fmt.Printf("OCR fixes:           %d\n", stats.OCRFixes)
		fmt.Printf("Spell corrections:   %d\n", stats.SpellCorrections)
		fmt.Printf("Grammar refinements: %d\n", stats.GrammarRefinements)
		fmt.Printf("Flow improvements:   %d\n", stats.FlowImprovements)
		fmt.Printf("Cache usage:         %d\n", stats.TotalUsage)
		return nil
	},
}

var reportsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored refinement reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(reportsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearReports(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear reports: %w", err)
		}
		fmt.Printf("Cleared %d reports.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)

	reportsCmd.PersistentFlags().StringVar(&reportsDBPath, "db", "./data/ocrefine.db", "Database path")
	reportsShowCmd.Flags().BoolVar(&reportsShowHTML, "html", false, "Render the report as HTML")
	reportsShowCmd.Flags().BoolVar(&reportsShowPlain, "plain", false, "Render the report as plain text")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsStatsCmd)
	reportsCmd.AddCommand(reportsClearCmd)
}
