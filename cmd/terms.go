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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/textops/ocrefine/internal/store"
)

var termsDBPath string

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage user-defined protected terms",
	Long: `Add, list, and delete user-defined protected terms.

Protected terms are never altered by spell correction — useful for brand
names, product names, and domain vocabulary the dictionary would otherwise
"correct". They extend the built-in table of weekdays, months, continents,
and similar proper terms.`,
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all protected terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(termsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListTerms(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list terms: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No protected terms defined.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TERM\tADDED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.Term, e.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var termsAddCmd = &cobra.Command{
	Use:   "add <term>",
	Short: "Add a protected term",
	Long: `Add a term that spell correction must leave untouched.

Example:
  ocrefine terms add "Vortexa"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(termsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.AddTerm(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to add term: %w", err)
		}
		fmt.Printf("Added protected term: %q\n", args[0])
		return nil
	},
}

var termsDeleteCmd = &cobra.Command{
	Use:   "delete <term>",
	Short: "Delete a protected term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(termsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		deleted, err := db.DeleteTerm(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete term: %w", err)
		}
		if !deleted {
			fmt.Printf("No such term: %q\n", args[0])
			return nil
		}
		fmt.Printf("Deleted protected term: %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(termsCmd)

	termsCmd.PersistentFlags().StringVar(&termsDBPath, "db", "./data/ocrefine.db", "Database path")

	termsCmd.AddCommand(termsListCmd)
	termsCmd.AddCommand(termsAddCmd)
	termsCmd.AddCommand(termsDeleteCmd)
}
