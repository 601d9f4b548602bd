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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/textops/ocrefine/internal"
	"github.com/textops/ocrefine/internal/chunker"
	"github.com/textops/ocrefine/internal/logging"
	"github.com/textops/ocrefine/internal/markdown"
	"github.com/textops/ocrefine/internal/pipeline"
	"github.com/textops/ocrefine/internal/store"
)

var (
	refineInput    string
	refineOutput   string
	entitiesFile   string
	reportJSONFile string

	showReport bool
	noStore    bool
	noLangGate bool
	maxChars   int
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine raw OCR text",
	Long: `Refine raw OCR text through the fixed stage sequence:

  1. OCR artifact correction (hyphenation, glyph confusions, clipped words)
  2. Entity-aware spell correction (dictionary or basic_ocr backend)
  3. Grammar and flow normalization

URLs, emails, and bare domains are protected across all stages. Entity
spans produced by an external recognizer can be supplied as a JSON file
(--entities) to shield proper nouns from spell correction.

Refined results are cached in a local database keyed by the source text;
re-refining identical input is served from the cache unless --no-store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if refineOutput != "" && refineInput == refineOutput {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		data, err := os.ReadFile(refineInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text := string(data)

		logger := logging.New(verbose)
		defer logger.Sync()

		entities, err := loadEntities(entitiesFile)
		if err != nil {
			return err
		}

		ctx := context.Background()

		var db *store.Store
		var extraTerms []string
		dbPath := viper.GetString("db")
		if !noStore && dbPath != "" {
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			extraTerms, err = db.Terms(ctx)
			if err != nil {
				logger.Warn("failed to load protected terms", zap.Error(err))
				extraTerms = nil
			}
		}

		var report internal.RefinementReport
		reportID := ""
		cached := false

		if db != nil {
			if entry, found, cacheErr := db.GetCachedReport(ctx, text); cacheErr == nil && found {
				report = entry.Report
				reportID = entry.ID
				cached = true
				fmt.Fprintln(os.Stderr, "Using cached refinement")
			}
		}

		if !cached {
			p, err := pipeline.New(pipeline.Config{
				SpellBackend:        viper.GetString("spell_backend"),
				LanguageGate:        !noLangGate,
				ExtraProtectedTerms: extraTerms,
				Logger:              logger,
			})
			if err != nil {
				return err
			}

			chunks := chunker.Chunk(text, maxChars)
			parts := make([]internal.RefinementReport, 0, len(chunks))
			for _, chunk := range chunks {
				parts = append(parts, p.Refine(chunk, entities))
			}
			report = pipeline.Merge(parts)

			if db != nil {
				reportID, err = db.SaveReport(ctx, text, report)
				if err != nil {
					logger.Warn("failed to save report", zap.Error(err))
				}
			}
		}

		if refineOutput != "" {
			if err := os.MkdirAll(filepath.Dir(refineOutput), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(refineOutput, []byte(report.RefinedText), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		} else {
			fmt.Println(report.RefinedText)
		}

		if reportJSONFile != "" {
			encoded, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			if err := os.WriteFile(reportJSONFile, encoded, 0644); err != nil {
				return fmt.Errorf("failed to write report file: %w", err)
			}
		}

		if showReport {
			os.Stdout.Write(markdown.RenderReport(reportID, report))
		} else {
			fmt.Fprintf(os.Stderr, "Improvements: %d (ocr %d, spell %d, grammar %d, flow %d)\n",
				report.TotalImprovements, report.OCRFixes, report.SpellCorrections,
				report.GrammarRefinements, report.FlowImprovements)
		}
		return nil
	},
}

// loadEntities reads the recognizer's entity spans from a JSON file. An empty
// path means no entities.
func loadEntities(path string) ([]internal.EntitySpan, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entities file: %w", err)
	}
	var entities []internal.EntitySpan
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse entities file: %w", err)
	}
	return entities, nil
}

func init() {
	rootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringVarP(&refineInput, "input", "i", "", "Input file with raw OCR text (required)")
	refineCmd.Flags().StringVarP(&refineOutput, "output", "o", "", "Output file for refined text (default stdout)")
	refineCmd.Flags().StringVar(&entitiesFile, "entities", "", "JSON file with entity spans from the recognizer")

	refineCmd.Flags().String("db", "./data/ocrefine.db", "Database path for reports and protected terms")
	refineCmd.Flags().BoolVar(&noStore, "no-store", false, "Disable report caching and custom protected terms")
	refineCmd.Flags().String("spell-backend", pipeline.BackendDictionary, "Spell backend: dictionary or basic_ocr")
	refineCmd.Flags().BoolVar(&noLangGate, "no-lang-gate", false, "Run dictionary spell correction regardless of detected language")
	refineCmd.Flags().IntVar(&maxChars, "max-chars", 0, "Split input into chunks of at most this many characters (0 = no split)")

	refineCmd.Flags().BoolVar(&showReport, "report", false, "Print the full refinement report")
	refineCmd.Flags().StringVar(&reportJSONFile, "report-json", "", "Write the refinement report as JSON to this file")

	viper.BindPFlag("db", refineCmd.Flags().Lookup("db"))
	viper.BindPFlag("spell_backend", refineCmd.Flags().Lookup("spell-backend"))

	refineCmd.MarkFlagRequired("input")
}
