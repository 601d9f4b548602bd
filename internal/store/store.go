// Package store persists refinement reports and user-defined protected
// terms in a local sqlite database. It is the external persistence
// collaborator of the pipeline; the pipeline itself never touches it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/textops/ocrefine/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS refinement_reports (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		refined_text TEXT NOT NULL,
		total_improvements INTEGER NOT NULL,
		ocr_fixes INTEGER NOT NULL,
		spell_corrections INTEGER NOT NULL,
		grammar_refinements INTEGER NOT NULL,
		flow_improvements INTEGER NOT NULL,
		methods_used TEXT,
		entities_found TEXT,
		processing_notes TEXT,
		original_length INTEGER NOT NULL,
		refined_length INTEGER NOT NULL,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text)
	);

	CREATE TABLE IF NOT EXISTS protected_terms (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL COLLATE NOCASE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(term)
	);

	CREATE INDEX IF NOT EXISTS idx_reports_lookup ON refinement_reports(source_text);
	CREATE INDEX IF NOT EXISTS idx_reports_last_used ON refinement_reports(last_used);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ReportEntry is a row from the refinement_reports table.
type ReportEntry struct {
	ID         string
	SourceText string
	Report     internal.RefinementReport
	UsageCount int
	LastUsed   time.Time
	CreatedAt  time.Time
}

// ReportStats summarises stored refinement activity.
type ReportStats struct {
	TotalReports       int
	TotalImprovements  int
	OCRFixes           int
	SpellCorrections   int
	GrammarRefinements int
	FlowImprovements   int
	TotalUsage         int
}

// SaveReport stores one refinement report keyed by its normalized source
// text and returns the report id. Re-refining the same source replaces the
// stored row.
func (s *Store) SaveReport(ctx context.Context, sourceText string, report internal.RefinementReport) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO refinement_reports
		 (id, source_text, refined_text, total_improvements, ocr_fixes, spell_corrections,
		  grammar_refinements, flow_improvements, methods_used, entities_found,
		  processing_notes, original_length, refined_length, usage_count, last_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, normalizeText(sourceText), report.RefinedText,
		report.TotalImprovements, report.OCRFixes, report.SpellCorrections,
		report.GrammarRefinements, report.FlowImprovements,
		strings.Join(report.MethodsUsed, ","), strings.Join(report.EntitiesFound, ","),
		report.ProcessingNotes, report.OriginalLength, report.RefinedLength,
		time.Now(), time.Now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetCachedReport returns a previously stored report for the same normalized
// source text, bumping its usage counter on a hit.
func (s *Store) GetCachedReport(ctx context.Context, sourceText string) (*ReportEntry, bool, error) {
	entry, err := s.scanReport(s.db.QueryRowContext(ctx,
		selectReport+` WHERE source_text = ?`, normalizeText(sourceText)))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE refinement_reports SET usage_count = usage_count + 1, last_used = ? WHERE id = ?`,
		time.Now(), entry.ID)

	return entry, true, err
}

// GetReport retrieves a report by id.
func (s *Store) GetReport(ctx context.Context, id string) (*ReportEntry, error) {
	entry, err := s.scanReport(s.db.QueryRowContext(ctx,
		selectReport+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	return entry, err
}

// ListReports returns all stored reports ordered by most recently used.
func (s *Store) ListReports(ctx context.Context) ([]ReportEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectReport+` ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ReportEntry
	for rows.Next() {
		entry, err := s.scanReport(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// ClearReports removes all stored reports and returns the number removed.
func (s *Store) ClearReports(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM refinement_reports`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns summary statistics over all stored reports.
func (s *Store) Stats(ctx context.Context) (*ReportStats, error) {
	stats := &ReportStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_improvements), 0),
			COALESCE(SUM(ocr_fixes), 0),
			COALESCE(SUM(spell_corrections), 0),
			COALESCE(SUM(grammar_refinements), 0),
			COALESCE(SUM(flow_improvements), 0),
			COALESCE(SUM(usage_count), 0)
		FROM refinement_reports`).Scan(
		&stats.TotalReports,
		&stats.TotalImprovements,
		&stats.OCRFixes,
		&stats.SpellCorrections,
		&stats.GrammarRefinements,
		&stats.FlowImprovements,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

const selectReport = `SELECT id, source_text, refined_text, total_improvements, ocr_fixes,
	spell_corrections, grammar_refinements, flow_improvements, methods_used,
	entities_found, processing_notes, original_length, refined_length,
	usage_count, last_used, created_at FROM refinement_reports`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanReport(row scanner) (*ReportEntry, error) {
	var e ReportEntry
	var methods, entities string
	err := row.Scan(&e.ID, &e.SourceText, &e.Report.RefinedText,
		&e.Report.TotalImprovements, &e.Report.OCRFixes, &e.Report.SpellCorrections,
		&e.Report.GrammarRefinements, &e.Report.FlowImprovements,
		&methods, &entities, &e.Report.ProcessingNotes,
		&e.Report.OriginalLength, &e.Report.RefinedLength,
		&e.UsageCount, &e.LastUsed, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Report.MethodsUsed = splitList(methods)
	e.Report.EntitiesFound = splitList(entities)
	return &e, nil
}

// TermEntry is a row from the protected_terms table.
type TermEntry struct {
	ID        string
	Term      string
	CreatedAt time.Time
}

// AddTerm inserts or replaces a user-defined protected term.
func (s *Store) AddTerm(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return fmt.Errorf("protected term must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO protected_terms (id, term) VALUES (?, ?)`,
		uuid.NewString(), normalizeText(term))
	return err
}

// ListTerms returns all user-defined protected terms in alphabetical order.
func (s *Store) ListTerms(ctx context.Context) ([]TermEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, term, created_at FROM protected_terms ORDER BY term`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TermEntry
	for rows.Next() {
		var e TermEntry
		if err := rows.Scan(&e.ID, &e.Term, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Terms returns the bare term strings, ready to hand to the pipeline.
func (s *Store) Terms(ctx context.Context) ([]string, error) {
	entries, err := s.ListTerms(ctx)
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, e.Term)
	}
	return terms, nil
}

// DeleteTerm removes a protected term by its exact text.
func (s *Store) DeleteTerm(ctx context.Context, term string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM protected_terms WHERE term = ?`, normalizeText(term))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
