// Package pipeline runs the refinement stages in fixed order over one
// document: OCR artifact correction, entity-aware spell correction, then
// grammar and flow normalization. Each mutating stage runs with span
// protection so URLs and emails survive the regex passes, and each stage's
// failure is isolated: the stage is skipped, its input text is kept, and the
// pipeline continues.
//
// Refine holds no state beyond its call frame; independent documents may be
// refined concurrently on one Pipeline.
package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/textops/ocrefine/internal"
	"github.com/textops/ocrefine/internal/detector"
	"github.com/textops/ocrefine/internal/grammar"
	"github.com/textops/ocrefine/internal/ocrfix"
	"github.com/textops/ocrefine/internal/protect"
	"github.com/textops/ocrefine/internal/spell"
)

// Spell backend names accepted by Config.SpellBackend.
const (
	BackendDictionary = "dictionary"
	BackendBasic      = "basic_ocr"
)

// Config selects the spell backend and optional behavior. The zero value is
// a dictionary-backed pipeline with no language gate and a nop logger.
type Config struct {
	// SpellBackend is BackendDictionary (default) or BackendBasic; New
	// rejects any other value.
	SpellBackend string

	// LanguageGate skips dictionary spell correction for confidently
	// non-English text. Short or ambiguous texts pass through ungated.
	LanguageGate bool

	// ExtraProtectedTerms are user-defined terms merged with the static
	// protected-term table, matched case-insensitively.
	ExtraProtectedTerms []string

	// Logger receives stage-level debug lines. Nil means zap.NewNop().
	Logger *zap.Logger
}

// Pipeline is a reusable refinement engine. Safe for concurrent use.
type Pipeline struct {
	corrector *spell.Corrector
	gate      bool
	logger    *zap.Logger
}

func New(cfg Config) (*Pipeline, error) {
	var checker spell.Checker
	switch cfg.SpellBackend {
	case "", BackendDictionary:
		checker = spell.NewDictionaryChecker()
	case BackendBasic:
		checker = spell.NewBasicChecker()
	default:
		return nil, fmt.Errorf("unknown spell backend %q (valid: %s, %s)",
			cfg.SpellBackend, BackendDictionary, BackendBasic)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		corrector: spell.New(checker, cfg.ExtraProtectedTerms),
		gate:      cfg.LanguageGate,
		logger:    logger,
	}, nil
}

// stageResult is the delta one stage contributes to the report. Counters are
// applied only when the stage completes, so a failed stage never leaves
// partial counts behind.
type stageResult struct {
	text    string
	method  string
	ocr     int
	spell   int
	grammar int
	flow    int
	records []internal.CorrectionRecord
	notes   []string
}

// Refine runs the full pipeline over text. It never panics: worst case the
// returned text equals the input and the report's notes explain why.
func (p *Pipeline) Refine(text string, entities []internal.EntitySpan) internal.RefinementReport {
	report := internal.RefinementReport{
		RefinedText:    text,
		MethodsUsed:    []string{},
		EntitiesFound:  []string{},
		OriginalLength: utf8.RuneCountInString(text),
		RefinedLength:  utf8.RuneCountInString(text),
	}
	for _, e := range entities {
		report.EntitiesFound = append(report.EntitiesFound, e.Text)
	}

	if strings.TrimSpace(text) == "" {
		report.ProcessingNotes = "Empty text"
		return report
	}

	current := text
	var notes []string

	apply := func(res stageResult) {
		current = res.text
		if res.method != "" {
			report.MethodsUsed = append(report.MethodsUsed, res.method)
		}
		report.OCRFixes += res.ocr
		report.SpellCorrections += res.spell
		report.GrammarRefinements += res.grammar
		report.FlowImprovements += res.flow
		report.Corrections = append(report.Corrections, res.records...)
		notes = append(notes, res.notes...)
	}

	apply(p.runStage("ocr", current, p.ocrStage))
	apply(p.runStage("spell", current, func(t string) stageResult {
		return p.spellStage(t, entities)
	}))
	apply(p.runStage("grammar", current, p.grammarStage))

	report.RefinedText = current
	report.RefinedLength = utf8.RuneCountInString(current)
	report.TotalImprovements = report.OCRFixes + report.SpellCorrections +
		report.GrammarRefinements + report.FlowImprovements
	report.ProcessingNotes = strings.Join(notes, "; ")

	p.logger.Debug("document refined",
		zap.Int("improvements", report.TotalImprovements),
		zap.Int("original_length", report.OriginalLength),
		zap.Int("refined_length", report.RefinedLength))

	return report
}

// runStage executes fn over text, converting a panic into a skipped stage
// whose input text is retained.
func (p *Pipeline) runStage(name, text string, fn func(string) stageResult) stageResult {
	var res stageResult
	failed := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				failed = true
				p.logger.Warn("stage failed",
					zap.String("stage", name),
					zap.Any("cause", r))
			}
		}()
		res = fn(text)
	}()

	if failed {
		return stageResult{
			text:   text,
			method: "failed",
			notes:  []string{fmt.Sprintf("%s stage failed; text passed through unchanged", name)},
		}
	}
	return res
}

func (p *Pipeline) ocrStage(text string) stageResult {
	protected, spans := protect.Protect(text)

	out, hyphens := ocrfix.FixHyphenation(protected)
	out, confusions := ocrfix.FixCharacterConfusions(out)
	out, trailing := ocrfix.RemoveTrailingArtifacts(out)

	return stageResult{
		text:   protect.Restore(out, spans, nil),
		method: "ocr_artifacts",
		ocr:    hyphens + confusions + trailing,
	}
}

func (p *Pipeline) spellStage(text string, entities []internal.EntitySpan) stageResult {
	if p.gate && p.corrector.Method() == BackendDictionary {
		if english, determined := detector.Shared().IsEnglish(text); determined && !english {
			return stageResult{
				text:  text,
				notes: []string{"non-English text; spell correction skipped"},
			}
		}
	}

	protected, spans := protect.Protect(text)
	out, records, total := p.corrector.Correct(protected, entities)

	return stageResult{
		text:    protect.Restore(out, spans, nil),
		method:  p.corrector.Method(),
		spell:   total,
		records: records,
	}
}

func (p *Pipeline) grammarStage(text string) stageResult {
	protected, spans := protect.Protect(text)
	res := grammar.Normalize(protected)

	// Restored spans get only the internal-spacing fixer, never the
	// generic spacing rules that just ran over the protected text.
	return stageResult{
		text:    protect.Restore(res.Text, spans, protect.StripInnerSpaces),
		method:  "grammar_flow",
		grammar: res.Grammar,
		flow:    res.Flow,
		records: res.Records,
	}
}

// Merge combines the reports of sequentially refined chunks of one oversized
// document into a single report. Chunk texts are rejoined with a blank line;
// counters and lengths are summed, methods and entities deduplicated in
// first-seen order.
func Merge(parts []internal.RefinementReport) internal.RefinementReport {
	if len(parts) == 0 {
		return internal.RefinementReport{
			MethodsUsed:     []string{},
			EntitiesFound:   []string{},
			ProcessingNotes: "Empty text",
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}

	merged := internal.RefinementReport{
		MethodsUsed:   []string{},
		EntitiesFound: []string{},
	}
	texts := make([]string, 0, len(parts))
	seenMethods := make(map[string]struct{})
	seenEntities := make(map[string]struct{})
	var notes []string

	for _, part := range parts {
		texts = append(texts, part.RefinedText)
		merged.OCRFixes += part.OCRFixes
		merged.SpellCorrections += part.SpellCorrections
		merged.GrammarRefinements += part.GrammarRefinements
		merged.FlowImprovements += part.FlowImprovements
		merged.OriginalLength += part.OriginalLength

		for _, m := range part.MethodsUsed {
			if _, ok := seenMethods[m]; !ok {
				seenMethods[m] = struct{}{}
				merged.MethodsUsed = append(merged.MethodsUsed, m)
			}
		}
		for _, e := range part.EntitiesFound {
			if _, ok := seenEntities[e]; !ok {
				seenEntities[e] = struct{}{}
				merged.EntitiesFound = append(merged.EntitiesFound, e)
			}
		}
		for _, rec := range part.Corrections {
			if len(merged.Corrections) >= internal.MaxCorrectionRecords {
				break
			}
			merged.Corrections = append(merged.Corrections, rec)
		}
		if part.ProcessingNotes != "" {
			notes = append(notes, part.ProcessingNotes)
		}
	}

	merged.RefinedText = strings.Join(texts, "\n\n")
	merged.RefinedLength = utf8.RuneCountInString(merged.RefinedText)
	merged.TotalImprovements = merged.OCRFixes + merged.SpellCorrections +
		merged.GrammarRefinements + merged.FlowImprovements
	merged.ProcessingNotes = strings.Join(notes, "; ")

	return merged
}
