package pipeline

import (
	"strings"
	"testing"

	"github.com/textops/ocrefine/internal"
)

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew_UnknownBackend(t *testing.T) {
	for _, backend := range []string{"dictionnary", "basic", "aspell"} {
		if _, err := New(Config{SpellBackend: backend}); err == nil {
			t.Errorf("New accepted backend %q, want error", backend)
		}
	}
}

func TestRefine_Hyphenation(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("guide- once system", nil)

	if report.RefinedText != "guidance system" {
		t.Errorf("got %q, want %q", report.RefinedText, "guidance system")
	}
	if report.OCRFixes != 1 {
		t.Errorf("ocr fixes = %d, want 1", report.OCRFixes)
	}
}

func TestRefine_SpacedEmailRestored(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("contact me at john@ exa mple. com today", nil)

	want := "contact me at john@example.com today"
	if report.RefinedText != want {
		t.Errorf("got %q, want %q", report.RefinedText, want)
	}
}

func TestRefine_ColonBeforeQuestionWord(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("The problems are: what vehicle and when", nil)

	want := "The problems are what vehicle and when"
	if report.RefinedText != want {
		t.Errorf("got %q, want %q", report.RefinedText, want)
	}
	if report.GrammarRefinements != 1 {
		t.Errorf("grammar refinements = %d, want 1", report.GrammarRefinements)
	}
}

func TestRefine_ActivityPairDash(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("relax - dream", nil)

	if report.RefinedText != "relax, dream" {
		t.Errorf("got %q, want %q", report.RefinedText, "relax, dream")
	}
}

func TestRefine_EntitySpanShieldsToken(t *testing.T) {
	p := newPipeline(t, Config{})
	entities := []internal.EntitySpan{{Text: "Atlantic", Type: "LOCATION", Score: 0.97}}
	report := p.Refine("Atlantic crossing", entities)

	if report.RefinedText != "Atlantic crossing" {
		t.Errorf("got %q, want %q", report.RefinedText, "Atlantic crossing")
	}
	if report.TotalImprovements != 0 {
		t.Errorf("total improvements = %d, want 0", report.TotalImprovements)
	}
	if len(report.EntitiesFound) != 1 || report.EntitiesFound[0] != "Atlantic" {
		t.Errorf("entities found = %v", report.EntitiesFound)
	}
}

func TestRefine_EmptyInput(t *testing.T) {
	p := newPipeline(t, Config{})

	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := p.Refine(tt.input, nil)
			if report.RefinedText != tt.input {
				t.Errorf("text changed: %q", report.RefinedText)
			}
			if report.TotalImprovements != 0 {
				t.Errorf("total improvements = %d, want 0", report.TotalImprovements)
			}
			if report.ProcessingNotes != "Empty text" {
				t.Errorf("notes = %q, want %q", report.ProcessingNotes, "Empty text")
			}
			if len(report.MethodsUsed) != 0 {
				t.Errorf("methods used = %v, want none", report.MethodsUsed)
			}
		})
	}
}

func TestRefine_CasingRule(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("TEH report", nil)

	if !strings.HasPrefix(report.RefinedText, "The ") {
		t.Errorf("all-caps correction not capitalized: %q", report.RefinedText)
	}
	if report.SpellCorrections != 1 {
		t.Errorf("spell corrections = %d, want 1", report.SpellCorrections)
	}
}

func TestRefine_MethodsUsedOrder(t *testing.T) {
	p := newPipeline(t, Config{})
	report := p.Refine("some simple text here", nil)

	want := []string{"ocr_artifacts", "dictionary", "grammar_flow"}
	if len(report.MethodsUsed) != len(want) {
		t.Fatalf("methods used = %v, want %v", report.MethodsUsed, want)
	}
	for i := range want {
		if report.MethodsUsed[i] != want[i] {
			t.Errorf("methods used = %v, want %v", report.MethodsUsed, want)
			break
		}
	}
}

func TestRefine_BasicBackend(t *testing.T) {
	p := newPipeline(t, Config{SpellBackend: BackendBasic})
	report := p.Refine("the morning report", nil)

	found := false
	for _, m := range report.MethodsUsed {
		if m == "basic_ocr" {
			found = true
		}
	}
	if !found {
		t.Errorf("methods used = %v, want basic_ocr present", report.MethodsUsed)
	}
}

func TestRefine_Determinism(t *testing.T) {
	p := newPipeline(t, Config{})
	input := "Teh guide- once system arrived 0n Monday. it was sent to john@ exa mple. com"

	first := p.Refine(input, nil)
	second := p.Refine(input, nil)

	if first.RefinedText != second.RefinedText {
		t.Errorf("non-deterministic output:\n%q\n%q", first.RefinedText, second.RefinedText)
	}
	if first.TotalImprovements != second.TotalImprovements {
		t.Errorf("non-deterministic counts: %d vs %d",
			first.TotalImprovements, second.TotalImprovements)
	}
}

func TestRefine_CounterConsistency(t *testing.T) {
	p := newPipeline(t, Config{})

	inputs := []string{
		"guide- once system",
		"Teh  report arrived 0n Monday.it was late",
		"The problems are: what vehicle and when",
		"relax - dream",
		"contact me at john@ exa mple. com today",
		"clean text with nothing to fix",
	}

	for _, input := range inputs {
		report := p.Refine(input, nil)
		sum := report.OCRFixes + report.SpellCorrections +
			report.GrammarRefinements + report.FlowImprovements
		if report.TotalImprovements != sum {
			t.Errorf("input %q: total = %d, sum of categories = %d",
				input, report.TotalImprovements, sum)
		}
	}
}

func TestRefine_NoPlaceholderLeak(t *testing.T) {
	p := newPipeline(t, Config{})

	inputs := []string{
		"visit https://example.com/path and mail info@example.org now",
		"see www.example.com,our site",
		"john@ exa mple. com and doma in.com together",
	}

	for _, input := range inputs {
		report := p.Refine(input, nil)
		if strings.Contains(report.RefinedText, "__PROTECTED") {
			t.Errorf("placeholder leaked for %q: %q", input, report.RefinedText)
		}
	}
}

func TestRefine_Lengths(t *testing.T) {
	p := newPipeline(t, Config{})
	input := "guide- once system"
	report := p.Refine(input, nil)

	if report.OriginalLength != len([]rune(input)) {
		t.Errorf("original length = %d, want %d", report.OriginalLength, len([]rune(input)))
	}
	if report.RefinedLength != len([]rune(report.RefinedText)) {
		t.Errorf("refined length = %d, want %d",
			report.RefinedLength, len([]rune(report.RefinedText)))
	}
}

func TestRunStage_PanicIsolated(t *testing.T) {
	p := newPipeline(t, Config{})
	res := p.runStage("spell", "original text", func(string) stageResult {
		panic("boom")
	})

	if res.text != "original text" {
		t.Errorf("failed stage must keep its input, got %q", res.text)
	}
	if res.method != "failed" {
		t.Errorf("method = %q, want failed", res.method)
	}
	if len(res.notes) != 1 || !strings.Contains(res.notes[0], "spell stage failed") {
		t.Errorf("notes = %v", res.notes)
	}
}

func TestMerge(t *testing.T) {
	parts := []internal.RefinementReport{
		{
			RefinedText:       "first part.",
			OCRFixes:          2,
			SpellCorrections:  1,
			TotalImprovements: 3,
			MethodsUsed:       []string{"ocr_artifacts", "dictionary"},
			EntitiesFound:     []string{"Atlantic"},
			OriginalLength:    12,
			RefinedLength:     11,
		},
		{
			RefinedText:        "second part.",
			GrammarRefinements: 1,
			FlowImprovements:   2,
			TotalImprovements:  3,
			MethodsUsed:        []string{"dictionary", "grammar_flow"},
			EntitiesFound:      []string{"Atlantic", "Pacific"},
			OriginalLength:     13,
			RefinedLength:      12,
		},
	}

	merged := Merge(parts)

	if merged.RefinedText != "first part.\n\nsecond part." {
		t.Errorf("merged text = %q", merged.RefinedText)
	}
	if merged.TotalImprovements != 6 {
		t.Errorf("total = %d, want 6", merged.TotalImprovements)
	}
	if merged.OCRFixes != 2 || merged.SpellCorrections != 1 ||
		merged.GrammarRefinements != 1 || merged.FlowImprovements != 2 {
		t.Errorf("category counts wrong: %+v", merged)
	}

	wantMethods := []string{"ocr_artifacts", "dictionary", "grammar_flow"}
	if len(merged.MethodsUsed) != len(wantMethods) {
		t.Fatalf("methods = %v, want %v", merged.MethodsUsed, wantMethods)
	}
	for i := range wantMethods {
		if merged.MethodsUsed[i] != wantMethods[i] {
			t.Errorf("methods = %v, want %v", merged.MethodsUsed, wantMethods)
			break
		}
	}

	if len(merged.EntitiesFound) != 2 {
		t.Errorf("entities = %v, want deduplicated pair", merged.EntitiesFound)
	}
}

func TestMerge_SinglePart(t *testing.T) {
	part := internal.RefinementReport{RefinedText: "only", TotalImprovements: 1}
	merged := Merge([]internal.RefinementReport{part})
	if merged.RefinedText != "only" || merged.TotalImprovements != 1 {
		t.Errorf("single-part merge altered the report: %+v", merged)
	}
}
