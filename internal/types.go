package internal

// EntitySpan is a named-entity occurrence supplied by an external recognizer.
// The pipeline reads it to shield proper nouns from spell correction and
// never mutates it.
type EntitySpan struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// CorrectionRecord is one audited change made by a pipeline stage.
type CorrectionRecord struct {
	Stage     string `json:"stage"`
	Position  int    `json:"position"`
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Category  string `json:"category"`
}

// MaxCorrectionRecords caps the audit trail retained per stage. Corrections
// beyond the cap still count toward the per-category totals.
const MaxCorrectionRecords = 10

// RefinementReport is the output of one pipeline run over one document.
type RefinementReport struct {
	RefinedText        string             `json:"refined_text"`
	TotalImprovements  int                `json:"total_improvements"`
	OCRFixes           int                `json:"ocr_fixes"`
	SpellCorrections   int                `json:"spell_corrections"`
	GrammarRefinements int                `json:"grammar_refinements"`
	FlowImprovements   int                `json:"flow_improvements"`
	MethodsUsed        []string           `json:"methods_used"`
	EntitiesFound      []string           `json:"entities_found"`
	Corrections        []CorrectionRecord `json:"corrections,omitempty"`
	ProcessingNotes    string             `json:"processing_notes"`
	OriginalLength     int                `json:"original_length"`
	RefinedLength      int                `json:"refined_length"`
}
