// Package markdown renders refinement reports as markdown and converts that
// markdown to HTML for the reports command.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/textops/ocrefine/internal"
)

// RenderReport formats one refinement report as a markdown summary.
func RenderReport(id string, report internal.RefinementReport) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Refinement Report `%s`\n\n", id)
	fmt.Fprintf(&b, "- Total improvements: %d\n", report.TotalImprovements)
	fmt.Fprintf(&b, "- OCR fixes: %d\n", report.OCRFixes)
	fmt.Fprintf(&b, "- Spell corrections: %d\n", report.SpellCorrections)
	fmt.Fprintf(&b, "- Grammar refinements: %d\n", report.GrammarRefinements)
	fmt.Fprintf(&b, "- Flow improvements: %d\n", report.FlowImprovements)
	fmt.Fprintf(&b, "- Original length: %d\n", report.OriginalLength)
	fmt.Fprintf(&b, "- Refined length: %d\n", report.RefinedLength)

	if len(report.MethodsUsed) > 0 {
		fmt.Fprintf(&b, "- Methods: %s\n", strings.Join(report.MethodsUsed, ", "))
	}
	if len(report.EntitiesFound) > 0 {
		fmt.Fprintf(&b, "- Entities: %s\n", strings.Join(report.EntitiesFound, ", "))
	}
	if report.ProcessingNotes != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", report.ProcessingNotes)
	}

	if len(report.Corrections) > 0 {
		b.WriteString("\n## Corrections\n\n")
		for _, c := range report.Corrections {
			fmt.Fprintf(&b, "- [%s/%s] %q → %q at %d\n",
				c.Stage, c.Category, c.Original, c.Corrected, c.Position)
		}
	}

	fmt.Fprintf(&b, "\n## Refined text\n\n%s\n", report.RefinedText)

	return b.Bytes()
}

func ToHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

func ToPlainText(md []byte) string {
	htmlContent := ToHTML(md)
	return StripHTMLTags(htmlContent)
}

func StripHTMLTags(htmlContent string) string {
	var result bytes.Buffer
	inTag := false

	for _, ch := range htmlContent {
		switch ch {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				result.WriteRune(ch)
			}
		}
	}

	return result.String()
}
