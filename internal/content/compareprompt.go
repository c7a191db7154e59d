package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/srab2001/myteacher-sub005/internal/types"
)

// PromptPart is one typed entry of a multimodal user message. Text parts
// are inlined; image parts are submitted as separate image inputs, never
// embedded as text.
type PromptPart struct {
	Kind      ArtifactKind
	Text      string
	ImageData []byte
	ImageMime string
}

// comparisonSystemPrompt pins the model to the two supplied artifacts.
// Baseline-then-compare framing is positional: the first document is the
// expected content, the second is what the student produced.
const comparisonSystemPrompt = `You are an experienced special education professional reviewing student work.
You will receive two documents. The FIRST document is the baseline: the expected or planned content. The SECOND document is the student-produced work being compared against that baseline.
Base every statement strictly on the two documents provided. Do not invent, assume, or fill in content that does not appear in them.
In your report, enumerate:
1. Matches: where the produced work aligns with the baseline.
2. Mismatches: where it diverges from the baseline.
3. Strengths demonstrated in the produced work.
4. Gaps or missing elements relative to the baseline.
5. Concrete next steps.`

// ComparisonInput describes one comparison request. Baseline and Compare
// each came out of the Document Extractor independently.
type ComparisonInput struct {
	StudentName  string
	PlanType     types.PlanTypeCode
	ArtifactDate time.Time
	Description  string
	Baseline     Artifact
	Compare      Artifact
}

// ComparisonPrompt is the assembled model call: a system instruction plus
// an ordered multimodal user message.
type ComparisonPrompt struct {
	System string
	Parts  []PromptPart
}

// BuildComparisonPrompt assembles the grounded comparison prompt. The
// user message is metadata header, then baseline content, then compare
// content, in that order.
func BuildComparisonPrompt(in ComparisonInput) ComparisonPrompt {
	var header strings.Builder
	fmt.Fprintf(&header, "Student: %s\n", in.StudentName)
	fmt.Fprintf(&header, "Plan type: %s\n", PlanTypeDisplayName(in.PlanType))
	fmt.Fprintf(&header, "Artifact date: %s\n", in.ArtifactDate.Format("2006-01-02"))
	if in.Description != "" {
		fmt.Fprintf(&header, "Description: %s\n", in.Description)
	}

	parts := []PromptPart{{Kind: ArtifactText, Text: header.String()}}
	parts = appendArtifact(parts, "Baseline document (expected content):", in.Baseline)
	parts = appendArtifact(parts, "Produced document (to compare):", in.Compare)

	return ComparisonPrompt{System: comparisonSystemPrompt, Parts: parts}
}

func appendArtifact(parts []PromptPart, label string, a Artifact) []PromptPart {
	switch a.Kind {
	case ArtifactImage:
		parts = append(parts, PromptPart{Kind: ArtifactText, Text: label + "\n"})
		parts = append(parts, PromptPart{Kind: ArtifactImage, ImageData: a.Bytes, ImageMime: a.MimeType})
	default:
		parts = append(parts, PromptPart{Kind: ArtifactText, Text: fmt.Sprintf("%s\n%s\n", label, a.Text)})
	}
	return parts
}
