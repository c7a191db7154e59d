package content

import (
	"fmt"
	"strings"

	"github.com/srab2001/myteacher-sub005/internal/types"
)

// RetrievedChunk is the retrieval-layer view of a reference chunk: just
// what prompt assembly needs.
type RetrievedChunk struct {
	ID        string
	Text      string
	GradeBand types.GradeBand
}

// planTypeDisplayNames maps plan type codes to the full names used in
// role framing. Unknown codes fall through to the literal code.
var planTypeDisplayNames = map[types.PlanTypeCode]string{
	types.PlanTypeIEP:      "IEP (Individualized Education Program)",
	types.PlanType504:      "504 Plan",
	types.PlanTypeBehavior: "Behavior Intervention Plan",
}

// PlanTypeDisplayName returns the full display name for a plan type.
func PlanTypeDisplayName(planType types.PlanTypeCode) string {
	if name, ok := planTypeDisplayNames[planType]; ok {
		return name
	}
	return string(planType)
}

// draftClosingDirective is the fixed final line of every draft prompt.
const draftClosingDirective = "Respond with ONLY the content for this field. Do not include headers, labels, or explanations."

// DraftPromptInput carries everything the draft prompt needs. Chunks must
// be the exact set retrieved for this call; the builder never invents
// grounding.
type DraftPromptInput struct {
	PlanType        types.PlanTypeCode
	SectionTag      string
	FieldKey        string
	Chunks          []RetrievedChunk
	Student         *types.StudentContext
	UserInstruction string
}

// BuildDraftPrompt assembles the grounded field-draft prompt. Block order
// is fixed: role framing, student context, section/field header, numbered
// reference examples, optional user request, instruction list, closing
// directive.
func BuildDraftPrompt(in DraftPromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an experienced special education professional writing content for a %s.\n", PlanTypeDisplayName(in.PlanType))

	if in.Student != nil {
		var lines []string
		if in.Student.FirstName != "" {
			lines = append(lines, fmt.Sprintf("- Student: %s", in.Student.FirstName))
		}
		if in.Student.Grade != "" {
			lines = append(lines, fmt.Sprintf("- Grade: %s", in.Student.Grade))
		}
		if in.Student.NeedDescription != "" {
			lines = append(lines, fmt.Sprintf("- Identified needs: %s", in.Student.NeedDescription))
		}
		if len(lines) > 0 {
			b.WriteString("\nStudent context:\n")
			b.WriteString(strings.Join(lines, "\n"))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nSection: %s\nField: %s\n", humanize(in.SectionTag), humanize(in.FieldKey))

	b.WriteString("\nReference examples of high-quality content for this section:\n")
	for i, chunk := range in.Chunks {
		if chunk.GradeBand != "" {
			fmt.Fprintf(&b, "\nExample %d (grades %s):\n%s\n", i+1, chunk.GradeBand, chunk.Text)
		} else {
			fmt.Fprintf(&b, "\nExample %d:\n%s\n", i+1, chunk.Text)
		}
	}

	if in.UserInstruction != "" {
		fmt.Fprintf(&b, "\nSpecific request from the plan author:\n%s\n", in.UserInstruction)
	}

	b.WriteString(`
Write the content for the field above. Follow these rules:
1. Use a professional tone appropriate for a legal education document.
2. Match the style and format of the reference examples.
3. Be specific to the student's grade level where known.
4. Keep the content compliant with special education requirements.
5. Stay focused and actionable.

`)
	b.WriteString(draftClosingDirective)
	return b.String()
}

// humanize turns a tag or field key like "present_levels" into
// "Present Levels".
func humanize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
