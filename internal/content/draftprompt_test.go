package content

import (
	"strings"
	"testing"

	"github.com/srab2001/myteacher-sub005/internal/types"
)

func minimalDraftInput() DraftPromptInput {
	return DraftPromptInput{
		PlanType:   types.PlanTypeIEP,
		SectionTag: "present_levels",
		FieldKey:   "academic_performance",
		Chunks: []RetrievedChunk{
			{ID: "c1", Text: "Student demonstrates grade-level decoding skills."},
		},
	}
}

func TestDraftPromptAlwaysEndsWithClosingDirective(t *testing.T) {
	inputs := []DraftPromptInput{
		minimalDraftInput(),
		{
			PlanType:   types.PlanType504,
			SectionTag: "accommodations",
			FieldKey:   "testing_accommodations",
			Chunks: []RetrievedChunk{
				{ID: "a", Text: "Extended time on assessments.", GradeBand: types.GradeBand68},
				{ID: "b", Text: "Separate testing location."},
			},
			Student: &types.StudentContext{
				FirstName:       "Maya",
				Grade:           "7",
				NeedDescription: "ADHD, difficulty sustaining attention",
			},
			UserInstruction: "Focus on math assessments.",
		},
	}
	for _, in := range inputs {
		prompt := BuildDraftPrompt(in)
		if !strings.HasSuffix(prompt, draftClosingDirective) {
			t.Fatalf("prompt does not end with closing directive:\n...%s", prompt[len(prompt)-120:])
		}
	}
}

func TestDraftPromptRoleFramingUsesDisplayName(t *testing.T) {
	cases := []struct {
		planType types.PlanTypeCode
		want     string
	}{
		{types.PlanTypeIEP, "IEP (Individualized Education Program)"},
		{types.PlanType504, "504 Plan"},
		{types.PlanTypeBehavior, "Behavior Intervention Plan"},
		{types.PlanTypeCode("custom_plan"), "custom_plan"},
	}
	for _, tc := range cases {
		in := minimalDraftInput()
		in.PlanType = tc.planType
		prompt := BuildDraftPrompt(in)
		firstLine := strings.SplitN(prompt, "\n", 2)[0]
		if !strings.Contains(firstLine, tc.want) {
			t.Fatalf("plan type %s: role framing %q missing %q", tc.planType, firstLine, tc.want)
		}
	}
}

func TestDraftPromptSectionAndFieldHeader(t *testing.T) {
	prompt := BuildDraftPrompt(minimalDraftInput())
	if !strings.Contains(prompt, "Section: Present Levels") {
		t.Fatalf("missing humanized section header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Field: Academic Performance") {
		t.Fatalf("missing humanized field header:\n%s", prompt)
	}
}

func TestDraftPromptNumbersExamplesAndLabelsGradeBands(t *testing.T) {
	in := minimalDraftInput()
	in.Chunks = []RetrievedChunk{
		{ID: "a", Text: "First example text.", GradeBand: types.GradeBand35},
		{ID: "b", Text: "Second example text."},
	}
	prompt := BuildDraftPrompt(in)
	if !strings.Contains(prompt, "Example 1 (grades 3-5):\nFirst example text.") {
		t.Fatalf("missing banded example 1:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Example 2:\nSecond example text.") {
		t.Fatalf("missing unbanded example 2:\n%s", prompt)
	}
}

func TestDraftPromptOmitsAbsentOptionalBlocks(t *testing.T) {
	prompt := BuildDraftPrompt(minimalDraftInput())
	if strings.Contains(prompt, "Student context:") {
		t.Fatal("student block emitted with no student")
	}
	if strings.Contains(prompt, "Specific request") {
		t.Fatal("user request block emitted with no instruction")
	}

	in := minimalDraftInput()
	in.Student = &types.StudentContext{Grade: "4"}
	prompt = BuildDraftPrompt(in)
	if !strings.Contains(prompt, "- Grade: 4") {
		t.Fatalf("grade line missing:\n%s", prompt)
	}
	if strings.Contains(prompt, "- Student:") || strings.Contains(prompt, "Identified needs:") {
		t.Fatalf("absent student fields emitted:\n%s", prompt)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"present_levels":       "Present Levels",
		"goals_reading":        "Goals Reading",
		"academic_performance": "Academic Performance",
		"goals":                "Goals",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q): want %q got %q", in, want, got)
		}
	}
}
