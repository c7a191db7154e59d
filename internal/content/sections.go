package content

import (
	"strings"

	"github.com/srab2001/myteacher-sub005/internal/types"
)

// Section groups the editable field keys that share one topic bucket of
// reference material.
type Section struct {
	Tag    string
	Fields []string
}

// sectionTable is the static per-plan-type field classification. Lookup
// is a linear scan in declaration order, first match wins. A field key
// must appear under at most one section per plan type; the test suite
// enforces that so the resolver does not have to.
var sectionTable = map[types.PlanTypeCode][]Section{
	types.PlanTypeIEP: {
		{Tag: "present_levels", Fields: []string{
			"academic_performance", "functional_performance", "strengths",
			"parental_concerns", "evaluation_summary",
		}},
		{Tag: "goals_reading", Fields: []string{
			"reading_goal", "reading_objective", "reading_benchmark",
		}},
		{Tag: "goals_math", Fields: []string{
			"math_goal", "math_objective", "math_benchmark",
		}},
		{Tag: "goals_writing", Fields: []string{
			"writing_goal", "writing_objective", "writing_benchmark",
		}},
		{Tag: "goals_behavior", Fields: []string{
			"behavior_goal", "behavior_objective", "social_emotional_goal",
		}},
		{Tag: "services", Fields: []string{
			"special_education_services", "related_services", "service_minutes",
			"service_location",
		}},
		{Tag: "accommodations", Fields: []string{
			"classroom_accommodations", "testing_accommodations",
			"assistive_technology",
		}},
		{Tag: "transition", Fields: []string{
			"postsecondary_goals", "transition_services", "transition_assessment",
		}},
	},
	types.PlanType504: {
		{Tag: "disability_basis", Fields: []string{
			"disability_description", "major_life_activity", "evaluation_summary",
		}},
		{Tag: "accommodations", Fields: []string{
			"classroom_accommodations", "testing_accommodations",
			"environmental_accommodations", "medication_management",
		}},
		{Tag: "implementation", Fields: []string{
			"responsible_staff", "review_schedule", "parent_notice",
		}},
	},
	types.PlanTypeBehavior: {
		{Tag: "behavior_profile", Fields: []string{
			"target_behavior", "behavior_function", "antecedents", "setting_events",
		}},
		{Tag: "interventions", Fields: []string{
			"prevention_strategies", "replacement_behavior", "teaching_strategies",
			"reinforcement_plan",
		}},
		{Tag: "crisis_plan", Fields: []string{
			"deescalation_steps", "crisis_response", "safety_plan",
		}},
		{Tag: "progress_monitoring", Fields: []string{
			"data_collection", "review_criteria",
		}},
	},
}

// ResolveSection maps a field key to its section tag for the given plan
// type. ok is false when the field key is not classified; callers then
// fall back to their own section key, which is not an error.
func ResolveSection(planType types.PlanTypeCode, fieldKey string) (string, bool) {
	for _, section := range sectionTable[planType] {
		for _, f := range section.Fields {
			if f == fieldKey {
				return section.Tag, true
			}
		}
	}
	return "", false
}

// GenericSectionTag reduces a section tag to its topic prefix: the part
// before the first underscore ("goals_reading" to "goals"). A tag with
// no underscore is its own generic form. Retrieval falls back to this
// tag when the exact tag has no material.
func GenericSectionTag(tag string) string {
	if i := strings.IndexByte(tag, '_'); i > 0 {
		return tag[:i]
	}
	return tag
}

// SectionTags returns the section vocabulary for a plan type, in
// declaration order.
func SectionTags(planType types.PlanTypeCode) []string {
	sections := sectionTable[planType]
	tags := make([]string, 0, len(sections))
	for _, s := range sections {
		tags = append(tags, s.Tag)
	}
	return tags
}

// PlanTypes returns every plan type with a configured section table.
func PlanTypes() []types.PlanTypeCode {
	codes := make([]types.PlanTypeCode, 0, len(sectionTable))
	for code := range sectionTable {
		codes = append(codes, code)
	}
	return codes
}

// SectionsFor exposes the full table for one plan type so tests can
// verify the configuration itself.
func SectionsFor(planType types.PlanTypeCode) []Section {
	return sectionTable[planType]
}
