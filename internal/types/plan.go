package types

// PlanTypeCode identifies the plan family a student record belongs to.
// It is set at plan creation and never changes; every classification
// table downstream is keyed by it.
type PlanTypeCode string

const (
	PlanTypeIEP      PlanTypeCode = "IEP"
	PlanType504      PlanTypeCode = "504"
	PlanTypeBehavior PlanTypeCode = "behavior"
)

// GradeBand is a coarse grouping of grade levels used to pick
// age-appropriate reference material. Empty means "no band".
type GradeBand string

const (
	GradeBandK2  GradeBand = "K-2"
	GradeBand35  GradeBand = "3-5"
	GradeBand68  GradeBand = "6-8"
	GradeBand912 GradeBand = "9-12"
)

// StudentContext carries the optional student details a draft prompt may
// reference. Only fields that are present get emitted into the prompt.
type StudentContext struct {
	FirstName       string `json:"first_name,omitempty"`
	Grade           string `json:"grade,omitempty"`
	NeedDescription string `json:"need_description,omitempty"`
}

// GeneratedDraft is the result of one field-draft generation call.
// SourceChunkIDs lists exactly the reference chunks that grounded the
// text; it is never a superset of what was sent to the model.
type GeneratedDraft struct {
	Text           string   `json:"text"`
	SourceChunkIDs []string `json:"source_chunk_ids"`
	SectionTag     string   `json:"section_tag"`
}
