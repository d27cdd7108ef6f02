package types

// FlagKind identifies a detected anomaly or qualification gap.
// Every kind the engine can emit is enumerated here so downstream
// consumers can switch exhaustively instead of matching ad hoc strings.
type FlagKind string

const (
	FlagMissingRequiredSkill   FlagKind = "missing_required_skill"
	FlagEmploymentGap          FlagKind = "employment_gap"
	FlagOverlappingClaim       FlagKind = "overlapping_claim"
	FlagDuplicateEntry         FlagKind = "duplicate_entry"
	FlagSuspiciousOpenRole     FlagKind = "suspicious_open_role"
	FlagExaggeratedClaim       FlagKind = "exaggerated_claim"
	FlagUnparsedDate           FlagKind = "unparsed_date"
	FlagScoringTimeout         FlagKind = "scoring_timeout"
	FlagDisparateImpactWarning FlagKind = "disparate_impact_warning"
	FlagInsufficientSample     FlagKind = "insufficient_sample"
)

// Flag is a typed, explainable annotation attached to a candidate or report.
type Flag struct {
	Kind   FlagKind `json:"kind"`
	Detail string   `json:"detail,omitempty"`
	Term   string   `json:"term,omitempty"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
	Days   int      `json:"days,omitempty"`
}

// TimelineEntry is one span of claimed experience. Dates are kept as the
// raw extracted strings; parsing happens during analysis so malformed
// input degrades to an unparsed_date flag instead of an error. An empty
// End (or "present"/"current") marks an ongoing role.
type TimelineEntry struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	SourceSpan   string `json:"source_span,omitempty"`
}

// SensitiveAttributes maps a redacted attribute name (e.g. "gender",
// "age_bracket") to the candidate's normalized group value. These values
// are only ever read by the fairness auditor, in aggregate.
type SensitiveAttributes map[string]string

// CandidateProfile is the structured input produced by the upstream
// feature extractor for one resume.
type CandidateProfile struct {
	ID        string              `json:"id"`
	Name      string              `json:"name,omitempty"`
	RawText   string              `json:"raw_text"`
	Skills    []string            `json:"skills"`
	Timeline  []TimelineEntry     `json:"timeline,omitempty"`
	Sensitive SensitiveAttributes `json:"sensitive,omitempty"`
}

// JobRequirement describes the position candidates are scored against.
// It is treated as immutable once scoring starts.
type JobRequirement struct {
	Description string   `json:"description" binding:"required"`
	MustHave    []string `json:"must_have"`
	NiceToHave  []string `json:"nice_to_have"`
}

// Coverage is the qualification matcher output for one candidate.
type Coverage struct {
	MustHaveScore   float64  `json:"must_have_score"`
	NiceToHaveScore float64  `json:"nice_to_have_score"`
	MatchedMustHave []string `json:"matched_must_have"`
	MissingMustHave []string `json:"missing_must_have"`
	MatchedNice     []string `json:"matched_nice"`
}

// ExplanationTerm is one contributing term of a composite score,
// sufficient to regenerate the score from its parts.
type ExplanationTerm struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// ScoredCandidate is the ranked, explainable result for one candidate.
type ScoredCandidate struct {
	CandidateID        string            `json:"candidate_id"`
	Name               string            `json:"name,omitempty"`
	Rank               int               `json:"rank"`
	SemanticScore      float64           `json:"semantic_score"`
	Coverage           Coverage          `json:"coverage"`
	TrendScore         float64           `json:"trend_score"`
	TrendSkills        []string          `json:"trend_skills,omitempty"`
	ConsistencyPenalty float64           `json:"consistency_penalty"`
	FinalScore         float64           `json:"final_score"`
	Flags              []Flag            `json:"flags"`
	Explanation        []ExplanationTerm `json:"explanation"`
}

// ExcludedCandidate records a profile that could not be scored. Excluded
// candidates are reported, never silently dropped.
type ExcludedCandidate struct {
	CandidateID string `json:"candidate_id"`
	Reason      string `json:"reason"`
}

// GroupStat is the per-group row of a fairness report.
type GroupStat struct {
	Group           string  `json:"group"`
	Total           int     `json:"total"`
	Selected        int     `json:"selected"`
	SelectionRate   float64 `json:"selection_rate"`
	DisparateImpact float64 `json:"disparate_impact"`
	Verdict         string  `json:"verdict"`
}

// FairnessReport holds advisory disparate-impact diagnostics over one
// ranked pool. It never changes the ranking itself.
type FairnessReport struct {
	Attribute      string      `json:"attribute"`
	TopK           int         `json:"top_k"`
	ReferenceGroup string      `json:"reference_group"`
	Groups         []GroupStat `json:"groups"`
	Flags          []Flag      `json:"flags"`
}

// WeightOverrides carries optional what-if weight replacements. Pointer
// fields distinguish "absent" from an explicit zero.
type WeightOverrides struct {
	Semantic    *float64 `json:"semantic_weight,omitempty"`
	MustHave    *float64 `json:"must_have_weight,omitempty"`
	NiceToHave  *float64 `json:"nice_to_have_weight,omitempty"`
	Trend       *float64 `json:"trend_weight,omitempty"`
	Consistency *float64 `json:"consistency_weight,omitempty"`
}

// ScreenRequest is the payload for the screen endpoint.
type ScreenRequest struct {
	SessionID         string             `json:"session_id"`
	Job               JobRequirement     `json:"job" binding:"required"`
	Profiles          []CandidateProfile `json:"profiles" binding:"required"`
	Weights           *WeightOverrides   `json:"weights,omitempty"`
	FairnessAttribute string             `json:"fairness_attribute,omitempty"`
	TopK              int                `json:"top_k,omitempty"`
}

// WhatIfRequest re-ranks a previously screened batch under new weights.
type WhatIfRequest struct {
	SessionID string          `json:"session_id" binding:"required"`
	Weights   WeightOverrides `json:"weights" binding:"required"`
}

// ExportRequest renders a previously screened batch as CSV.
type ExportRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ScreenResponse is the machine-readable contract consumed by the
// dashboard and export layers.
type ScreenResponse struct {
	SessionID  string              `json:"session_id"`
	Ranked     []ScoredCandidate   `json:"ranked"`
	Excluded   []ExcludedCandidate `json:"excluded"`
	Fairness   *FairnessReport     `json:"fairness,omitempty"`
	Flags      []Flag              `json:"flags,omitempty"`
	Incomplete bool                `json:"incomplete"`
}
