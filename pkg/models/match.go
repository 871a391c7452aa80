package models

// MatchScore is the scored evaluation of one reference case against a user
// context. Explanation carries at most the top contributing reasons.
type MatchScore struct {
	Case             *ReferenceCase `json:"-"`
	SemanticScore    float64        `json:"semantic_score"`
	ContaminantScore float64        `json:"contaminant_score"`
	FlowScore        float64        `json:"flow_score"`
	TotalScore       float64        `json:"total_score"`
	Explanation      []string       `json:"explanation"`
}

// SimilarCase is the serialized form of a matched reference case
type SimilarCase struct {
	ApplicationType string   `json:"application_type"`
	FlowRange       string   `json:"flow_range"`
	Contaminants    string   `json:"contaminants"`
	TreatmentTrain  string   `json:"treatment_train"`
	WhyRelevant     []string `json:"why_relevant"`
	RegulatoryNotes string   `json:"regulatory_notes,omitempty"`
}

// SearchProfile echoes back the profile the matcher searched with
type SearchProfile struct {
	Sector              string   `json:"sector"`
	Subsector           string   `json:"subsector"`
	Contaminants        []string `json:"contaminants"`
	UserFlow            *float64 `json:"user_flow"`
	TotalCasesEvaluated int      `json:"total_cases_evaluated"`
}

// MatchResult is the full response of a reference search. Status is empty on
// success and "fallback" when the matcher degraded instead of failing.
type MatchResult struct {
	SimilarCases  []SimilarCase  `json:"similar_cases"`
	UserSector    string         `json:"user_sector"`
	UserSubsector string         `json:"user_subsector"`
	TotalFound    int            `json:"total_found"`
	SearchProfile *SearchProfile `json:"search_profile,omitempty"`
	Message       string         `json:"message,omitempty"`
	Status        string         `json:"status,omitempty"`
}

// Match event types
const (
	EventMatchCompleted = "reference.match_completed"
	EventMatchFallback  = "reference.match_fallback"
)

// MatchEvent is published after every completed search
type MatchEvent struct {
	Type           string   `json:"type"`
	RequestID      string   `json:"request_id"`
	Sector         string   `json:"sector"`
	Subsector      string   `json:"subsector"`
	Contaminants   []string `json:"contaminants"`
	UserFlow       *float64 `json:"user_flow,omitempty"`
	TotalFound     int      `json:"total_found"`
	Status         string   `json:"status,omitempty"`
	CasesEvaluated int      `json:"cases_evaluated"`
	DurationMs     int64    `json:"duration_ms"`
	Timestamp      string   `json:"timestamp"`
}
