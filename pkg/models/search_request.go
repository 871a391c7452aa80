package models

// SearchRequest is the inbound payload for a reference search. ProjectData is
// intentionally loose: upstream intake agents produce uneven shapes, so the
// extractor treats every field as optional.
type SearchRequest struct {
	ProjectData    map[string]any `json:"project_data" validate:"required"`
	ClientMetadata map[string]any `json:"client_metadata,omitempty"`
	TopN           int            `json:"top_n,omitempty" validate:"omitempty,min=1,max=25"`
	ContextKey     string         `json:"context_key,omitempty"`
}
