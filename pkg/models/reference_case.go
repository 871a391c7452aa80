package models

import "time"

// ReferenceCase is a single proven installation from the knowledge base.
// Free-text fields (influent characteristics, flow range) are kept verbatim
// from the source document and interpreted at scoring time.
type ReferenceCase struct {
	ID                        string     `json:"id,omitempty" db:"id"`
	ApplicationType           string     `json:"application_type" db:"application_type" validate:"required"`
	Description               string     `json:"description,omitempty" db:"description"`
	InfluentCharacteristics   string     `json:"influent_characteristics,omitempty" db:"influent_characteristics"`
	TypicalFlowRange          string     `json:"typical_flow_range,omitempty" db:"typical_flow_range"`
	RecommendedTreatmentTrain string     `json:"recommended_treatment_train,omitempty" db:"recommended_treatment_train"`
	LocalRegulations          string     `json:"local_regulations,omitempty" db:"local_regulations"`
	CreatedAt                 time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at,omitempty" db:"updated_at"`
	DeletedAt                 *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// KnowledgeBase is the on-disk document shape for file-backed corpora
type KnowledgeBase struct {
	Applications []ReferenceCase `json:"applications"`
}
