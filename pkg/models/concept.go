package models

import "time"

// Concept is an atomic unit of taught material in the certification syllabus,
// tracked independently for retention.
type Concept struct {
	ID        string    `json:"id" db:"id"` // Stable identifier, e.g. "adm_phase_a_vision"
	Name      string    `json:"name" db:"name"`
	Summary   string    `json:"summary" db:"summary"`
	PartID    string    `json:"part_id" db:"part_id"` // Syllabus part the concept belongs to
	Level     string    `json:"level" db:"level"`     // Certification level, e.g. "foundation"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
