package models

import "time"

// ReviewEvent is an immutable record of one review attempt. It is created by
// the caller, consumed exactly once by the retention scheduler to update the
// matching ConceptRecord, and then archived in the review history.
type ReviewEvent struct {
	ID                     int64     `json:"id" db:"id"`
	UserID                 string    `json:"user_id" db:"user_id"`
	ConceptID              string    `json:"concept_id" db:"concept_id"`
	Timestamp              time.Time `json:"timestamp" db:"timestamp"`
	Correct                bool      `json:"correct" db:"correct"`
	ResponseLatencySeconds float64   `json:"response_latency_seconds" db:"response_latency_seconds"`
}
