package models

import "time"

// ConceptRecord tracks a user's retention of a single concept using
// graduated-interval scheduling. One record exists per (user, concept) pair
// and is owned exclusively by the retention scheduler's storage.
type ConceptRecord struct {
	ID             int64     `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	ConceptID      string    `json:"concept_id" db:"concept_id"`
	Strength       float64   `json:"strength" db:"strength"`           // Estimated memory durability, never negative
	EaseFactor     float64   `json:"ease_factor" db:"ease_factor"`     // Interval growth multiplier, never below 1.3
	IntervalDays   float64   `json:"interval_days" db:"interval_days"` // Days until the next scheduled review
	DueAt          time.Time `json:"due_at" db:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	ReviewCount    int       `json:"review_count" db:"review_count"`
	LapseCount     int       `json:"lapse_count" db:"lapse_count"` // Number of incorrect reviews
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
