package models

import "time"

// LearningSession records one sitting of study activity for analytics.
// Unlike StudySession it is persisted once the sitting ends.
type LearningSession struct {
	ID                 string     `json:"id" db:"id"`
	UserID             string     `json:"user_id" db:"user_id"`
	StartedAt          time.Time  `json:"started_at" db:"started_at"`
	EndedAt            *time.Time `json:"ended_at" db:"ended_at"`
	DurationMinutes    int        `json:"duration_minutes" db:"duration_minutes"`
	QuestionsAsked     int        `json:"questions_asked" db:"questions_asked"`
	QuestionsCorrect   int        `json:"questions_correct" db:"questions_correct"`
	ConceptsCovered    []string   `json:"concepts_covered" db:"-"`
	EngagementScore    float64    `json:"engagement_score" db:"engagement_score"`
	ComprehensionScore float64    `json:"comprehension_score" db:"comprehension_score"`
	Notes              string     `json:"notes" db:"notes"`
}
