package models

import "time"

// User represents a learner working toward a certification
type User struct {
	ID                  string     `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	ExperienceLevel     string     `json:"experience_level" db:"experience_level"`         // "beginner", "intermediate", "advanced", "expert"
	TargetCertification string     `json:"target_certification" db:"target_certification"` // e.g. "foundation"
	DailyReviewGoal     int        `json:"daily_review_goal" db:"daily_review_goal"`
	ReminderEnabled     bool       `json:"reminder_enabled" db:"reminder_enabled"`
	StreakDays          int        `json:"streak_days" db:"streak_days"`
	TotalStudyMinutes   int        `json:"total_study_minutes" db:"total_study_minutes"`
	LastStudiedAt       *time.Time `json:"last_studied_at" db:"last_studied_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
