package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/certtutor/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.DailyReviewGoal <= 0 {
		user.DailyReviewGoal = 10
	}

	query := `
		INSERT INTO users (
			id, name, experience_level, target_certification, daily_review_goal,
			reminder_enabled, streak_days, total_study_minutes, last_studied_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := DB.Exec(query,
		user.ID,
		user.Name,
		user.ExperienceLevel,
		user.TargetCertification,
		user.DailyReviewGoal,
		user.ReminderEnabled,
		user.StreakDays,
		user.TotalStudyMinutes,
		user.LastStudiedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// GetByID returns a user by id, or nil when absent
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// GetRemindable returns users who opted into review reminders
func (r *UserRepository) GetRemindable() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users WHERE reminder_enabled = true ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get remindable users: %v", err)
	}
	return users, nil
}

// Update modifies an existing user
func (r *UserRepository) Update(user *models.User) error {
	user.UpdatedAt = time.Now()
	query := `
		UPDATE users SET
			name = $1,
			experience_level = $2,
			target_certification = $3,
			daily_review_goal = $4,
			reminder_enabled = $5,
			streak_days = $6,
			total_study_minutes = $7,
			last_studied_at = $8,
			updated_at = $9
		WHERE id = $10
	`
	result, err := DB.Exec(query,
		user.Name,
		user.ExperienceLevel,
		user.TargetCertification,
		user.DailyReviewGoal,
		user.ReminderEnabled,
		user.StreakDays,
		user.TotalStudyMinutes,
		user.LastStudiedAt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// RecordStudyTime adds study minutes and maintains the daily streak: a sitting
// on the day after the previous one extends the streak, the same day leaves it
// unchanged, anything later restarts it at 1.
func (r *UserRepository) RecordStudyTime(userID string, minutes int, when time.Time) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	day := when.Truncate(24 * time.Hour)
	switch {
	case user.LastStudiedAt == nil:
		user.StreakDays = 1
	case user.LastStudiedAt.Truncate(24 * time.Hour).Equal(day):
		// Same day, streak unchanged.
	case user.LastStudiedAt.Truncate(24 * time.Hour).Equal(day.AddDate(0, 0, -1)):
		user.StreakDays++
	default:
		user.StreakDays = 1
	}

	user.TotalStudyMinutes += minutes
	user.LastStudiedAt = &when
	return r.Update(user)
}
