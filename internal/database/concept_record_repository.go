package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/certtutor/pkg/models"
)

// ConceptRecordRepository handles database operations for concept records
type ConceptRecordRepository struct{}

// NewConceptRecordRepository creates a new repository instance
func NewConceptRecordRepository() *ConceptRecordRepository {
	return &ConceptRecordRepository{}
}

// Load returns the record for a (user, concept) pair, or nil when absent
func (r *ConceptRecordRepository) Load(userID, conceptID string) (*models.ConceptRecord, error) {
	var record models.ConceptRecord
	err := DB.Get(&record,
		"SELECT * FROM concept_records WHERE user_id = $1 AND concept_id = $2",
		userID, conceptID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get concept record: %v", err)
	}
	return &record, nil
}

// Save creates or replaces the record for its (user, concept) pair
func (r *ConceptRecordRepository) Save(record *models.ConceptRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()

	query := `
		INSERT INTO concept_records (
			user_id, concept_id, strength, ease_factor, interval_days,
			due_at, last_reviewed_at, review_count, lapse_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT(user_id, concept_id) DO UPDATE SET
			strength = excluded.strength,
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			due_at = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			review_count = excluded.review_count,
			lapse_count = excluded.lapse_count,
			updated_at = excluded.updated_at
	`
	_, err := DB.Exec(query,
		record.UserID,
		record.ConceptID,
		record.Strength,
		record.EaseFactor,
		record.IntervalDays,
		record.DueAt,
		record.LastReviewedAt,
		record.ReviewCount,
		record.LapseCount,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save concept record: %v", err)
	}
	return nil
}

// ListByUser returns all records tracked for a user, earliest due first
func (r *ConceptRecordRepository) ListByUser(userID string) ([]models.ConceptRecord, error) {
	var records []models.ConceptRecord
	err := DB.Select(&records,
		"SELECT * FROM concept_records WHERE user_id = $1 ORDER BY due_at ASC, concept_id ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list concept records: %v", err)
	}
	return records, nil
}

// GetDueForUser returns records whose review is due at the given time
func (r *ConceptRecordRepository) GetDueForUser(userID string, now time.Time) ([]models.ConceptRecord, error) {
	var records []models.ConceptRecord
	err := DB.Select(&records,
		"SELECT * FROM concept_records WHERE user_id = $1 AND due_at <= $2 ORDER BY due_at ASC, strength ASC",
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due concept records: %v", err)
	}
	return records, nil
}

// CountByUser returns how many concepts a user tracks
func (r *ConceptRecordRepository) CountByUser(userID string) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM concept_records WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count concept records: %v", err)
	}
	return count, nil
}
