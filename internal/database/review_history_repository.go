package database

import (
	"fmt"

	"github.com/example/certtutor/pkg/models"
)

// ReviewHistoryRepository handles the append-only archive of review events
type ReviewHistoryRepository struct{}

// NewReviewHistoryRepository creates a new repository instance
func NewReviewHistoryRepository() *ReviewHistoryRepository {
	return &ReviewHistoryRepository{}
}

// Append archives a review event. Events are never updated or deleted.
func (r *ReviewHistoryRepository) Append(event *models.ReviewEvent) error {
	query := `
		INSERT INTO review_history (
			user_id, concept_id, timestamp, correct, response_latency_seconds
		) VALUES ($1, $2, $3, $4, $5)
	`
	_, err := DB.Exec(query,
		event.UserID,
		event.ConceptID,
		event.Timestamp,
		event.Correct,
		event.ResponseLatencySeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to append review event: %v", err)
	}
	return nil
}

// ListByUser returns all archived review events for a user, oldest first
func (r *ReviewHistoryRepository) ListByUser(userID string) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	err := DB.Select(&events,
		"SELECT * FROM review_history WHERE user_id = $1 ORDER BY timestamp ASC, id ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review events: %v", err)
	}
	return events, nil
}

// ListByConcept returns a user's archived review events for one concept
func (r *ReviewHistoryRepository) ListByConcept(userID, conceptID string) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	err := DB.Select(&events,
		"SELECT * FROM review_history WHERE user_id = $1 AND concept_id = $2 ORDER BY timestamp ASC, id ASC",
		userID, conceptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review events: %v", err)
	}
	return events, nil
}
