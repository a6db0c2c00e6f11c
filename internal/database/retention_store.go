package database

import "github.com/example/certtutor/pkg/models"

// RetentionStore backs the retention scheduler with the concept record and
// review history repositories. It satisfies retention.Store.
type RetentionStore struct {
	records *ConceptRecordRepository
	history *ReviewHistoryRepository
}

// NewRetentionStore creates the database-backed scheduler store
func NewRetentionStore() *RetentionStore {
	return &RetentionStore{
		records: NewConceptRecordRepository(),
		history: NewReviewHistoryRepository(),
	}
}

// Load returns the record for the pair, or (nil, nil) when absent
func (s *RetentionStore) Load(userID, conceptID string) (*models.ConceptRecord, error) {
	return s.records.Load(userID, conceptID)
}

// Save creates or replaces a single concept record
func (s *RetentionStore) Save(record *models.ConceptRecord) error {
	return s.records.Save(record)
}

// ListByUser returns all records tracked for the user
func (s *RetentionStore) ListByUser(userID string) ([]models.ConceptRecord, error) {
	return s.records.ListByUser(userID)
}

// AppendHistory archives a consumed review event
func (s *RetentionStore) AppendHistory(event *models.ReviewEvent) error {
	return s.history.Append(event)
}
