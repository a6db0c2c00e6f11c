package retention

import (
	"sync"

	"github.com/example/certtutor/pkg/models"
)

// MemoryStore is a simple in-memory implementation of the Store interface.
// Useful for development and testing before wiring the database-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]models.ConceptRecord // user id -> concept id -> record
	history []models.ReviewEvent
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]models.ConceptRecord),
	}
}

// Load returns the record for the pair, or (nil, nil) when absent
func (s *MemoryStore) Load(userID, conceptID string) (*models.ConceptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID][conceptID]
	if !ok {
		return nil, nil
	}
	snapshot := record
	return &snapshot, nil
}

// Save stores a copy of the record, creating or replacing the pair's entry
func (s *MemoryStore) Save(record *models.ConceptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byConcept, ok := s.records[record.UserID]
	if !ok {
		byConcept = make(map[string]models.ConceptRecord)
		s.records[record.UserID] = byConcept
	}
	byConcept[record.ConceptID] = *record
	return nil
}

// ListByUser returns snapshots of all records tracked for the user
func (s *MemoryStore) ListByUser(userID string) ([]models.ConceptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byConcept := s.records[userID]
	records := make([]models.ConceptRecord, 0, len(byConcept))
	for _, record := range byConcept {
		records = append(records, record)
	}
	return records, nil
}

// AppendHistory archives a review event
func (s *MemoryStore) AppendHistory(event *models.ReviewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, *event)
	return nil
}

// History returns snapshots of all archived review events for the user
func (s *MemoryStore) History(userID string) ([]models.ReviewEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.ReviewEvent, 0, len(s.history))
	for _, event := range s.history {
		if event.UserID == userID {
			events = append(events, event)
		}
	}
	return events, nil
}
