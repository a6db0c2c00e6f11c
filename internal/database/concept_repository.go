package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/certtutor/pkg/models"
)

// ConceptRepository handles database operations for the concept catalog
type ConceptRepository struct{}

// NewConceptRepository creates a new repository instance
func NewConceptRepository() *ConceptRepository {
	return &ConceptRepository{}
}

// Upsert creates or refreshes a catalog concept
func (r *ConceptRepository) Upsert(concept *models.Concept) error {
	if concept.CreatedAt.IsZero() {
		concept.CreatedAt = time.Now()
	}
	concept.UpdatedAt = time.Now()

	query := `
		INSERT INTO concepts (id, name, summary, part_id, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			summary = excluded.summary,
			part_id = excluded.part_id,
			level = excluded.level,
			updated_at = excluded.updated_at
	`
	_, err := DB.Exec(query,
		concept.ID,
		concept.Name,
		concept.Summary,
		concept.PartID,
		concept.Level,
		concept.CreatedAt,
		concept.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert concept: %v", err)
	}
	return nil
}

// GetByID returns a concept by id, or nil when absent
func (r *ConceptRepository) GetByID(id string) (*models.Concept, error) {
	var concept models.Concept
	err := DB.Get(&concept, "SELECT * FROM concepts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get concept: %v", err)
	}
	return &concept, nil
}

// GetByPart returns all concepts belonging to a syllabus part
func (r *ConceptRepository) GetByPart(partID string) ([]models.Concept, error) {
	var concepts []models.Concept
	err := DB.Select(&concepts, "SELECT * FROM concepts WHERE part_id = $1 ORDER BY id ASC", partID)
	if err != nil {
		return nil, fmt.Errorf("failed to get concepts by part: %v", err)
	}
	return concepts, nil
}

// GetAll returns the full concept catalog
func (r *ConceptRepository) GetAll() ([]models.Concept, error) {
	var concepts []models.Concept
	err := DB.Select(&concepts, "SELECT * FROM concepts ORDER BY part_id ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get concepts: %v", err)
	}
	return concepts, nil
}
