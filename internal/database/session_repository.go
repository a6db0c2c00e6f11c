package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/certtutor/pkg/models"
)

// SessionRepository handles database operations for learning sessions
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// sessionRow mirrors the learning_sessions table; concepts are stored joined
type sessionRow struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	StartedAt          time.Time  `db:"started_at"`
	EndedAt            *time.Time `db:"ended_at"`
	DurationMinutes    int        `db:"duration_minutes"`
	QuestionsAsked     int        `db:"questions_asked"`
	QuestionsCorrect   int        `db:"questions_correct"`
	ConceptsCovered    string     `db:"concepts_covered"`
	EngagementScore    float64    `db:"engagement_score"`
	ComprehensionScore float64    `db:"comprehension_score"`
	Notes              string     `db:"notes"`
}

func (row *sessionRow) toModel() *models.LearningSession {
	session := &models.LearningSession{
		ID:                 row.ID,
		UserID:             row.UserID,
		StartedAt:          row.StartedAt,
		EndedAt:            row.EndedAt,
		DurationMinutes:    row.DurationMinutes,
		QuestionsAsked:     row.QuestionsAsked,
		QuestionsCorrect:   row.QuestionsCorrect,
		EngagementScore:    row.EngagementScore,
		ComprehensionScore: row.ComprehensionScore,
		Notes:              row.Notes,
	}
	if row.ConceptsCovered != "" {
		session.ConceptsCovered = strings.Split(row.ConceptsCovered, ",")
	}
	return session
}

// Create inserts a new learning session
func (r *SessionRepository) Create(session *models.LearningSession) error {
	query := `
		INSERT INTO learning_sessions (
			id, user_id, started_at, ended_at, duration_minutes,
			questions_asked, questions_correct, concepts_covered,
			engagement_score, comprehension_score, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := DB.Exec(query,
		session.ID,
		session.UserID,
		session.StartedAt,
		session.EndedAt,
		session.DurationMinutes,
		session.QuestionsAsked,
		session.QuestionsCorrect,
		strings.Join(session.ConceptsCovered, ","),
		session.EngagementScore,
		session.ComprehensionScore,
		session.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create learning session: %v", err)
	}
	return nil
}

// Update modifies an existing learning session
func (r *SessionRepository) Update(session *models.LearningSession) error {
	query := `
		UPDATE learning_sessions SET
			ended_at = $1,
			duration_minutes = $2,
			questions_asked = $3,
			questions_correct = $4,
			concepts_covered = $5,
			engagement_score = $6,
			comprehension_score = $7,
			notes = $8
		WHERE id = $9
	`
	result, err := DB.Exec(query,
		session.EndedAt,
		session.DurationMinutes,
		session.QuestionsAsked,
		session.QuestionsCorrect,
		strings.Join(session.ConceptsCovered, ","),
		session.EngagementScore,
		session.ComprehensionScore,
		session.Notes,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update learning session: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("learning session not found")
	}
	return nil
}

// GetByID returns a learning session by id, or nil when absent
func (r *SessionRepository) GetByID(id string) (*models.LearningSession, error) {
	var row sessionRow
	err := DB.Get(&row, "SELECT * FROM learning_sessions WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning session: %v", err)
	}
	return row.toModel(), nil
}

// ListByUser returns a user's learning sessions, most recent first
func (r *SessionRepository) ListByUser(userID string) ([]models.LearningSession, error) {
	var rows []sessionRow
	err := DB.Select(&rows,
		"SELECT * FROM learning_sessions WHERE user_id = $1 ORDER BY started_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning sessions: %v", err)
	}
	sessions := make([]models.LearningSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, *rows[i].toModel())
	}
	return sessions, nil
}
