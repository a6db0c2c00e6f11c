package analytics

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

// SessionStore persists finished learning sessions
type SessionStore interface {
	Create(session *models.LearningSession) error
	Update(session *models.LearningSession) error
}

// StudyStats records study time against the user profile
type StudyStats interface {
	RecordStudyTime(userID string, minutes int, when time.Time) error
}

// SessionManager tracks active learning sessions and scores them on close.
// Active sessions live in memory; a session is persisted when it starts and
// finalized when it ends.
type SessionManager struct {
	store  SessionStore
	stats  StudyStats
	clock  retention.Clock
	logger *zap.Logger

	mu     sync.Mutex
	active map[string]*models.LearningSession
}

// NewSessionManager creates a session manager
func NewSessionManager(store SessionStore, stats StudyStats, clock retention.Clock, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		store:  store,
		stats:  stats,
		clock:  clock,
		logger: logger,
		active: make(map[string]*models.LearningSession),
	}
}

// Start opens a new learning session for the user and returns its id
func (m *SessionManager) Start(userID string) (*models.LearningSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	session := &models.LearningSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: m.clock.Now(),
	}
	if err := m.store.Create(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.active[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("learning session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)
	snapshot := *session
	return &snapshot, nil
}

// LogQuestion records one answered question in an active session
func (m *SessionManager) LogQuestion(sessionID, conceptID string, correct bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.active[sessionID]
	if !ok {
		return fmt.Errorf("no active session: %s", sessionID)
	}

	session.QuestionsAsked++
	if correct {
		session.QuestionsCorrect++
	}
	if conceptID != "" && !contains(session.ConceptsCovered, conceptID) {
		session.ConceptsCovered = append(session.ConceptsCovered, conceptID)
	}
	return nil
}

// End closes an active session, scores it, persists the result, and updates
// the user's streak and study time
func (m *SessionManager) End(sessionID string) (*models.LearningSession, error) {
	m.mu.Lock()
	session, ok := m.active[sessionID]
	if ok {
		delete(m.active, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no active session: %s", sessionID)
	}

	now := m.clock.Now()
	session.EndedAt = &now
	session.DurationMinutes = int(now.Sub(session.StartedAt).Minutes())
	session.EngagementScore = engagementScore(session)
	session.ComprehensionScore = comprehensionScore(session)

	if err := m.store.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	if err := m.stats.RecordStudyTime(session.UserID, session.DurationMinutes, now); err != nil {
		return nil, fmt.Errorf("failed to update study stats: %w", err)
	}

	m.logger.Info("learning session ended",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.Int("duration_minutes", session.DurationMinutes),
		zap.Float64("comprehension", session.ComprehensionScore),
	)
	snapshot := *session
	return &snapshot, nil
}

// engagementScore grows with activity during the sitting
func engagementScore(session *models.LearningSession) float64 {
	score := 0.5
	if session.QuestionsAsked > 0 {
		score += minFloat(0.3, float64(session.QuestionsAsked)*0.1)
	}
	score += minFloat(0.2, float64(len(session.ConceptsCovered))*0.05)
	return minFloat(1, score)
}

// comprehensionScore is the answer accuracy; sittings without questions get a
// neutral default
func comprehensionScore(session *models.LearningSession) float64 {
	if session.QuestionsAsked == 0 {
		return 0.7
	}
	return float64(session.QuestionsCorrect) / float64(session.QuestionsAsked)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
