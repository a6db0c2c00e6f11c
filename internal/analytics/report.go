package analytics

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/example/certtutor/internal/content"
	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

// RecordSource reads a user's concept records
type RecordSource interface {
	ListByUser(userID string) ([]models.ConceptRecord, error)
}

// HistorySource reads a user's archived review events
type HistorySource interface {
	ListByUser(userID string) ([]models.ReviewEvent, error)
}

// UserSource reads user profiles
type UserSource interface {
	GetByID(id string) (*models.User, error)
}

// Report is a point-in-time summary of a user's learning progress.
type Report struct {
	UserID      string    `json:"user_id"`
	GeneratedAt time.Time `json:"generated_at"`

	// Overall progress metrics
	OverallCompletion float64 `json:"overall_completion"` // 0..100
	StudyConsistency  float64 `json:"study_consistency"`  // 0..1, from the daily streak
	RetentionRate     float64 `json:"retention_rate"`     // 0..1, correct share of all reviews
	ExamReadiness     float64 `json:"exam_readiness"`     // 0..1

	// Stage distribution
	ConceptsTracked  int `json:"concepts_tracked"`
	ConceptsNew      int `json:"concepts_new"`
	ConceptsLearning int `json:"concepts_learning"`
	ConceptsMature   int `json:"concepts_mature"`

	// Weak areas needing attention
	KnowledgeGaps    map[string]float64 `json:"knowledge_gaps"` // concept id -> gap score (0..1)
	ImprovementFocus []string           `json:"improvement_focus"`

	// Catalog concepts worth starting next, honoring part prerequisites
	SuggestedNext []string `json:"suggested_next"`
}

// Insights is the human-readable interpretation of a report.
type Insights struct {
	Progress        string `json:"progress"`
	Consistency     string `json:"consistency"`
	Retention       string `json:"retention"`
	ReadinessStatus string `json:"readiness_status"`
	Recommendation  string `json:"recommendation"`
}

// Tracker computes progress reports from scheduler state and review history.
type Tracker struct {
	records RecordSource
	history HistorySource
	users   UserSource
	params  retention.Params
	logger  *zap.Logger
}

// NewTracker creates a progress tracker
func NewTracker(records RecordSource, history HistorySource, users UserSource, params retention.Params, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		records: records,
		history: history,
		users:   users,
		params:  params,
		logger:  logger,
	}
}

// Report computes a fresh progress report for the user.
func (t *Tracker) Report(userID string) (*Report, error) {
	user, err := t.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %s", userID)
	}

	records, err := t.records.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concept records: %w", err)
	}
	events, err := t.history.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review history: %w", err)
	}

	report := &Report{
		UserID:        userID,
		GeneratedAt:   time.Now(),
		KnowledgeGaps: make(map[string]float64),
	}

	// Stage distribution and completion. A concept counts as fully learned
	// once its strength reaches the challenging threshold.
	var completionSum float64
	tracked := make(map[string]bool, len(records))
	for _, record := range records {
		tracked[record.ConceptID] = true
		mastery := record.Strength / t.params.ChallengingStrength
		if mastery > 1 {
			mastery = 1
		}
		completionSum += mastery

		switch stageFor(record, t.params) {
		case retention.StageNew:
			report.ConceptsNew++
		case retention.StageMature:
			report.ConceptsMature++
		default:
			report.ConceptsLearning++
		}

		if mastery < 0.7 {
			report.KnowledgeGaps[record.ConceptID] = 1 - mastery
		}
	}
	report.ConceptsTracked = len(records)
	if len(records) > 0 {
		report.OverallCompletion = completionSum / float64(len(records)) * 100
	}

	// Consistency: a 30-day streak counts as fully consistent.
	report.StudyConsistency = float64(user.StreakDays) / 30
	if report.StudyConsistency > 1 {
		report.StudyConsistency = 1
	}

	// Retention: the correct share of all archived reviews.
	if len(events) > 0 {
		correct := 0
		for _, event := range events {
			if event.Correct {
				correct++
			}
		}
		report.RetentionRate = float64(correct) / float64(len(events))
	}

	// Readiness blends how much is learned with how well it sticks.
	report.ExamReadiness = 0.5*report.OverallCompletion/100 + 0.5*report.RetentionRate

	report.ImprovementFocus = topGaps(report.KnowledgeGaps, 5)
	report.SuggestedNext = t.suggestNext(tracked, report.KnowledgeGaps, 5)

	t.logger.Debug("progress report computed",
		zap.String("user_id", userID),
		zap.Int("concepts_tracked", report.ConceptsTracked),
		zap.Float64("overall_completion", report.OverallCompletion),
	)
	return report, nil
}

// stageFor mirrors the scheduler's derived stage classification.
func stageFor(record models.ConceptRecord, params retention.Params) retention.Stage {
	switch {
	case record.ReviewCount == 0:
		return retention.StageNew
	case record.IntervalDays >= params.MatureIntervalDays:
		return retention.StageMature
	default:
		return retention.StageLearning
	}
}

// topGaps returns the concept ids with the largest gap scores.
func topGaps(gaps map[string]float64, limit int) []string {
	ids := make([]string, 0, len(gaps))
	for id := range gaps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if gaps[ids[i]] != gaps[ids[j]] {
			return gaps[ids[i]] > gaps[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// suggestNext proposes untracked catalog concepts from parts whose
// prerequisites are already mostly covered.
func (t *Tracker) suggestNext(tracked map[string]bool, gaps map[string]float64, limit int) []string {
	coveredParts := make(map[string]bool)
	for _, part := range content.Catalog() {
		covered := 0
		for _, c := range part.Concepts {
			if tracked[c.ID] && gaps[c.ID] == 0 {
				covered++
			}
		}
		coveredParts[part.ID] = covered >= (len(part.Concepts)+1)/2
	}

	var suggestions []string
	for _, part := range content.Catalog() {
		ready := true
		for _, prereq := range part.Prerequisites {
			if !coveredParts[prereq] {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		for _, c := range part.Concepts {
			if !tracked[c.ID] {
				suggestions = append(suggestions, c.ID)
				if len(suggestions) == limit {
					return suggestions
				}
			}
		}
	}
	return suggestions
}

// InsightsFor interprets a report into dashboard-ready text.
func InsightsFor(report *Report) Insights {
	return Insights{
		Progress:        fmt.Sprintf("%.1f%% of tracked concepts learned", report.OverallCompletion),
		Consistency:     interpretConsistency(report.StudyConsistency),
		Retention:       fmt.Sprintf("%.0f%% of reviews answered correctly", report.RetentionRate*100),
		ReadinessStatus: readinessStatus(report.ExamReadiness),
		Recommendation:  recommendation(report),
	}
}

func interpretConsistency(consistency float64) string {
	switch {
	case consistency >= 0.8:
		return "Excellent"
	case consistency >= 0.6:
		return "Good"
	case consistency >= 0.4:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

func readinessStatus(readiness float64) string {
	switch {
	case readiness >= 0.85:
		return "Ready"
	case readiness >= 0.7:
		return "Almost Ready"
	case readiness >= 0.5:
		return "Needs More Study"
	default:
		return "Not Ready"
	}
}

func recommendation(report *Report) string {
	switch {
	case report.StudyConsistency < 0.5:
		return "Focus on building a consistent daily study habit"
	case len(report.KnowledgeGaps) > 5:
		return "Review fundamentals before advancing to new topics"
	case report.ExamReadiness >= 0.85:
		return "You're ready to take the exam - schedule it soon"
	default:
		return "Continue with your current approach"
	}
}
