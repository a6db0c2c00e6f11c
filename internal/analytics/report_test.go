package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/certtutor/internal/content"
	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type recordsStub struct{ records []models.ConceptRecord }

func (s *recordsStub) ListByUser(string) ([]models.ConceptRecord, error) { return s.records, nil }

type historyStub struct{ events []models.ReviewEvent }

func (s *historyStub) ListByUser(string) ([]models.ReviewEvent, error) { return s.events, nil }

type usersStub struct{ user *models.User }

func (s *usersStub) GetByID(string) (*models.User, error) { return s.user, nil }

func record(conceptID string, strength, interval float64, reviews int) models.ConceptRecord {
	return models.ConceptRecord{
		UserID:       "alice",
		ConceptID:    conceptID,
		Strength:     strength,
		IntervalDays: interval,
		ReviewCount:  reviews,
		EaseFactor:   2.5,
		DueAt:        t0,
	}
}

func TestReport_Metrics(t *testing.T) {
	records := &recordsStub{records: []models.ConceptRecord{
		record("togaf_framework", 4, 30, 8), // mature, fully learned
		record("adm_overview", 2, 5, 3),     // learning, halfway
		record("gap_analysis", 0, 0, 0),     // new
	}}
	history := &historyStub{events: []models.ReviewEvent{
		{UserID: "alice", ConceptID: "togaf_framework", Timestamp: t0, Correct: true},
		{UserID: "alice", ConceptID: "togaf_framework", Timestamp: t0, Correct: true},
		{UserID: "alice", ConceptID: "adm_overview", Timestamp: t0, Correct: true},
		{UserID: "alice", ConceptID: "adm_overview", Timestamp: t0, Correct: false},
	}}
	users := &usersStub{user: &models.User{ID: "alice", StreakDays: 15}}

	tracker := NewTracker(records, history, users, retention.DefaultParams(), nil)
	report, err := tracker.Report("alice")
	require.NoError(t, err)

	assert.Equal(t, 3, report.ConceptsTracked)
	assert.Equal(t, 1, report.ConceptsMature)
	assert.Equal(t, 1, report.ConceptsLearning)
	assert.Equal(t, 1, report.ConceptsNew)

	// Mastery: 1.0 + 0.5 + 0.0 over three concepts.
	assert.InDelta(t, 50.0, report.OverallCompletion, 1e-9)
	assert.InDelta(t, 0.5, report.StudyConsistency, 1e-9)
	assert.InDelta(t, 0.75, report.RetentionRate, 1e-9)
	assert.InDelta(t, 0.625, report.ExamReadiness, 1e-9)

	// Both partially learned concepts are gaps, worst first.
	require.Len(t, report.ImprovementFocus, 2)
	assert.Equal(t, "gap_analysis", report.ImprovementFocus[0])
	assert.Equal(t, "adm_overview", report.ImprovementFocus[1])
}

func TestReport_UnknownUser(t *testing.T) {
	tracker := NewTracker(&recordsStub{}, &historyStub{}, &usersStub{user: nil}, retention.DefaultParams(), nil)
	_, err := tracker.Report("nobody")
	assert.Error(t, err)
}

func TestReport_SuggestionsHonorPrerequisites(t *testing.T) {
	// Nothing tracked yet: only concepts from parts without prerequisites
	// should be suggested.
	tracker := NewTracker(&recordsStub{}, &historyStub{}, &usersStub{user: &models.User{ID: "alice"}}, retention.DefaultParams(), nil)
	report, err := tracker.Report("alice")
	require.NoError(t, err)

	intro, ok := content.FindPart(content.PartIntroduction)
	require.True(t, ok)
	introIDs := make(map[string]bool)
	for _, c := range intro.Concepts {
		introIDs[c.ID] = true
	}

	require.NotEmpty(t, report.SuggestedNext)
	for _, id := range report.SuggestedNext {
		assert.True(t, introIDs[id], "suggestion %s should come from the introduction part", id)
	}
}

func TestReport_SuggestionsUnlockAfterCoverage(t *testing.T) {
	// With the introduction part fully learned, ADM concepts open up.
	intro, ok := content.FindPart(content.PartIntroduction)
	require.True(t, ok)

	var records []models.ConceptRecord
	for _, c := range intro.Concepts {
		records = append(records, record(c.ID, 4, 30, 8))
	}
	tracker := NewTracker(&recordsStub{records: records}, &historyStub{}, &usersStub{user: &models.User{ID: "alice"}}, retention.DefaultParams(), nil)

	report, err := tracker.Report("alice")
	require.NoError(t, err)
	require.NotEmpty(t, report.SuggestedNext)
	assert.Equal(t, "adm_overview", report.SuggestedNext[0])
}

func TestInsightsFor(t *testing.T) {
	report := &Report{
		OverallCompletion: 82.5,
		StudyConsistency:  0.9,
		RetentionRate:     0.9,
		ExamReadiness:     0.86,
	}
	insights := InsightsFor(report)
	assert.Equal(t, "Excellent", insights.Consistency)
	assert.Equal(t, "Ready", insights.ReadinessStatus)
	assert.Contains(t, insights.Recommendation, "ready to take the exam")

	weak := &Report{StudyConsistency: 0.1}
	assert.Equal(t, "Focus on building a consistent daily study habit", InsightsFor(weak).Recommendation)
}
