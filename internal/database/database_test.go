package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/certtutor/pkg/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Open("sqlite3", ":memory:"))
	t.Cleanup(func() {
		require.NoError(t, Close())
	})
}

func TestConceptRecordRepository_SaveAndLoad(t *testing.T) {
	setupDB(t)
	repo := NewConceptRecordRepository()

	absent, err := repo.Load("alice", "c1")
	require.NoError(t, err)
	assert.Nil(t, absent, "missing pairs load as nil, not an error")

	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	record := &models.ConceptRecord{
		UserID:         "alice",
		ConceptID:      "c1",
		Strength:       1.5,
		EaseFactor:     2.55,
		IntervalDays:   3,
		DueAt:          due,
		LastReviewedAt: due.AddDate(0, 0, -3),
		ReviewCount:    2,
		LapseCount:     0,
	}
	require.NoError(t, repo.Save(record))

	loaded, err := repo.Load("alice", "c1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 1.5, loaded.Strength)
	assert.Equal(t, 2.55, loaded.EaseFactor)
	assert.Equal(t, 3.0, loaded.IntervalDays)
	assert.Equal(t, 2, loaded.ReviewCount)

	// Saving the same pair again replaces, not duplicates.
	record.Strength = 2.5
	record.ReviewCount = 3
	require.NoError(t, repo.Save(record))

	count, err := repo.CountByUser("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	loaded, err = repo.Load("alice", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, loaded.Strength)
	assert.Equal(t, 3, loaded.ReviewCount)
}

func TestConceptRecordRepository_ListAndDue(t *testing.T) {
	setupDB(t)
	repo := NewConceptRecordRepository()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, conceptID := range []string{"c1", "c2", "c3"} {
		require.NoError(t, repo.Save(&models.ConceptRecord{
			UserID:         "alice",
			ConceptID:      conceptID,
			EaseFactor:     2.5,
			DueAt:          now.AddDate(0, 0, i-1), // c1 overdue, c2 due now, c3 tomorrow
			LastReviewedAt: now,
		}))
	}
	// Another user's records must not leak in.
	require.NoError(t, repo.Save(&models.ConceptRecord{
		UserID: "bob", ConceptID: "c1", EaseFactor: 2.5,
		DueAt: now.AddDate(0, 0, -5), LastReviewedAt: now,
	}))

	all, err := repo.ListByUser("alice")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c1", all[0].ConceptID)

	due, err := repo.GetDueForUser("alice", now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "c1", due[0].ConceptID)
	assert.Equal(t, "c2", due[1].ConceptID)
}

func TestReviewHistoryRepository_AppendAndList(t *testing.T) {
	setupDB(t)
	repo := NewReviewHistoryRepository()
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	events := []models.ReviewEvent{
		{UserID: "alice", ConceptID: "c1", Timestamp: ts, Correct: true, ResponseLatencySeconds: 4},
		{UserID: "alice", ConceptID: "c1", Timestamp: ts.Add(time.Hour), Correct: false, ResponseLatencySeconds: 20},
		{UserID: "alice", ConceptID: "c2", Timestamp: ts.Add(2 * time.Hour), Correct: true, ResponseLatencySeconds: 7},
	}
	for i := range events {
		require.NoError(t, repo.Append(&events[i]))
	}

	all, err := repo.ListByUser("alice")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Correct)
	assert.False(t, all[1].Correct)

	forConcept, err := repo.ListByConcept("alice", "c1")
	require.NoError(t, err)
	assert.Len(t, forConcept, 2)
}

func TestRetentionStore_SatisfiesSchedulerNeeds(t *testing.T) {
	setupDB(t)
	store := NewRetentionStore()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(&models.ConceptRecord{
		UserID: "alice", ConceptID: "c1", EaseFactor: 2.5,
		DueAt: now, LastReviewedAt: now,
	}))

	record, err := store.Load("alice", "c1")
	require.NoError(t, err)
	require.NotNil(t, record)

	require.NoError(t, store.AppendHistory(&models.ReviewEvent{
		UserID: "alice", ConceptID: "c1", Timestamp: now, Correct: true,
	}))

	records, err := store.ListByUser("alice")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUserRepository_CRUDAndStreak(t *testing.T) {
	setupDB(t)
	repo := NewUserRepository()

	user := &models.User{
		ID:                  "alice",
		Name:                "Alice",
		ExperienceLevel:     "beginner",
		TargetCertification: "foundation",
		ReminderEnabled:     true,
	}
	require.NoError(t, repo.Create(user))
	assert.Equal(t, 10, user.DailyReviewGoal, "goal defaults when unset")

	loaded, err := repo.GetByID("alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Alice", loaded.Name)

	missing, err := repo.GetByID("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	day1 := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordStudyTime("alice", 25, day1))
	loaded, err = repo.GetByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.StreakDays)
	assert.Equal(t, 25, loaded.TotalStudyMinutes)

	// Second sitting the same day leaves the streak unchanged.
	require.NoError(t, repo.RecordStudyTime("alice", 10, day1.Add(2*time.Hour)))
	loaded, _ = repo.GetByID("alice")
	assert.Equal(t, 1, loaded.StreakDays)
	assert.Equal(t, 35, loaded.TotalStudyMinutes)

	// Next-day sitting extends it.
	require.NoError(t, repo.RecordStudyTime("alice", 15, day1.AddDate(0, 0, 1)))
	loaded, _ = repo.GetByID("alice")
	assert.Equal(t, 2, loaded.StreakDays)

	// A gap restarts it.
	require.NoError(t, repo.RecordStudyTime("alice", 15, day1.AddDate(0, 0, 5)))
	loaded, _ = repo.GetByID("alice")
	assert.Equal(t, 1, loaded.StreakDays)

	remindable, err := repo.GetRemindable()
	require.NoError(t, err)
	assert.Len(t, remindable, 1)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	setupDB(t)
	repo := NewSessionRepository()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	session := &models.LearningSession{
		ID:        "sess-1",
		UserID:    "alice",
		StartedAt: start,
	}
	require.NoError(t, repo.Create(session))

	end := start.Add(40 * time.Minute)
	session.EndedAt = &end
	session.DurationMinutes = 40
	session.QuestionsAsked = 8
	session.QuestionsCorrect = 6
	session.ConceptsCovered = []string{"c1", "c2"}
	session.EngagementScore = 0.8
	session.ComprehensionScore = 0.75
	require.NoError(t, repo.Update(session))

	loaded, err := repo.GetByID("sess-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.EndedAt)
	assert.Equal(t, 40, loaded.DurationMinutes)
	assert.Equal(t, []string{"c1", "c2"}, loaded.ConceptsCovered)

	sessions, err := repo.ListByUser("alice")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestConceptRepository_UpsertAndQuery(t *testing.T) {
	setupDB(t)
	repo := NewConceptRepository()

	concept := &models.Concept{
		ID:      "adm_phase_a_vision",
		Name:    "Phase A: Architecture Vision",
		Summary: "Scoping the architecture initiative",
		PartID:  "part1_adm",
		Level:   "foundation",
	}
	require.NoError(t, repo.Upsert(concept))

	// Upsert refreshes in place.
	concept.Summary = "Scoping and approving the architecture initiative"
	require.NoError(t, repo.Upsert(concept))

	loaded, err := repo.GetByID("adm_phase_a_vision")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Scoping and approving the architecture initiative", loaded.Summary)

	byPart, err := repo.GetByPart("part1_adm")
	require.NoError(t, err)
	assert.Len(t, byPart, 1)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
