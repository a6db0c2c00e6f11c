package retention

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/example/certtutor/pkg/models"
)

// Typed failures reported by the scheduler. All operations fail synchronously
// and commit nothing on failure.
var (
	// ErrAlreadyExists is returned when a (user, concept) pair is initialized twice.
	ErrAlreadyExists = errors.New("concept already initialized")
	// ErrUnknownConcept is returned for a review against a concept that was never initialized.
	ErrUnknownConcept = errors.New("concept not initialized")
	// ErrInvalidArgument is returned for malformed input such as a non-positive limit.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store is the persistence collaborator for concept records and review
// history. Single-record writes are assumed durable and atomic.
// Load returns (nil, nil) when no record exists for the pair.
type Store interface {
	Load(userID, conceptID string) (*models.ConceptRecord, error)
	Save(record *models.ConceptRecord) error
	ListByUser(userID string) ([]models.ConceptRecord, error)
	AppendHistory(event *models.ReviewEvent) error
}

// Clock supplies the current time. Injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Difficulty selects which variant of practice question or explanation depth
// to request for a concept.
type Difficulty string

const (
	DifficultyIntroductory Difficulty = "introductory"
	DifficultyStandard     Difficulty = "standard"
	DifficultyChallenging  Difficulty = "challenging"
)

// Stage is the derived learning stage of a concept. It is classified from
// the numeric fields of a ConceptRecord and never stored.
type Stage string

const (
	StageNew      Stage = "new"
	StageLearning Stage = "learning"
	StageMature   Stage = "mature"
)

// Params are the tunable constants of the scheduling policy.
type Params struct {
	InitialEaseFactor   float64 // ease factor assigned at initialization
	MinEaseFactor       float64 // floor on the ease factor
	MaxEaseFactor       float64 // cap on the ease factor
	EaseBonus           float64 // added after a confident (fast) correct answer
	EasePenalty         float64 // subtracted after a lapse
	FastLatencySeconds  float64 // answers faster than this count as confident recall
	LapseIntervalDays   float64 // interval a concept falls back to after a lapse
	MatureIntervalDays  float64 // interval at which a concept counts as mature
	StandardStrength    float64 // strength at which difficulty moves past introductory
	ChallengingStrength float64 // strength at which difficulty becomes challenging
	ForcedIntroLapses   int     // lapse count that forces introductory difficulty
}

// DefaultParams returns the default scheduling policy.
func DefaultParams() Params {
	return Params{
		InitialEaseFactor:   2.5,
		MinEaseFactor:       1.3,
		MaxEaseFactor:       3.0,
		EaseBonus:           0.05,
		EasePenalty:         0.2,
		FastLatencySeconds:  10,
		LapseIntervalDays:   1,
		MatureIntervalDays:  21,
		StandardStrength:    1,
		ChallengingStrength: 4,
		ForcedIntroLapses:   3,
	}
}

// Scheduler maintains per-user, per-concept memory strength estimates and
// computes review schedules and question difficulty. It is invoked
// synchronously per request and runs no background work of its own.
type Scheduler struct {
	store  Store
	clock  Clock
	params Params

	mu    sync.Mutex
	users map[string]*sync.RWMutex
}

// New creates a scheduler with the default policy and the system clock.
func New(store Store) *Scheduler {
	return NewWithParams(store, DefaultParams(), systemClock{})
}

// NewWithParams creates a scheduler with explicit policy constants and clock.
func NewWithParams(store Store, params Params, clock Clock) *Scheduler {
	return &Scheduler{
		store:  store,
		clock:  clock,
		params: params,
		users:  make(map[string]*sync.RWMutex),
	}
}

// Params returns the policy constants the scheduler was built with.
func (s *Scheduler) Params() Params {
	return s.params
}

// userLock returns the mutex serializing mutations for a single user.
// Operations for different users never contend on it.
func (s *Scheduler) userLock(userID string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.users[userID]
	if !ok {
		lock = &sync.RWMutex{}
		s.users[userID] = lock
	}
	return lock
}

// InitializeConcept creates a fresh ConceptRecord for the pair and returns it.
// Fails with ErrAlreadyExists if the pair is already tracked.
func (s *Scheduler) InitializeConcept(userID, conceptID string) (*models.ConceptRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}
	if conceptID == "" {
		return nil, fmt.Errorf("%w: concept id is empty", ErrInvalidArgument)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.Load(userID, conceptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concept record: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s for user %s", ErrAlreadyExists, conceptID, userID)
	}

	now := s.clock.Now()
	record := &models.ConceptRecord{
		UserID:         userID,
		ConceptID:      conceptID,
		Strength:       0,
		EaseFactor:     s.params.InitialEaseFactor,
		IntervalDays:   0,
		DueAt:          now,
		LastReviewedAt: now,
		ReviewCount:    0,
		LapseCount:     0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save concept record: %w", err)
	}

	snapshot := *record
	return &snapshot, nil
}

// RecordReview consumes a review event, updates the matching ConceptRecord
// using graduated-interval scheduling, archives the event in the review
// history, and returns the updated record snapshot.
func (s *Scheduler) RecordReview(userID string, event models.ReviewEvent) (*models.ConceptRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}
	if event.ConceptID == "" {
		return nil, fmt.Errorf("%w: event concept id is empty", ErrInvalidArgument)
	}
	if event.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: event timestamp is zero", ErrInvalidArgument)
	}
	if event.ResponseLatencySeconds < 0 {
		return nil, fmt.Errorf("%w: negative response latency", ErrInvalidArgument)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.store.Load(userID, event.ConceptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concept record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s for user %s", ErrUnknownConcept, event.ConceptID, userID)
	}

	updated := *record
	s.applyReview(&updated, event)
	updated.UpdatedAt = s.clock.Now()

	event.UserID = userID
	if err := s.store.AppendHistory(&event); err != nil {
		return nil, fmt.Errorf("failed to archive review event: %w", err)
	}
	if err := s.store.Save(&updated); err != nil {
		return nil, fmt.Errorf("failed to save concept record: %w", err)
	}

	snapshot := updated
	return &snapshot, nil
}

// applyReview mutates the record according to the scheduling policy.
func (s *Scheduler) applyReview(record *models.ConceptRecord, event models.ReviewEvent) {
	if event.Correct {
		// The very first correct review after initialization graduates to a
		// one-day interval regardless of the interval formula.
		if record.ReviewCount == 0 {
			record.IntervalDays = 1
		} else {
			record.IntervalDays = math.Max(1, math.Round(record.IntervalDays*record.EaseFactor))
		}
		record.ReviewCount++

		if event.ResponseLatencySeconds < s.params.FastLatencySeconds {
			record.EaseFactor = math.Min(s.params.MaxEaseFactor, record.EaseFactor+s.params.EaseBonus)
		}

		// Concepts with a lapse history build durability more slowly.
		record.Strength += 1 / (1 + float64(record.LapseCount))
	} else {
		record.ReviewCount++
		record.LapseCount++
		record.EaseFactor = math.Max(s.params.MinEaseFactor, record.EaseFactor-s.params.EasePenalty)
		record.IntervalDays = s.params.LapseIntervalDays
		record.Strength = math.Max(0, record.Strength-1)
	}

	record.LastReviewedAt = event.Timestamp
	record.DueAt = dueAfter(event.Timestamp, record.IntervalDays)
}

// dueAfter advances a timestamp by an interval expressed in calendar days.
func dueAfter(ts time.Time, days float64) time.Time {
	whole, frac := math.Modf(days)
	return ts.AddDate(0, 0, int(whole)).Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// NextDue returns up to limit concepts due for review at now, ordered by
// ascending due time with ties broken by ascending strength so weaker
// concepts surface first. Each call recomputes fresh from current state.
func (s *Scheduler) NextDue(userID string, now time.Time, limit int) ([]models.ConceptRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}

	lock := s.userLock(userID)
	lock.RLock()
	defer lock.RUnlock()

	records, err := s.store.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list concept records: %w", err)
	}

	due := make([]models.ConceptRecord, 0, len(records))
	for _, record := range records {
		if !record.DueAt.After(now) {
			due = append(due, record)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		if due[i].Strength != due[j].Strength {
			return due[i].Strength < due[j].Strength
		}
		// Final tie-break keeps the ordering deterministic across calls.
		return due[i].ConceptID < due[j].ConceptID
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// DifficultyFor maps a record's strength and lapse history to a difficulty
// level. Pure function of the record and the policy constants.
func (s *Scheduler) DifficultyFor(record models.ConceptRecord) Difficulty {
	// Repeated failure overrides apparent strength.
	if record.LapseCount >= s.params.ForcedIntroLapses {
		return DifficultyIntroductory
	}
	switch {
	case record.Strength < s.params.StandardStrength:
		return DifficultyIntroductory
	case record.Strength < s.params.ChallengingStrength:
		return DifficultyStandard
	default:
		return DifficultyChallenging
	}
}

// StageFor classifies the record's learning stage. A lapse from mature drops
// the interval below the mature threshold and so reclassifies as learning.
func (s *Scheduler) StageFor(record models.ConceptRecord) Stage {
	switch {
	case record.ReviewCount == 0:
		return StageNew
	case record.IntervalDays >= s.params.MatureIntervalDays:
		return StageMature
	default:
		return StageLearning
	}
}

// BuildStudySession assembles the content ordering for one sitting from the
// user's currently due concepts. The session is derived and never stored.
func (s *Scheduler) BuildStudySession(userID string, now time.Time, limit int) (*models.StudySession, error) {
	due, err := s.NextDue(userID, now, limit)
	if err != nil {
		return nil, err
	}

	session := &models.StudySession{
		UserID:      userID,
		GeneratedAt: now,
		Items:       make([]models.StudyItem, 0, len(due)),
	}
	for _, record := range due {
		session.Items = append(session.Items, models.StudyItem{
			ConceptID:  record.ConceptID,
			Difficulty: string(s.DifficultyFor(record)),
			Stage:      string(s.StageFor(record)),
			DueAt:      record.DueAt,
		})
	}
	return session, nil
}
