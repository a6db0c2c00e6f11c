package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/certtutor/internal/retention"
	"github.com/example/certtutor/pkg/models"
)

// ConceptSource resolves catalog concepts for prompts and distractors
type ConceptSource interface {
	GetByID(id string) (*models.Concept, error)
	GetAll() ([]models.Concept, error)
}

// QuestionType represents different types of practice questions
type QuestionType string

const (
	// MultipleChoice asks the learner to pick the right definition
	MultipleChoice QuestionType = "multiple_choice"
	// FreeRecall asks the learner to explain the concept unprompted
	FreeRecall QuestionType = "free_recall"
	// Scenario asks the learner to apply the concept to a situation
	Scenario QuestionType = "scenario"
)

// Question is a single practice question specification. Rendering the prompt
// into richer explanatory text is left to downstream consumers.
type Question struct {
	ConceptID    string
	ConceptName  string
	Type         QuestionType
	Difficulty   retention.Difficulty
	Prompt       string
	Options      []string // Possible answers (for multiple choice)
	CorrectIndex int      // Index of correct answer in options
}

// Generator builds practice questions for a user's due concepts
type Generator struct {
	scheduler *retention.Scheduler
	concepts  ConceptSource
	rnd       *rand.Rand
}

// NewGenerator creates a quiz generator
func NewGenerator(scheduler *retention.Scheduler, concepts ConceptSource) *Generator {
	return &Generator{
		scheduler: scheduler,
		concepts:  concepts,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewGeneratorWithSeed creates a generator with a fixed seed for deterministic output
func NewGeneratorWithSeed(scheduler *retention.Scheduler, concepts ConceptSource, seed int64) *Generator {
	g := NewGenerator(scheduler, concepts)
	g.rnd = rand.New(rand.NewSource(seed))
	return g
}

// BuildQuiz assembles up to count questions for the concepts due at now.
// The question variant follows the difficulty computed for each concept:
// introductory concepts get recognition (multiple choice), standard concepts
// get free recall, challenging concepts get an application scenario.
func (g *Generator) BuildQuiz(userID string, now time.Time, count int) ([]Question, error) {
	due, err := g.scheduler.NextDue(userID, now, count)
	if err != nil {
		return nil, err
	}

	all, err := g.concepts.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load concept catalog: %v", err)
	}

	questions := make([]Question, 0, len(due))
	for _, record := range due {
		concept, err := g.concepts.GetByID(record.ConceptID)
		if err != nil {
			return nil, fmt.Errorf("failed to load concept %s: %v", record.ConceptID, err)
		}
		if concept == nil {
			// Tracked concept missing from the catalog; nothing to ask about.
			continue
		}

		difficulty := g.scheduler.DifficultyFor(record)
		questions = append(questions, g.buildQuestion(*concept, difficulty, all))
	}
	return questions, nil
}

// buildQuestion creates one question for a concept at the given difficulty
func (g *Generator) buildQuestion(concept models.Concept, difficulty retention.Difficulty, all []models.Concept) Question {
	q := Question{
		ConceptID:   concept.ID,
		ConceptName: concept.Name,
		Difficulty:  difficulty,
	}

	switch difficulty {
	case retention.DifficultyIntroductory:
		q.Type = MultipleChoice
		q.Prompt = fmt.Sprintf("Which of the following best describes '%s'?", concept.Name)
		q.Options, q.CorrectIndex = g.buildOptions(concept, all)
	case retention.DifficultyStandard:
		q.Type = FreeRecall
		q.Prompt = fmt.Sprintf("In your own words, explain '%s' and where it fits in the method.", concept.Name)
	default:
		q.Type = Scenario
		q.Prompt = fmt.Sprintf(
			"An enterprise architect is asked to apply '%s' on a live engagement. Describe the approach, its inputs, and one trade-off to watch for.",
			concept.Name)
	}
	return q
}

// buildOptions picks distractor summaries from other concepts and shuffles
// the correct answer among them
func (g *Generator) buildOptions(concept models.Concept, all []models.Concept) ([]string, int) {
	distractors := make([]string, 0, len(all))
	for _, other := range all {
		if other.ID != concept.ID && other.Summary != "" {
			distractors = append(distractors, other.Summary)
		}
	}
	g.rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	const optionCount = 4
	options := []string{concept.Summary}
	for _, d := range distractors {
		if len(options) == optionCount {
			break
		}
		options = append(options, d)
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	correct := 0
	for i, option := range options {
		if option == concept.Summary {
			correct = i
			break
		}
	}
	return options, correct
}

// CheckAnswer grades a multiple choice selection
func (q *Question) CheckAnswer(selectedIndex int) bool {
	return q.Type == MultipleChoice && selectedIndex == q.CorrectIndex
}

// Outcome converts a graded answer into the review event consumed by the
// retention scheduler. Grading free recall and scenario answers is the
// caller's responsibility.
func (q *Question) Outcome(correct bool, answeredAt time.Time, latencySeconds float64) models.ReviewEvent {
	return models.ReviewEvent{
		ConceptID:              q.ConceptID,
		Timestamp:              answeredAt,
		Correct:                correct,
		ResponseLatencySeconds: latencySeconds,
	}
}
