package models

import "time"

// StudyItem is one entry in a study session: a due concept together with the
// difficulty variant and learning stage computed for it.
type StudyItem struct {
	ConceptID  string    `json:"concept_id"`
	Difficulty string    `json:"difficulty"`
	Stage      string    `json:"stage"`
	DueAt      time.Time `json:"due_at"`
}

// StudySession is a bounded, ordered selection of concepts for one sitting.
// It is a derived view recomputed from ConceptRecords at request time, owns
// no persistent state, and is discarded after being returned to the caller.
type StudySession struct {
	UserID      string      `json:"user_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Items       []StudyItem `json:"items"`
}
