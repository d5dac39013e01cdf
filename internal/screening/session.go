package screening

import (
	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
)

const (
	// initialPlateCount is the fixed size of the sample drawn at session start.
	initialPlateCount = 20
	// maxQueueLength bounds total test length regardless of how many
	// incorrect answers occur.
	maxQueueLength = 32
	// followUpBatchSize is the number of follow-up plates requested per
	// incorrect answer.
	followUpBatchSize = 2
)

var (
	ErrAlreadyStarted  = errors.NewSentinel("screening session already started")
	ErrNotInProgress   = errors.NewSentinel("screening session not in progress")
	ErrSessionComplete = errors.NewSentinel("screening session already completed")
)

// State of the session lifecycle: NotStarted, InProgress, Completed.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

// Session orchestrates one screening attempt. It holds the ordered plate
// queue, the current position, and the accumulated answers, decides when to
// extend the queue, and classifies the answers once the queue is exhausted.
//
// A session is owned by exactly one test attempt and is not safe for
// concurrent use. Nothing is emitted to collaborators until completion, so
// abandoning a session leaves no observable side effect.
type Session struct {
	catalog  *Catalog
	state    State
	queue    []models.Plate
	queued   map[string]struct{}
	position int
	answers  []models.Answer
	result   *models.ClassificationResult
}

// NewSession creates a session in the NotStarted state.
func NewSession(catalog *Catalog) *Session {
	return &Session{
		catalog: catalog,
		state:   StateNotStarted,
		queued:  map[string]struct{}{},
	}
}

// Start draws the initial plate sample and moves the session to InProgress.
// It fails with ErrDeckTooSmall when the catalog cannot supply the sample.
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	sample, err := s.catalog.SampleInitial(initialPlateCount)
	if err != nil {
		return errors.Wrap(err, "draw initial sample")
	}
	s.queue = sample
	for _, plate := range sample {
		s.queued[plate.ID] = struct{}{}
	}
	s.position = 0
	s.answers = nil
	s.state = StateInProgress
	return nil
}

// Submit records an answer for the current plate. When the answer is
// incorrect and the queue is below the hard cap, the session requests
// follow-up plates from the catalog and appends whatever is returned before
// re-evaluating termination. On completion it classifies the full answer set
// and returns the result; otherwise it returns nil.
//
// Submitting outside InProgress is a programming error and is rejected with
// ErrNotInProgress or ErrSessionComplete.
func (s *Session) Submit(rawInput string) (*models.ClassificationResult, error) {
	switch s.state {
	case StateInProgress:
	case StateCompleted:
		return nil, ErrSessionComplete
	default:
		return nil, ErrNotInProgress
	}
	if s.position >= len(s.queue) {
		return nil, errors.Wrap(ErrNotInProgress, "position past queue bound")
	}

	plate := s.queue[s.position]
	answer := models.Answer{
		PlateID:            plate.ID,
		RawInput:           rawInput,
		NormalizedInput:    Normalize(rawInput),
		NormalizedExpected: Normalize(plate.ExpectedNormal),
	}
	answer.Correct = answer.NormalizedInput == answer.NormalizedExpected
	s.answers = append(s.answers, answer)
	s.position++

	// Adaptive extension: an incorrect answer gathers more discriminating
	// evidence, bounded by the hard cap. Extension is all-or-nothing per
	// incorrect answer based on what the catalog returns.
	if !answer.Correct && len(s.queue) < maxQueueLength {
		batch := followUpBatchSize
		if room := maxQueueLength - len(s.queue); batch > room {
			batch = room
		}
		for _, followUp := range s.catalog.SampleFollowUp(s.queued, batch) {
			s.queue = append(s.queue, followUp)
			s.queued[followUp.ID] = struct{}{}
		}
	}

	// Termination check runs after any extension.
	if s.position == len(s.queue) {
		result := Classify(s.answers, s.catalog.PlateByID())
		s.result = &result
		s.state = StateCompleted
		return s.result, nil
	}
	return nil, nil
}

// Current returns the plate awaiting an answer.
func (s *Session) Current() (models.Plate, error) {
	if s.state != StateInProgress {
		return models.Plate{}, ErrNotInProgress
	}
	return s.queue[s.position], nil
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Position returns the index of the plate currently awaiting an answer.
func (s *Session) Position() int {
	return s.position
}

// QueueLength returns the current length of the plate queue.
func (s *Session) QueueLength() int {
	return len(s.queue)
}

// Answers returns the recorded answers in submission order.
func (s *Session) Answers() []models.Answer {
	return s.answers
}

// Result returns the classification, or nil before completion.
func (s *Session) Result() *models.ClassificationResult {
	return s.result
}
