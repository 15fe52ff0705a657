package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// State of a session. Transitions: Empty -> Active (Generate),
// Active -> Completed (Finish), Completed -> Active (retry flows),
// any -> Empty (Reset).
type State int

const (
	StateEmpty State = iota
	StateActive
	StateCompleted
)

var (
	ErrNothingToRetry = errors.New("no incorrect answers to retry")
	ErrNoMarked       = errors.New("no questions were marked for review")
	ErrNotCompleted   = errors.New("session is not completed")
	ErrNotStudyMode   = errors.New("marking requires study mode")
)

// Options controls how a session is generated.
type Options struct {
	Name         string
	Shuffle      bool
	ExamMode     bool
	StudyMode    bool
	TimerMinutes int
}

// Feedback is the immediate response to an answer selection. Revealed is only
// set in study mode; exam and plain sessions give nothing away until Finish.
type Feedback struct {
	Revealed    bool
	Correct     bool
	Explanation string
}

// Session is the quiz state machine. It owns the in-memory working copy and
// writes back to the Store only at defined transition points: Generate,
// Finish, and draft clearing. Not safe for concurrent use; all callers run on
// a single goroutine.
type Session struct {
	store Store
	rng   *rand.Rand
	now   func() time.Time

	state        State
	questions    []Question
	answers      []int
	current      int
	quizID       string
	quizName     string
	examMode     bool
	studyMode    bool
	timerMinutes int
	marked       map[int]bool
	startedAt    time.Time
	deadline     time.Time
	result       *Result
}

// NewSession builds an empty session around the injected store and random
// source. A nil rng falls back to a time-seeded source; tests inject a seeded
// one so shuffling is deterministic.
func NewSession(store Store, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		store:  store,
		rng:    rng,
		now:    time.Now,
		marked: make(map[int]bool),
	}
}

// Generate validates the definition and starts a new active session. On any
// validation failure nothing is persisted and the state does not change. On
// success the definition is saved, answers reset, and the draft slot cleared.
func (s *Session) Generate(ctx context.Context, def Definition, opts Options) error {
	if err := ValidateQuestions(def.Questions); err != nil {
		return err
	}

	questions := make([]Question, len(def.Questions))
	copy(questions, def.Questions)
	if opts.Shuffle {
		s.rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	saved, err := s.store.SaveQuiz(ctx, opts.Name, Definition{Questions: questions})
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}

	s.begin(questions, saved.ID, saved.Name, opts.ExamMode, opts.StudyMode, opts.TimerMinutes)
	_ = s.store.ClearDraft(ctx)
	return nil
}

// Replay starts an active session over an existing saved quiz, reusing its
// record so Finish accumulates usage on it instead of saving a duplicate.
func (s *Session) Replay(record SavedQuiz, opts Options) error {
	if err := ValidateQuestions(record.Data.Questions); err != nil {
		return err
	}

	questions := make([]Question, len(record.Data.Questions))
	copy(questions, record.Data.Questions)
	if opts.Shuffle {
		s.rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	s.begin(questions, record.ID, record.Name, opts.ExamMode, opts.StudyMode, opts.TimerMinutes)
	return nil
}

func (s *Session) begin(questions []Question, quizID, quizName string, examMode, studyMode bool, timerMinutes int) {
	s.questions = questions
	s.answers = make([]int, len(questions))
	for idx := range s.answers {
		s.answers[idx] = Unanswered
	}
	s.current = 0
	s.quizID = quizID
	s.quizName = quizName
	s.examMode = examMode
	s.studyMode = studyMode
	s.timerMinutes = timerMinutes
	s.marked = make(map[int]bool)
	s.startedAt = s.now()
	s.deadline = time.Time{}
	if examMode && timerMinutes > 0 {
		s.deadline = s.startedAt.Add(time.Duration(timerMinutes) * time.Minute)
	}
	s.result = nil
	s.state = StateActive
}

// SelectAnswer records the answer for the current question, overwriting any
// prior choice. Last write wins; there is no undo.
func (s *Session) SelectAnswer(choice int) (Feedback, error) {
	if s.state != StateActive {
		return Feedback{}, ErrNoSession
	}
	question := s.questions[s.current]
	if choice < 0 || choice >= len(question.Choices) {
		return Feedback{}, fmt.Errorf("choice %d is out of range for %d choices", choice, len(question.Choices))
	}

	s.answers[s.current] = choice
	if !s.studyMode {
		return Feedback{}, nil
	}
	return Feedback{
		Revealed:    true,
		Correct:     choice == question.Answer,
		Explanation: question.Explanation,
	}, nil
}

// Next advances to the following question, clamped at the last one.
func (s *Session) Next() {
	if s.state != StateActive {
		return
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
}

// Previous steps back one question. Exam mode forbids backward navigation, so
// there it is always a no-op, as it is at index 0.
func (s *Session) Previous() {
	if s.state != StateActive || s.examMode {
		return
	}
	if s.current > 0 {
		s.current--
	}
}

// ToggleMark flags or unflags the current question for later review.
// Only meaningful in study mode.
func (s *Session) ToggleMark() error {
	if s.state != StateActive {
		return ErrNoSession
	}
	if !s.studyMode {
		return ErrNotStudyMode
	}
	if s.marked[s.current] {
		delete(s.marked, s.current)
	} else {
		s.marked[s.current] = true
	}
	return nil
}

// Finish scores the session, persists the attempt and quiz usage, and moves
// to Completed. Calling it again is a no-op returning the same result, so the
// exam-timeout path can never double-record.
func (s *Session) Finish(ctx context.Context) (Result, error) {
	if s.state == StateCompleted && s.result != nil {
		return *s.result, nil
	}
	if s.state != StateActive {
		return Result{}, ErrNoSession
	}

	score := 0
	for idx, answer := range s.answers {
		if answer != Unanswered && answer == s.questions[idx].Answer {
			score++
		}
	}
	total := len(s.questions)
	percentage := int(math.Round(float64(score) / float64(total) * 100))

	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	result := Result{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Answers:    answers,
	}

	finishedAt := s.now()
	timeSpent := int(finishedAt.Sub(s.startedAt).Seconds())
	if timeSpent < 0 {
		timeSpent = 0
	}

	// Transition before persisting so a storage failure cannot lead a retry
	// into recording the attempt twice.
	s.result = &result
	s.state = StateCompleted

	var timerUsed *int
	if s.examMode && s.timerMinutes > 0 {
		minutes := s.timerMinutes
		timerUsed = &minutes
	}

	if err := s.store.SaveAttempt(ctx, Attempt{
		QuizID:    s.quizID,
		QuizName:  s.quizName,
		Result:    result,
		Timestamp: finishedAt.UnixMilli(),
		TimeSpent: timeSpent,
		ExamMode:  s.examMode,
		TimerUsed: timerUsed,
	}); err != nil {
		return result, fmt.Errorf("save attempt: %w", err)
	}
	if err := s.store.UpdateQuizUsage(ctx, s.quizID, &percentage); err != nil {
		return result, fmt.Errorf("update quiz usage: %w", err)
	}
	return result, nil
}

// ExpireExam is the timeout transition: the countdown collaborator calls it
// when the deadline passes, forcing Finish regardless of unanswered questions.
// Harmless if the session already finished or was reset.
func (s *Session) ExpireExam(ctx context.Context) {
	if s.state != StateActive || !s.examMode {
		return
	}
	_, _ = s.Finish(ctx)
}

// RetryIncorrect rebuilds an active session from the questions answered
// incorrectly (unanswered counts as incorrect). Returns ErrNothingToRetry
// when the previous run was perfect.
func (s *Session) RetryIncorrect() error {
	if s.state != StateCompleted || s.result == nil {
		return ErrNotCompleted
	}

	var subset []Question
	for idx, question := range s.questions {
		if s.result.Answers[idx] != question.Answer {
			subset = append(subset, question)
		}
	}
	if len(subset) == 0 {
		return ErrNothingToRetry
	}

	s.begin(subset, s.quizID, s.quizName, s.examMode, s.studyMode, s.timerMinutes)
	return nil
}

// RetryMarked rebuilds an active session from the questions marked during the
// prior study-mode run, preserving their original order.
func (s *Session) RetryMarked() error {
	if s.state != StateCompleted {
		return ErrNotCompleted
	}
	if !s.studyMode {
		return ErrNotStudyMode
	}

	var subset []Question
	for idx, question := range s.questions {
		if s.marked[idx] {
			subset = append(subset, question)
		}
	}
	if len(subset) == 0 {
		return ErrNoMarked
	}

	s.begin(subset, s.quizID, s.quizName, s.examMode, s.studyMode, s.timerMinutes)
	return nil
}

// Reset discards the session and all transient flags unconditionally.
func (s *Session) Reset() {
	s.state = StateEmpty
	s.questions = nil
	s.answers = nil
	s.current = 0
	s.quizID = ""
	s.quizName = ""
	s.examMode = false
	s.studyMode = false
	s.timerMinutes = 0
	s.marked = make(map[int]bool)
	s.startedAt = time.Time{}
	s.deadline = time.Time{}
	s.result = nil
}

func (s *Session) State() State          { return s.state }
func (s *Session) Questions() []Question { return s.questions }
func (s *Session) CurrentIndex() int     { return s.current }
func (s *Session) QuizID() string        { return s.quizID }
func (s *Session) QuizName() string      { return s.quizName }
func (s *Session) ExamMode() bool        { return s.examMode }
func (s *Session) StudyMode() bool       { return s.studyMode }
func (s *Session) TimerMinutes() int     { return s.timerMinutes }

// CurrentQuestion returns the question at the cursor; ok is false when the
// session is not active.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.state != StateActive {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// Answer returns the recorded answer for a question index.
func (s *Session) Answer(idx int) int {
	if idx < 0 || idx >= len(s.answers) {
		return Unanswered
	}
	return s.answers[idx]
}

// AnsweredCount reports how many questions have an answer recorded.
func (s *Session) AnsweredCount() int {
	count := 0
	for _, answer := range s.answers {
		if answer != Unanswered {
			count++
		}
	}
	return count
}

// Marked reports whether the current question is flagged for review.
func (s *Session) Marked() bool {
	return s.marked[s.current]
}

// MarkedCount reports how many questions are flagged.
func (s *Session) MarkedCount() int {
	return len(s.marked)
}

// Deadline returns the exam deadline, if one is set.
func (s *Session) Deadline() (time.Time, bool) {
	if s.deadline.IsZero() {
		return time.Time{}, false
	}
	return s.deadline, true
}

// Result returns the computed result once the session is completed.
func (s *Session) Result() (Result, bool) {
	if s.state != StateCompleted || s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
