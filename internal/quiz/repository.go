package quiz

import (
	"context"
	"errors"
)

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrNoSession    = errors.New("no active quiz session")
)

// Caps on the persisted lists. Oldest entries are evicted on overflow.
const (
	MaxSavedQuizzes = 20
	MaxAttempts     = 100
)

// SavedQuiz is a persisted quiz definition plus usage bookkeeping.
// Timestamps are unix milliseconds.
type SavedQuiz struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Data        Definition `json:"data"`
	CreatedAt   int64      `json:"createdAt"`
	LastUsed    int64      `json:"lastUsed"`
	TimesPlayed int        `json:"timesPlayed"`
	BestScore   *int       `json:"bestScore,omitempty"`
}

// Result is the immutable outcome of one finished session. Answers is aligned
// to the session's questions; Unanswered marks skipped positions.
type Result struct {
	Score      int   `json:"score"`
	Total      int   `json:"total"`
	Percentage int   `json:"percentage"`
	Answers    []int `json:"answers"`
}

// Attempt is one completed scoring run. QuizID is a weak reference: it may
// dangle after the quiz is deleted, which is why QuizName is snapshotted.
type Attempt struct {
	QuizID    string `json:"quizId"`
	QuizName  string `json:"quizName"`
	Result    Result `json:"result"`
	Timestamp int64  `json:"timestamp"`
	TimeSpent int    `json:"timeSpent"`
	ExamMode  bool   `json:"examMode"`
	TimerUsed *int   `json:"timerUsed,omitempty"`
}

// Settings is the singleton preferences record.
type Settings struct {
	DarkMode            bool `json:"darkMode"`
	DefaultExamMode     bool `json:"defaultExamMode"`
	DefaultTimerMinutes int  `json:"defaultTimerMinutes"`
	AutoSave            bool `json:"autoSave"`
	SoundEnabled        bool `json:"soundEnabled"`
}

// DefaultSettings returns the record stored overrides are merged onto.
func DefaultSettings() Settings {
	return Settings{
		DarkMode:            false,
		DefaultExamMode:     false,
		DefaultTimerMinutes: 30,
		AutoSave:            true,
		SoundEnabled:        false,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	DarkMode            *bool
	DefaultExamMode     *bool
	DefaultTimerMinutes *int
	AutoSave            *bool
	SoundEnabled        *bool
}

// Apply merges the patch onto s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.DefaultExamMode != nil {
		s.DefaultExamMode = *p.DefaultExamMode
	}
	if p.DefaultTimerMinutes != nil {
		s.DefaultTimerMinutes = *p.DefaultTimerMinutes
	}
	if p.AutoSave != nil {
		s.AutoSave = *p.AutoSave
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	return s
}

// Snapshot is the full-store export format.
type Snapshot struct {
	Quizzes    []SavedQuiz `json:"quizzes"`
	Attempts   []Attempt   `json:"attempts"`
	Settings   *Settings   `json:"settings,omitempty"`
	ExportDate int64       `json:"exportDate"`
}

// Store is the injected persistence capability. Reads that depend on parsing
// previously stored text must fail soft: corruption yields an empty/default
// value and a log line, never an error to the caller.
type Store interface {
	// SaveQuiz assigns a fresh id, prepends the quiz and evicts beyond
	// MaxSavedQuizzes, returning the created record.
	SaveQuiz(ctx context.Context, name string, data Definition) (SavedQuiz, error)
	// SavedQuizzes returns saved quizzes, most recently added first.
	SavedQuizzes(ctx context.Context) ([]SavedQuiz, error)
	// QuizByID returns the matching record or ErrQuizNotFound.
	QuizByID(ctx context.Context, id string) (SavedQuiz, error)
	// DeleteQuiz removes the quiz and cascades to its attempts. No-op if absent.
	DeleteQuiz(ctx context.Context, id string) error
	// UpdateQuizUsage bumps lastUsed/timesPlayed and raises bestScore when a
	// score is supplied. No-op if absent.
	UpdateQuizUsage(ctx context.Context, id string, score *int) error

	// SaveAttempt prepends an attempt and evicts beyond MaxAttempts.
	SaveAttempt(ctx context.Context, attempt Attempt) error
	// Attempts returns attempts most-recent-first, optionally filtered to one
	// quiz id (empty id means all).
	Attempts(ctx context.Context, quizID string) ([]Attempt, error)

	// Draft slot: single raw unparsed authoring text, overwritten each call.
	SaveDraft(ctx context.Context, raw string) error
	Draft(ctx context.Context) (string, error)
	ClearDraft(ctx context.Context) error

	// Settings merges stored overrides onto DefaultSettings on read, and the
	// patch onto the merged record on write.
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, patch SettingsPatch) (Settings, error)

	// ExportAll snapshots every namespace; ImportAll restores best-effort per
	// namespace and reports overall success instead of failing.
	ExportAll(ctx context.Context) (Snapshot, error)
	ImportAll(ctx context.Context, raw []byte) bool
	// ClearAll erases all namespaces.
	ClearAll(ctx context.Context) error
}
