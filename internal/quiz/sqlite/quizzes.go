package sqlite

import (
	"context"
	"strings"

	"quizgen/internal/quiz"
)

func (s *Store) loadQuizzes(ctx context.Context) ([]quiz.SavedQuiz, error) {
	var quizzes []quiz.SavedQuiz
	if _, err := s.readJSON(ctx, keySavedQuizzes, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *Store) SaveQuiz(ctx context.Context, name string, data quiz.Definition) (quiz.SavedQuiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return quiz.SavedQuiz{}, err
	}

	now := s.now()
	if strings.TrimSpace(name) == "" {
		name = "Quiz " + now.Format("2006-01-02")
	}

	record := quiz.SavedQuiz{
		ID:        newQuizID(now),
		Name:      name,
		Data:      data,
		CreatedAt: now.UnixMilli(),
		LastUsed:  now.UnixMilli(),
	}

	updated := append([]quiz.SavedQuiz{record}, quizzes...)
	if len(updated) > quiz.MaxSavedQuizzes {
		updated = updated[:quiz.MaxSavedQuizzes]
	}

	if err := s.writeJSON(ctx, keySavedQuizzes, updated); err != nil {
		return quiz.SavedQuiz{}, err
	}
	return record, nil
}

func (s *Store) SavedQuizzes(ctx context.Context) ([]quiz.SavedQuiz, error) {
	return s.loadQuizzes(ctx)
}

func (s *Store) QuizByID(ctx context.Context, id string) (quiz.SavedQuiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return quiz.SavedQuiz{}, err
	}
	for _, record := range quizzes {
		if record.ID == id {
			return record, nil
		}
	}
	return quiz.SavedQuiz{}, quiz.ErrQuizNotFound
}

// DeleteQuiz removes the record and cascades to every attempt referencing it.
func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return err
	}

	kept := quizzes[:0]
	for _, record := range quizzes {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if err := s.writeJSON(ctx, keySavedQuizzes, kept); err != nil {
		return err
	}

	attempts, err := s.loadAttempts(ctx)
	if err != nil {
		return err
	}
	keptAttempts := attempts[:0]
	for _, attempt := range attempts {
		if attempt.QuizID != id {
			keptAttempts = append(keptAttempts, attempt)
		}
	}
	return s.writeJSON(ctx, keyAttempts, keptAttempts)
}

// UpdateQuizUsage bumps lastUsed and timesPlayed, raising bestScore when the
// supplied score beats the stored one. No-op for an unknown id.
func (s *Store) UpdateQuizUsage(ctx context.Context, id string, score *int) error {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return err
	}

	found := false
	for idx := range quizzes {
		if quizzes[idx].ID != id {
			continue
		}
		found = true
		quizzes[idx].LastUsed = s.now().UnixMilli()
		quizzes[idx].TimesPlayed++
		if score != nil && (quizzes[idx].BestScore == nil || *score > *quizzes[idx].BestScore) {
			best := *score
			quizzes[idx].BestScore = &best
		}
	}
	if !found {
		return nil
	}
	return s.writeJSON(ctx, keySavedQuizzes, quizzes)
}
