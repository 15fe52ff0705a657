package sqlite

import (
	"context"

	"quizgen/internal/quiz"
)

func (s *Store) loadAttempts(ctx context.Context) ([]quiz.Attempt, error) {
	var attempts []quiz.Attempt
	if _, err := s.readJSON(ctx, keyAttempts, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (s *Store) SaveAttempt(ctx context.Context, attempt quiz.Attempt) error {
	attempts, err := s.loadAttempts(ctx)
	if err != nil {
		return err
	}

	updated := append([]quiz.Attempt{attempt}, attempts...)
	if len(updated) > quiz.MaxAttempts {
		updated = updated[:quiz.MaxAttempts]
	}
	return s.writeJSON(ctx, keyAttempts, updated)
}

func (s *Store) Attempts(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	attempts, err := s.loadAttempts(ctx)
	if err != nil {
		return nil, err
	}
	if quizID == "" {
		return attempts, nil
	}

	filtered := make([]quiz.Attempt, 0, len(attempts))
	for _, attempt := range attempts {
		if attempt.QuizID == quizID {
			filtered = append(filtered, attempt)
		}
	}
	return filtered, nil
}
