package sqlite

import (
	"context"
	"encoding/json"

	"quizgen/internal/quiz"
)

// Draft slot: a single raw text blob, stored unparsed so half-typed input
// survives restarts verbatim.

func (s *Store) SaveDraft(ctx context.Context, raw string) error {
	return s.set(ctx, keyDraft, raw)
}

func (s *Store) Draft(ctx context.Context) (string, error) {
	raw, _, err := s.get(ctx, keyDraft)
	return raw, err
}

func (s *Store) ClearDraft(ctx context.Context) error {
	return s.delete(ctx, keyDraft)
}

// Settings merges stored overrides onto the defaults; a corrupted record
// falls back to pure defaults.
func (s *Store) Settings(ctx context.Context) (quiz.Settings, error) {
	settings := quiz.DefaultSettings()
	if _, err := s.readJSON(ctx, keySettings, &settings); err != nil {
		return quiz.DefaultSettings(), err
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, patch quiz.SettingsPatch) (quiz.Settings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return quiz.Settings{}, err
	}
	merged := patch.Apply(current)
	if err := s.writeJSON(ctx, keySettings, merged); err != nil {
		return quiz.Settings{}, err
	}
	return merged, nil
}

func (s *Store) ExportAll(ctx context.Context) (quiz.Snapshot, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	attempts, err := s.loadAttempts(ctx)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return quiz.Snapshot{}, err
	}

	return quiz.Snapshot{
		Quizzes:    quizzes,
		Attempts:   attempts,
		Settings:   &settings,
		ExportDate: s.now().UnixMilli(),
	}, nil
}

// ImportAll restores namespaces from an exported snapshot. Each namespace is
// imported independently: a malformed one is skipped (and flips the success
// flag) without blocking the others. It never returns an error.
func (s *Store) ImportAll(ctx context.Context, raw []byte) bool {
	var payload struct {
		Quizzes  json.RawMessage `json:"quizzes"`
		Attempts json.RawMessage `json:"attempts"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Printf("sqlite: import rejected, not a snapshot: %v", err)
		return false
	}

	ok := true
	if payload.Quizzes != nil {
		var quizzes []quiz.SavedQuiz
		if err := json.Unmarshal(payload.Quizzes, &quizzes); err == nil {
			if len(quizzes) > quiz.MaxSavedQuizzes {
				quizzes = quizzes[:quiz.MaxSavedQuizzes]
			}
			if err := s.writeJSON(ctx, keySavedQuizzes, quizzes); err != nil {
				s.logger.Printf("sqlite: import quizzes failed: %v", err)
				ok = false
			}
		} else {
			s.logger.Printf("sqlite: import skipping malformed quizzes: %v", err)
			ok = false
		}
	}
	if payload.Attempts != nil {
		var attempts []quiz.Attempt
		if err := json.Unmarshal(payload.Attempts, &attempts); err == nil {
			if len(attempts) > quiz.MaxAttempts {
				attempts = attempts[:quiz.MaxAttempts]
			}
			if err := s.writeJSON(ctx, keyAttempts, attempts); err != nil {
				s.logger.Printf("sqlite: import attempts failed: %v", err)
				ok = false
			}
		} else {
			s.logger.Printf("sqlite: import skipping malformed attempts: %v", err)
			ok = false
		}
	}
	if payload.Settings != nil {
		settings := quiz.DefaultSettings()
		if err := json.Unmarshal(payload.Settings, &settings); err == nil {
			if err := s.writeJSON(ctx, keySettings, settings); err != nil {
				s.logger.Printf("sqlite: import settings failed: %v", err)
				ok = false
			}
		} else {
			s.logger.Printf("sqlite: import skipping malformed settings: %v", err)
			ok = false
		}
	}
	return ok
}

func (s *Store) ClearAll(ctx context.Context) error {
	for _, key := range []string{keySavedQuizzes, keyAttempts, keyDraft, keySettings} {
		if err := s.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
