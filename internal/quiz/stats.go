package quiz

import (
	"context"
	"math"
)

// Trend is the coarse progression classification over recent attempts.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Stats aggregates the attempt history of one quiz.
type Stats struct {
	TotalAttempts int
	AverageScore  int
	BestScore     int
	WorstScore    int
	AverageTime   int
	LastAttempt   int64
	Trend         Trend
}

// StatsEngine derives aggregate metrics from stored attempts.
type StatsEngine struct {
	store Store
}

func NewStatsEngine(store Store) *StatsEngine {
	return &StatsEngine{store: store}
}

// QuizStatistics computes the stats for one quiz id, or for the full history
// when id is empty. ok is false when no attempts exist.
func (e *StatsEngine) QuizStatistics(ctx context.Context, quizID string) (Stats, bool, error) {
	attempts, err := e.store.Attempts(ctx, quizID)
	if err != nil {
		return Stats{}, false, err
	}
	if len(attempts) == 0 {
		return Stats{}, false, nil
	}

	scores := make([]int, len(attempts))
	times := make([]int, len(attempts))
	for idx, attempt := range attempts {
		scores[idx] = attempt.Result.Percentage
		times[idx] = attempt.TimeSpent
	}

	best, worst := scores[0], scores[0]
	for _, score := range scores[1:] {
		if score > best {
			best = score
		}
		if score < worst {
			worst = score
		}
	}

	return Stats{
		TotalAttempts: len(attempts),
		AverageScore:  meanRounded(scores),
		BestScore:     best,
		WorstScore:    worst,
		AverageTime:   meanRounded(times),
		LastAttempt:   attempts[0].Timestamp,
		Trend:         calculateTrend(scores),
	}, true, nil
}

// calculateTrend compares the two most recent 3-attempt windows of the
// most-recent-first score list. The window size and the 5-point threshold are
// fixed constants of the contract.
func calculateTrend(scores []int) Trend {
	if len(scores) < 3 {
		return TrendStable
	}

	recent := scores[:3]
	older := scores[3:]
	if len(older) > 3 {
		older = older[:3]
	}
	if len(older) == 0 {
		return TrendStable
	}

	diff := mean(recent) - mean(older)
	switch {
	case diff > 5:
		return TrendImproving
	case diff < -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func meanRounded(values []int) int {
	return int(math.Round(mean(values)))
}
