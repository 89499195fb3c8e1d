package stats

import (
	"context"

	"github.com/pnw-engineering/AdditionGame/internal/model"
)

// DefaultTrendWindow is the number of answers averaged for the trend line.
const DefaultTrendWindow = 10

// HistorySource lists stored answers.
type HistorySource interface {
	ListAnswers(ctx context.Context, filter model.HistoryFilter) ([]model.Answer, error)
}

// LevelSummary aggregates the history of one level.
type LevelSummary struct {
	Level    model.Level
	Stats    model.LevelStats
	Accuracy int
	Trend    []float64
	Sessions int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Answers []model.Answer
	Levels  []LevelSummary
}

// BuildReport loads the answer history and summarizes it per level.
func BuildReport(ctx context.Context, src HistorySource, filter model.HistoryFilter, window int) (Report, error) {
	answers, err := src.ListAnswers(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if window <= 0 {
		window = DefaultTrendWindow
	}
	byLevel := map[model.Level][]model.Answer{}
	for _, a := range answers {
		byLevel[a.Level] = append(byLevel[a.Level], a)
	}
	tally := Tally(answers)

	report := Report{Answers: answers}
	for _, level := range model.Levels {
		if filter.Level != nil && *filter.Level != level {
			continue
		}
		levelAnswers := byLevel[level]
		report.Levels = append(report.Levels, LevelSummary{
			Level:    level,
			Stats:    tally[level],
			Accuracy: Accuracy(tally[level]),
			Trend:    RollingAccuracy(levelAnswers, window),
			Sessions: countSessions(levelAnswers),
		})
	}
	return report, nil
}

func countSessions(answers []model.Answer) int {
	seen := map[string]struct{}{}
	for _, a := range answers {
		seen[a.SessionID] = struct{}{}
	}
	return len(seen)
}
