package stats

import (
	"sort"

	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

// PairScore is an addition fact with its counters.
type PairScore struct {
	Pair   progress.Pair
	Tries  int
	Errors int
}

// Score is tries minus errors.
func (p PairScore) Score() int {
	return p.Tries - p.Errors
}

// DigitScore is a recognition digit with its counters.
type DigitScore struct {
	Digit  progress.Digit
	Tries  int
	Errors int
}

// WeakestPairs lists the n addition facts with the most errors. Ties go to
// the lower score, then to operand order. Facts without errors are skipped.
func WeakestPairs(m *progress.AdditionMatrix, n int) []PairScore {
	var candidates []PairScore
	for i := 0; i < progress.Size; i++ {
		for j := 0; j < progress.Size; j++ {
			if m.Errors[i][j] == 0 {
				continue
			}
			candidates = append(candidates, PairScore{
				Pair:   progress.Pair{First: i, Second: j},
				Tries:  m.Tries[i][j],
				Errors: m.Errors[i][j],
			})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.Errors != cb.Errors {
			return ca.Errors > cb.Errors
		}
		return ca.Score() < cb.Score()
	})
	if n > 0 && n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// WeakestDigits lists the n recognition digits with the most errors.
func WeakestDigits(m *progress.RecognitionMatrix, n int) []DigitScore {
	var candidates []DigitScore
	for d := 0; d < progress.Size; d++ {
		if m.Errors[d] == 0 {
			continue
		}
		candidates = append(candidates, DigitScore{Digit: progress.Digit(d), Tries: m.Tries[d], Errors: m.Errors[d]})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Errors > candidates[b].Errors
	})
	if n > 0 && n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}
