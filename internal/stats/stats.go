// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/pnw-engineering/AdditionGame/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the rounded percentage of correct answers. With no
// answers yet it reports 100.
func Accuracy(s model.LevelStats) int {
	total := s.Total()
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(s.Correct) / float64(total) * 100))
}

// Tally counts correct and wrong answers per level.
func Tally(answers []model.Answer) map[model.Level]model.LevelStats {
	out := map[model.Level]model.LevelStats{}
	for _, a := range answers {
		s := out[a.Level]
		if a.Correct {
			s.Correct++
		} else {
			s.Wrong++
		}
		out[a.Level] = s
	}
	return out
}

// RollingAccuracy returns the moving accuracy percentage after each answer.
func RollingAccuracy(answers []model.Answer, window int) []float64 {
	values := make([]float64, len(answers))
	for i, a := range answers {
		if a.Correct {
			values[i] = 100
		}
	}
	return MovingAverage(values, window)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
