package stats

import (
	"testing"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

func TestAccuracy(t *testing.T) {
	cases := []struct {
		stats model.LevelStats
		want  int
	}{
		{model.LevelStats{}, 100},
		{model.LevelStats{Correct: 3, Wrong: 1}, 75},
		{model.LevelStats{Correct: 1, Wrong: 2}, 33},
		{model.LevelStats{Wrong: 4}, 0},
	}
	for _, tc := range cases {
		if got := Accuracy(tc.stats); got != tc.want {
			t.Fatalf("Accuracy(%+v) = %d, want %d", tc.stats, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{100, 0, 100, 100}, 2)
	want := []float64{100, 50, 50, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float64{1, 2, 3, 4}, 2)
	if len(got) != 2 || got[0] != 1.5 || got[1] != 3.5 {
		t.Fatalf("unexpected resample: %v", got)
	}
	short := []float64{1, 2}
	if got := Resample(short, 10); len(got) != 2 {
		t.Fatalf("expected short input unchanged, got %v", got)
	}
}

func TestWeakestPairs(t *testing.T) {
	var m progress.AdditionMatrix
	m.Tries[2][3], m.Errors[2][3] = 5, 2
	m.Tries[4][4], m.Errors[4][4] = 1, 2
	m.Tries[1][1], m.Errors[1][1] = 3, 1
	m.Tries[0][0] = 9

	got := WeakestPairs(&m, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got))
	}
	if got[0].Pair != (progress.Pair{First: 4, Second: 4}) || got[1].Pair != (progress.Pair{First: 2, Second: 3}) {
		t.Fatalf("unexpected order: %+v", got)
	}
	if all := WeakestPairs(&m, 0); len(all) != 3 {
		t.Fatalf("expected facts without errors skipped, got %+v", all)
	}
}

func TestWeakestDigits(t *testing.T) {
	var m progress.RecognitionMatrix
	m.Errors[7] = 1
	m.Errors[3] = 4
	got := WeakestDigits(&m, 5)
	if len(got) != 2 || got[0].Digit != 3 || got[1].Digit != 7 {
		t.Fatalf("unexpected digits: %+v", got)
	}
}
