package progress

import (
	"math/rand"
	"testing"
)

// firstRand always returns the lowest index.
type firstRand struct{ calls []int }

func (r *firstRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	return 0
}

func TestSelectBalancedStrictMinimum(t *testing.T) {
	var m AdditionMatrix
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m.Tries[i][j] = 5
		}
	}
	for j := 0; j < Size; j++ {
		m.Tries[3][j] = 2
	}
	m.Errors[3][7] = 2

	for seed := int64(0); seed < 50; seed++ {
		got := SelectBalanced(&m, rand.New(rand.NewSource(seed)))
		if got != (Pair{First: 3, Second: 7}) {
			t.Fatalf("seed %d: expected (3,7), got %+v", seed, got)
		}
	}
}

func TestSelectBalancedFreshMatrix(t *testing.T) {
	var m AdditionMatrix
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		got := SelectBalanced(&m, rnd)
		if got.First < 0 || got.First >= Size || got.Second < 0 || got.Second >= Size {
			t.Fatalf("selection out of range: %+v", got)
		}
	}
}

func TestSelectBalancedUsesRowThenColumn(t *testing.T) {
	var m AdditionMatrix
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m.Tries[i][j] = 1
		}
	}
	// Row 5 holds the single lowest cell overall, but row 2 has the lowest sum.
	m.Errors[5][0] = 4
	for j := 0; j < Size; j++ {
		m.Errors[2][j] = 1
	}
	m.Errors[2][6] = 0

	rnd := &firstRand{}
	got := SelectBalanced(&m, rnd)
	if got.First != 2 {
		t.Fatalf("expected row 2, got %+v", got)
	}
	if got.Second != 0 {
		t.Fatalf("expected first tied column 0, got %+v", got)
	}
	if len(rnd.calls) != 2 || rnd.calls[0] != 1 || rnd.calls[1] != 9 {
		t.Fatalf("unexpected tie-break draws: %v", rnd.calls)
	}
}

func TestSelectBalancedRowTieIsFair(t *testing.T) {
	var m AdditionMatrix
	for i := 2; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m.Tries[i][j] = 3
		}
	}
	rnd := rand.New(rand.NewSource(42))
	counts := map[int]int{}
	const trials = 4000
	for i := 0; i < trials; i++ {
		counts[SelectBalanced(&m, rnd).First]++
	}
	if len(counts) != 2 {
		t.Fatalf("expected only rows 0 and 1, got %v", counts)
	}
	for _, row := range []int{0, 1} {
		share := float64(counts[row]) / trials
		if share < 0.45 || share > 0.55 {
			t.Fatalf("row %d share %.3f outside tolerance", row, share)
		}
	}
}

func TestSelectDigitRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	seen := map[Digit]bool{}
	for i := 0; i < 500; i++ {
		d := SelectDigit(rnd)
		if d < 0 || d >= Size {
			t.Fatalf("digit out of range: %d", d)
		}
		seen[d] = true
	}
	if len(seen) != Size {
		t.Fatalf("expected all digits to appear, saw %d", len(seen))
	}
}
