package progress

// Rand is the random source used for tie-breaks. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Scores returns tries minus errors for every addition cell. Lower means
// more practice is needed. An untouched cell scores 0, the same as a cell
// with equal tries and errors.
func (m *AdditionMatrix) Scores() [Size][Size]int {
	var out [Size][Size]int
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i][j] = m.Tries[i][j] - m.Errors[i][j]
		}
	}
	return out
}

// SelectBalanced picks the next addition pair. It narrows to the rows with
// the lowest score sum, picks one at random, then picks at random among the
// lowest-scoring cells of that row.
func SelectBalanced(m *AdditionMatrix, rnd Rand) Pair {
	scores := m.Scores()

	var rowSums [Size]int
	for i, row := range scores {
		for _, v := range row {
			rowSums[i] += v
		}
	}
	row := pickMin(rowSums, rnd)
	col := pickMin(scores[row], rnd)
	return Pair{First: row, Second: col}
}

// pickMin returns a uniformly random index among those holding the minimum.
func pickMin(values [Size]int, rnd Rand) int {
	minVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
	}
	candidates := make([]int, 0, Size)
	for i, v := range values {
		if v == minVal {
			candidates = append(candidates, i)
		}
	}
	return candidates[rnd.Intn(len(candidates))]
}

// SelectDigit picks a recognition target uniformly. The recognition matrix
// is not consulted.
func SelectDigit(rnd Rand) Digit {
	return Digit(rnd.Intn(Size))
}
