package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidInputError reports a submission that is not a whole number.
type InvalidInputError struct {
	Input string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid answer %q: enter a number", e.Input)
}

// parseAnswer accepts an optionally signed integer surrounded by spaces.
// Leading zeros are ignored.
func parseAnswer(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &InvalidInputError{Input: value}
	}
	return n, nil
}
