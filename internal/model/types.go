// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Level is a practice mode.
type Level int

const (
	// LevelRecognition asks the child to find a single digit.
	LevelRecognition Level = iota
	// LevelAddition asks for the sum of two digits.
	LevelAddition
)

// Levels lists every practice level in display order.
var Levels = []Level{LevelRecognition, LevelAddition}

func (l Level) String() string {
	switch l {
	case LevelRecognition:
		return "recognition"
	case LevelAddition:
		return "addition"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l == LevelRecognition || l == LevelAddition
}

// ParseLevel accepts a level name or its number.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "recognition", "numbers":
		return LevelRecognition, nil
	case "1", "addition", "add":
		return LevelAddition, nil
	default:
		return 0, fmt.Errorf("unknown level %q (want recognition or addition)", s)
	}
}

// Config defines practice settings.
type Config struct {
	Level           Level
	Quiet           bool
	FeedbackDelayMs int
	Narrator        string
	Seed            int64
}

// AutoTestConfig defines settings for the simulated answer loop.
type AutoTestConfig struct {
	Iterations int
	ErrorRate  float64
	DelayMs    int
	Seed       int64
}

// Problem is the question currently awaiting an answer.
type Problem struct {
	Level Level
	// Target is the digit to find on the recognition level.
	Target int
	// First and Second are the addends on the addition level.
	First  int
	Second int
}

// CorrectAnswer returns the value a correct submission must equal.
func (p Problem) CorrectAnswer() int {
	if p.Level == LevelAddition {
		return p.First + p.Second
	}
	return p.Target
}

func (p Problem) String() string {
	if p.Level == LevelAddition {
		return fmt.Sprintf("%d + %d", p.First, p.Second)
	}
	return fmt.Sprintf("%d", p.Target)
}

// LevelStats counts answers for one level. Display only.
type LevelStats struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// Total returns the number of answers counted.
func (s LevelStats) Total() int {
	return s.Correct + s.Wrong
}

// Answer is one graded submission, as kept in the answer history.
type Answer struct {
	ID         int64
	SessionID  string
	Level      Level
	First      int
	Second     int
	Submitted  int
	Correct    bool
	AnsweredAt time.Time
}

// HistoryFilter narrows answer history queries.
type HistoryFilter struct {
	Level *Level
	Since *time.Time
	Last  int
}
