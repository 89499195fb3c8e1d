// Package autotest simulates a child answering addition problems so the
// selector's coverage can be observed.
package autotest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

// Defaults used when a config value is unset.
const (
	DefaultErrorRate = 0.1
	DefaultDelay     = 100 * time.Millisecond

	maxSum      = 18
	wrongSpread = 3
)

// Rand is the random source for simulated answers.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Runner answers problems one at a time through a tracker.
type Runner struct {
	tracker   *tracker.Tracker
	rnd       Rand
	errorRate float64
	logger    *slog.Logger
}

// New returns a Runner that answers wrong with probability errorRate.
func New(tr *tracker.Tracker, rnd Rand, errorRate float64, logger *slog.Logger) (*Runner, error) {
	if errorRate < 0 || errorRate > 1 {
		return nil, fmt.Errorf("error rate must be between 0 and 1, got %v", errorRate)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{tracker: tr, rnd: rnd, errorRate: errorRate, logger: logger}, nil
}

// Step answers the active addition problem, generating one first when
// needed, then requests the next problem.
func (r *Runner) Step(ctx context.Context) (tracker.Result, error) {
	if r.tracker.Level() != model.LevelAddition {
		if err := r.tracker.SetLevel(model.LevelAddition); err != nil {
			return tracker.Result{}, err
		}
	}
	problem, ok := r.tracker.Current()
	if !ok {
		problem = r.tracker.RequestNewProblem()
	}
	answer := r.Answer(problem)
	res, err := r.tracker.SubmitAnswer(ctx, strconv.Itoa(answer))
	if err != nil {
		return tracker.Result{}, err
	}
	r.logger.Debug("auto answer", "problem", problem.String(), "answer", answer, "correct", res.Correct)
	r.tracker.RequestNewProblem()
	return res, nil
}

// Answer picks the simulated reply for p: usually correct, otherwise a
// plausible near miss.
func (r *Runner) Answer(p model.Problem) int {
	correct := p.CorrectAnswer()
	if r.rnd.Float64() >= r.errorRate {
		return correct
	}
	options := WrongOptions(correct)
	if len(options) == 0 {
		return correct + 1
	}
	return options[r.rnd.Intn(len(options))]
}

// WrongOptions lists values within 3 of correct that are valid sums but not
// correct.
func WrongOptions(correct int) []int {
	var out []int
	for v := max(0, correct-wrongSpread); v <= correct+wrongSpread; v++ {
		if v != correct && v <= maxSum {
			out = append(out, v)
		}
	}
	return out
}

// Summary totals a run.
type Summary struct {
	Steps   int
	Correct int
	Wrong   int
}

// Run performs steps until iterations are done or ctx is cancelled.
// iterations <= 0 runs until cancellation. delay is waited between steps.
func (r *Runner) Run(ctx context.Context, iterations int, delay time.Duration) (Summary, error) {
	var sum Summary
	for iterations <= 0 || sum.Steps < iterations {
		if err := ctx.Err(); err != nil {
			return sum, nil
		}
		res, err := r.Step(ctx)
		if err != nil {
			return sum, err
		}
		sum.Steps++
		if res.Correct {
			sum.Correct++
		} else {
			sum.Wrong++
		}
		if delay <= 0 {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return sum, nil
		case <-timer.C:
		}
	}
	return sum, nil
}
