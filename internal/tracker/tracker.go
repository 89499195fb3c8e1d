// Package tracker owns practice progress and session stats and grades
// submitted answers.
package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pnw-engineering/AdditionGame/internal/generator"
	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

// ErrNoProblem is returned when an answer arrives with no active problem.
var ErrNoProblem = errors.New("no active problem")

// Result describes a graded answer.
type Result struct {
	Problem   model.Problem
	Submitted int
	Correct   bool
	Stats     model.LevelStats
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStore persists stats and progress through kv.
func WithStore(kv KV) Option {
	return func(t *Tracker) { t.kv = kv }
}

// WithAnswerLog appends every graded answer to log.
func WithAnswerLog(log AnswerLog) Option {
	return func(t *Tracker) { t.answers = log }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithOnChange registers a callback fired whenever a level's matrix changes.
func WithOnChange(fn func(model.Level)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

// WithClock overrides the time source used for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker is the single owner of progress matrices and per-level stats.
// It is not safe for concurrent use.
type Tracker struct {
	progress *progress.Progress
	stats    [2]model.LevelStats
	gen      *generator.Generator

	level   model.Level
	current *model.Problem

	kv        KV
	answers   AnswerLog
	logger    *slog.Logger
	onChange  func(model.Level)
	now       func() time.Time
	sessionID string
}

// New returns a Tracker with zeroed progress on the recognition level.
func New(gen *generator.Generator, opts ...Option) *Tracker {
	t := &Tracker{
		gen:       gen,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.progress = progress.New(t.notify)
	return t
}

// SessionID identifies this tracker's answers in the history.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Progress returns the live progress matrices. Callers must not mutate them.
func (t *Tracker) Progress() *progress.Progress {
	return t.progress
}

// Stats returns the counters of one level.
func (t *Tracker) Stats(level model.Level) model.LevelStats {
	if !level.Valid() {
		return model.LevelStats{}
	}
	return t.stats[level]
}

// Level returns the level new problems are generated for.
func (t *Tracker) Level() model.Level {
	return t.level
}

// SetLevel switches the active level and drops any pending problem.
func (t *Tracker) SetLevel(level model.Level) error {
	if !level.Valid() {
		return &progress.ValidationError{Field: "level", Value: int(level)}
	}
	t.level = level
	t.current = nil
	return nil
}

// Current returns the active problem, if any.
func (t *Tracker) Current() (model.Problem, bool) {
	if t.current == nil {
		return model.Problem{}, false
	}
	return *t.current, true
}

// RequestNewProblem replaces the active problem with a fresh one for the
// current level.
func (t *Tracker) RequestNewProblem() model.Problem {
	p := t.gen.Next(t.level, t.progress)
	t.current = &p
	return p
}

// SubmitAnswer grades value against the active problem. Invalid input is
// rejected before any counter changes. On success the problem is consumed
// and the caller should request a new one.
func (t *Tracker) SubmitAnswer(ctx context.Context, value string) (Result, error) {
	if t.current == nil {
		return Result{}, ErrNoProblem
	}
	submitted, err := parseAnswer(value)
	if err != nil {
		return Result{}, err
	}
	problem := *t.current
	correct := submitted == problem.CorrectAnswer()

	item := itemFor(problem)
	if err := t.progress.RecordTry(item); err != nil {
		return Result{}, err
	}
	if correct {
		err = t.progress.DecrementError(item)
	} else {
		err = t.progress.RecordError(item)
	}
	if err != nil {
		return Result{}, err
	}

	stats := &t.stats[problem.Level]
	if correct {
		stats.Correct++
	} else {
		stats.Wrong++
	}
	t.current = nil

	t.save(ctx)
	t.logAnswer(ctx, problem, submitted, correct)

	return Result{
		Problem:   problem,
		Submitted: submitted,
		Correct:   correct,
		Stats:     *stats,
	}, nil
}

// ResetLevel zeroes the matrix and stats of one level.
func (t *Tracker) ResetLevel(ctx context.Context, level model.Level) error {
	if err := t.progress.Reset(level); err != nil {
		return err
	}
	t.stats[level] = model.LevelStats{}
	if t.current != nil && t.current.Level == level {
		t.current = nil
	}
	t.save(ctx)
	return nil
}

func (t *Tracker) logAnswer(ctx context.Context, p model.Problem, submitted int, correct bool) {
	if t.answers == nil {
		return
	}
	a := model.Answer{
		SessionID:  t.sessionID,
		Level:      p.Level,
		Submitted:  submitted,
		Correct:    correct,
		AnsweredAt: t.now(),
	}
	if p.Level == model.LevelAddition {
		a.First, a.Second = p.First, p.Second
	} else {
		a.First = p.Target
	}
	if _, err := t.answers.InsertAnswer(ctx, a); err != nil {
		t.logger.Warn("failed to record answer", "level", p.Level, "err", err)
	}
}

func (t *Tracker) notify(level model.Level) {
	if t.onChange != nil {
		t.onChange(level)
	}
}

func itemFor(p model.Problem) progress.Item {
	if p.Level == model.LevelAddition {
		return progress.Pair{First: p.First, Second: p.Second}
	}
	return progress.Digit(p.Target)
}
