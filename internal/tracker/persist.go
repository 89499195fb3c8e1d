package tracker

import (
	"context"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

// Keys used in the key-value store.
const (
	KeyGameStats = "game_stats"
	KeyProgress  = "progress_matrix"
)

// KV is an opaque key-value store holding plain JSON-like data.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// AnswerLog receives every graded answer.
type AnswerLog interface {
	InsertAnswer(ctx context.Context, a model.Answer) (int64, error)
}

type savedStats struct {
	Level0 model.LevelStats `json:"level0"`
	Level1 model.LevelStats `json:"level1"`
}

type savedProgress struct {
	Recognition progress.RecognitionMatrix `json:"0"`
	Addition    progress.AdditionMatrix    `json:"1"`
}

// Load restores stats and progress from the store. Missing keys keep the
// zero defaults. Failures are logged and leave in-memory state unchanged.
func (t *Tracker) Load(ctx context.Context) {
	if t.kv == nil {
		return
	}
	var stats savedStats
	if found, err := t.kv.Get(ctx, KeyGameStats, &stats); err != nil {
		t.logger.Warn("failed to load stats", "err", err)
	} else if found {
		t.stats[model.LevelRecognition] = clampStats(stats.Level0)
		t.stats[model.LevelAddition] = clampStats(stats.Level1)
	}

	var saved savedProgress
	if found, err := t.kv.Get(ctx, KeyProgress, &saved); err != nil {
		t.logger.Warn("failed to load progress", "err", err)
	} else if found {
		t.progress.Recognition = saved.Recognition
		t.progress.Addition = saved.Addition
		clampErrors(t.progress)
		t.notify(model.LevelRecognition)
		t.notify(model.LevelAddition)
	}
}

func (t *Tracker) save(ctx context.Context) {
	if t.kv == nil {
		return
	}
	stats := savedStats{
		Level0: t.stats[model.LevelRecognition],
		Level1: t.stats[model.LevelAddition],
	}
	if err := t.kv.Set(ctx, KeyGameStats, stats); err != nil {
		t.logger.Warn("failed to save stats", "err", err)
	}
	saved := savedProgress{
		Recognition: t.progress.Recognition,
		Addition:    t.progress.Addition,
	}
	if err := t.kv.Set(ctx, KeyProgress, saved); err != nil {
		t.logger.Warn("failed to save progress", "err", err)
	}
}

func clampStats(s model.LevelStats) model.LevelStats {
	return model.LevelStats{Correct: max(0, s.Correct), Wrong: max(0, s.Wrong)}
}

// clampErrors keeps loaded counters non-negative.
func clampErrors(p *progress.Progress) {
	for i := range p.Recognition.Errors {
		p.Recognition.Errors[i] = max(0, p.Recognition.Errors[i])
		p.Recognition.Tries[i] = max(0, p.Recognition.Tries[i])
	}
	for i := range p.Addition.Errors {
		for j := range p.Addition.Errors[i] {
			p.Addition.Errors[i][j] = max(0, p.Addition.Errors[i][j])
			p.Addition.Tries[i][j] = max(0, p.Addition.Tries[i][j])
		}
	}
}
