package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pnw-engineering/AdditionGame/internal/config"
	"github.com/pnw-engineering/AdditionGame/internal/generator"
	"github.com/pnw-engineering/AdditionGame/internal/store"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

// session bundles the tracker with the storage behind it. store is nil when
// the database could not be opened and progress lives in memory only.
type session struct {
	store   *store.Store
	tracker *tracker.Tracker
	gen     *generator.Generator
}

func openSession(ctx context.Context, seed int64, logger *slog.Logger) *session {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &session{gen: generator.NewWithSeed(seed)}
	opts := []tracker.Option{tracker.WithLogger(logger)}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db, progress will not be saved: %v\n", err)
		logger.Warn("using in-memory store", "path", config.DefaultDBPath(), "err", err)
		opts = append(opts, tracker.WithStore(store.NewMemory()))
	} else {
		s.store = st
		opts = append(opts, tracker.WithStore(st), tracker.WithAnswerLog(st))
	}

	s.tracker = tracker.New(s.gen, opts...)
	s.tracker.Load(ctx)
	logger.Debug("session opened", "session", s.tracker.SessionID(), "seed", seed)
	return s
}

func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func parseLogLevel(value *string) slog.Level {
	level := slog.LevelInfo
	if value == nil {
		return level
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(*value))); err != nil {
		logErrf("unknown log level %q, using info\n", *value)
		return slog.LevelInfo
	}
	return level
}

func newLogger(w io.Writer, value *string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(value)}))
}

func newStderrLogger(value *string) *slog.Logger {
	return newLogger(os.Stderr, value)
}

// newFileLogger logs to DefaultLogPath so a full-screen TUI keeps the
// terminal to itself.
func newFileLogger(value *string) (*slog.Logger, func(), error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeFn := func() {
		_ = f.Close()
	}
	return newLogger(f, value), closeFn, nil
}
