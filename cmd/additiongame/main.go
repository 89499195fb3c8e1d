// Package main provides the CLI entrypoint for additiongame.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pnw-engineering/AdditionGame/internal/autotest"
	"github.com/pnw-engineering/AdditionGame/internal/config"
	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
	"github.com/pnw-engineering/AdditionGame/internal/speech"
	"github.com/pnw-engineering/AdditionGame/internal/stats"
	"github.com/pnw-engineering/AdditionGame/internal/statsui"
	"github.com/pnw-engineering/AdditionGame/internal/tui"
)

const (
	defaultLevel           = "recognition"
	defaultFeedbackDelayMs = 2000
	defaultNarrator        = ""
	defaultIterations      = 100
	defaultAutoDelayMs     = 100
	defaultLogLevel        = "info"
)

var (
	practiceLevel           string
	practiceQuiet           bool
	practiceFeedbackDelayMs int
	practiceNarrator        string
	practiceSeed            int64

	statsPlain  bool
	statsLevel  string
	statsSince  string
	statsLast   int
	statsWindow int

	autoIterations int
	autoErrorRate  float64
	autoDelayMs    int
	autoSeed       int64

	resetLevel   string
	resetHistory bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "additiongame",
		Short:         "Number recognition and addition practice for kids",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLevel, "level", defaultLevel, "start level (recognition or addition)")
	rootCmd.Flags().BoolVar(&practiceQuiet, "quiet", false, "disable spoken prompts")
	rootCmd.Flags().IntVar(&practiceFeedbackDelayMs, "feedback-delay-ms", defaultFeedbackDelayMs, "how long feedback stays on screen")
	rootCmd.Flags().StringVar(&practiceNarrator, "narrator", defaultNarrator, "text-to-speech command, e.g. \"espeak -s 120\"")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 picks one from the clock)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAutotestCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyBoolConfig(cmd, "quiet", &practiceQuiet, fileCfg.Practice.Quiet)
	applyIntConfig(cmd, "feedback-delay-ms", &practiceFeedbackDelayMs, fileCfg.Practice.FeedbackDelayMs)
	applyStringConfig(cmd, "narrator", &practiceNarrator, fileCfg.Practice.Narrator)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)

	level, err := model.ParseLevel(practiceLevel)
	if err != nil {
		return fmt.Errorf("invalid --level: %w", err)
	}
	cfg := model.Config{
		Level:           level,
		Quiet:           practiceQuiet,
		FeedbackDelayMs: practiceFeedbackDelayMs,
		Narrator:        practiceNarrator,
		Seed:            practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := newFileLogger(fileCfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	sess := openSession(context.Background(), cfg.Seed, logger)
	defer sess.Close()

	autoRate := autotest.DefaultErrorRate
	if fileCfg.AutoTest.ErrorRate != nil {
		autoRate = *fileCfg.AutoTest.ErrorRate
	}
	autoDelay := autotest.DefaultDelay
	if fileCfg.AutoTest.DelayMs != nil {
		autoDelay = time.Duration(*fileCfg.AutoTest.DelayMs) * time.Millisecond
	}
	runner, err := autotest.New(sess.tracker, sess.gen.Rand(), autoRate, logger)
	if err != nil {
		return fmt.Errorf("invalid autotest config: %w", err)
	}

	narrator := speech.New(cfg.Narrator, cfg.Quiet, logger)
	m := tui.NewModel(cfg, sess.tracker, narrator, runner, autoDelay, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	cmd.Flags().StringVar(&statsLevel, "level", "", "level filter (recognition or addition)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N answers")
	cmd.Flags().IntVar(&statsWindow, "window", stats.DefaultTrendWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	filter, err := statsFilter(statsLevel, statsSince, statsLast)
	if err != nil {
		return err
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	logger := newStderrLogger(fileCfg.Log.Level)
	closeLog := func() {}
	if !statsPlain {
		logger, closeLog, err = newFileLogger(fileCfg.Log.Level)
		if err != nil {
			return err
		}
	}
	defer closeLog()

	ctx := context.Background()
	sess := openSession(ctx, 0, logger)
	defer sess.Close()
	if sess.store == nil {
		return fmt.Errorf("answer history is unavailable (database could not be opened)")
	}

	if statsPlain {
		report, err := stats.BuildReport(ctx, sess.store, filter, statsWindow)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		opts := stats.RenderOptions{Width: 80}
		if out == os.Stdout {
			opts = stats.DetectOptions(os.Stdout)
		}
		if err := stats.Render(out, report, sess.tracker.Progress(), opts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(sess.store, sess.tracker.Progress(), filter, statsWindow)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newAutotestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autotest",
		Short: "Simulate a child answering addition problems",
		Args:  cobra.NoArgs,
		RunE:  runAutotestCmd,
	}
	cmd.Flags().IntVar(&autoIterations, "iterations", defaultIterations, "number of answers (0 runs until interrupted)")
	cmd.Flags().Float64Var(&autoErrorRate, "error-rate", autotest.DefaultErrorRate, "probability of a wrong answer (0-1)")
	cmd.Flags().IntVar(&autoDelayMs, "delay-ms", defaultAutoDelayMs, "pause between answers")
	cmd.Flags().Int64Var(&autoSeed, "seed", 0, "random seed (0 picks one from the clock)")
	return cmd
}

func runAutotestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "iterations", &autoIterations, fileCfg.AutoTest.Iterations)
	applyFloatConfig(cmd, "error-rate", &autoErrorRate, fileCfg.AutoTest.ErrorRate)
	applyIntConfig(cmd, "delay-ms", &autoDelayMs, fileCfg.AutoTest.DelayMs)
	applyInt64Config(cmd, "seed", &autoSeed, fileCfg.Practice.Seed)

	autoCfg := model.AutoTestConfig{
		Iterations: autoIterations,
		ErrorRate:  autoErrorRate,
		DelayMs:    autoDelayMs,
		Seed:       autoSeed,
	}
	if err := validateAutoTestConfig(autoCfg); err != nil {
		return err
	}

	logger := newStderrLogger(fileCfg.Log.Level)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := openSession(ctx, autoCfg.Seed, logger)
	defer sess.Close()

	runner, err := autotest.New(sess.tracker, sess.gen.Rand(), autoCfg.ErrorRate, logger)
	if err != nil {
		return err
	}
	logger.Info("autotest started", "iterations", autoCfg.Iterations, "error_rate", autoCfg.ErrorRate, "session", sess.tracker.SessionID())
	sum, err := runner.Run(ctx, autoCfg.Iterations, time.Duration(autoCfg.DelayMs)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("autotest failed: %w", err)
	}

	out := cmd.OutOrStdout()
	s := sess.tracker.Stats(model.LevelAddition)
	if _, err := fmt.Fprintf(out, "Answered %d: %d correct, %d wrong\nAddition totals: %d correct, %d wrong (%d%%)\n\n",
		sum.Steps, sum.Correct, sum.Wrong, s.Correct, s.Wrong, stats.Accuracy(s)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	opts := stats.RenderOptions{Width: 80}
	if out == os.Stdout {
		opts = stats.DetectOptions(os.Stdout)
	}
	if err := stats.RenderGrids(out, sess.tracker.Progress(), model.LevelAddition, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear progress for a level",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetLevel, "level", "", "level to clear (recognition, addition or all)")
	cmd.Flags().BoolVar(&resetHistory, "history", false, "also delete the answer history of the level")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	levels, err := resetLevels(resetLevel)
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newStderrLogger(fileCfg.Log.Level)

	ctx := context.Background()
	sess := openSession(ctx, 0, logger)
	defer sess.Close()
	if sess.store == nil {
		return fmt.Errorf("nothing to reset: database could not be opened")
	}

	for _, level := range levels {
		if err := sess.tracker.ResetLevel(ctx, level); err != nil {
			return fmt.Errorf("failed to reset %s: %w", level, err)
		}
		if resetHistory {
			if err := sess.store.DeleteAnswers(ctx, level); err != nil {
				return fmt.Errorf("failed to delete %s history: %w", level, err)
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s progress\n", level); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func resetLevels(value string) ([]model.Level, error) {
	if strings.EqualFold(strings.TrimSpace(value), "all") {
		return append([]model.Level(nil), model.Levels...), nil
	}
	level, err := model.ParseLevel(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --level: %w", err)
	}
	return []model.Level{level}, nil
}

func statsFilter(level, since string, last int) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if strings.TrimSpace(level) != "" {
		parsed, err := model.ParseLevel(level)
		if err != nil {
			return filter, fmt.Errorf("invalid --level: %w", err)
		}
		filter.Level = &parsed
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	filter.Last = last
	return filter, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# additiongame configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = %q     # Start level: recognition or addition
# quiet = false              # Disable spoken prompts
# feedback-delay-ms = %d   # How long feedback stays on screen
# narrator = "espeak -s 120" # Text-to-speech command
# seed = 0                   # Random seed (0 picks one from the clock)

[autotest]
# iterations = %d           # Answers per headless run
# error-rate = %.2f          # Probability of a wrong answer (0-1)
# delay-ms = %d             # Pause between answers

[log]
# level = %q               # debug, info, warn or error
`,
		defaultLevel,
		defaultFeedbackDelayMs,
		defaultIterations,
		autotest.DefaultErrorRate,
		defaultAutoDelayMs,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if !cfg.Level.Valid() {
		return &progress.ValidationError{Field: "level", Value: int(cfg.Level)}
	}
	if cfg.FeedbackDelayMs < 0 {
		return fmt.Errorf("--feedback-delay-ms must be >= 0")
	}
	return nil
}

func validateAutoTestConfig(cfg model.AutoTestConfig) error {
	if cfg.Iterations < 0 {
		return fmt.Errorf("--iterations must be >= 0")
	}
	if cfg.ErrorRate < 0 || cfg.ErrorRate > 1 {
		return fmt.Errorf("--error-rate must be between 0 and 1")
	}
	if cfg.DelayMs < 0 {
		return fmt.Errorf("--delay-ms must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
