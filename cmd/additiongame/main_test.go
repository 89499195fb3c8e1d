package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnw-engineering/AdditionGame/internal/config"
	"github.com/pnw-engineering/AdditionGame/internal/model"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Level)
	assert.Nil(t, cfg.AutoTest.ErrorRate)
}

func TestResetLevels(t *testing.T) {
	all, err := resetLevels("ALL")
	require.NoError(t, err)
	assert.Equal(t, model.Levels, all)

	one, err := resetLevels("addition")
	require.NoError(t, err)
	assert.Equal(t, []model.Level{model.LevelAddition}, one)

	_, err = resetLevels("subtraction")
	assert.Error(t, err)
}

func TestStatsFilter(t *testing.T) {
	filter, err := statsFilter("recognition", "2026-01-02", 5)
	require.NoError(t, err)
	require.NotNil(t, filter.Level)
	assert.Equal(t, model.LevelRecognition, *filter.Level)
	require.NotNil(t, filter.Since)
	assert.Equal(t, 2, filter.Since.Day())
	assert.Equal(t, 5, filter.Last)

	_, err = statsFilter("", "01/02/2026", 0)
	assert.Error(t, err)
	_, err = statsFilter("", "", -1)
	assert.Error(t, err)
}

func TestValidateConfigs(t *testing.T) {
	assert.NoError(t, validateConfig(model.Config{Level: model.LevelAddition}))
	assert.Error(t, validateConfig(model.Config{Level: model.Level(4)}))
	assert.Error(t, validateConfig(model.Config{FeedbackDelayMs: -1}))

	assert.NoError(t, validateAutoTestConfig(model.AutoTestConfig{Iterations: 10, ErrorRate: 0.1}))
	assert.Error(t, validateAutoTestConfig(model.AutoTestConfig{ErrorRate: 1.2}))
	assert.Error(t, validateAutoTestConfig(model.AutoTestConfig{Iterations: -1}))
	assert.Error(t, validateAutoTestConfig(model.AutoTestConfig{DelayMs: -5}))
}

func TestAutotestStatsAndReset(t *testing.T) {
	isolateXDG(t)

	out, err := execute(t, "autotest", "--iterations", "20", "--delay-ms", "0", "--seed", "7", "--error-rate", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Answered 20: 20 correct, 0 wrong")
	assert.Contains(t, out, "Addition tries")

	out, err = execute(t, "stats", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "addition")
	assert.NotContains(t, out, "No answers recorded yet.")

	out, err = execute(t, "reset", "--level", "all", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared recognition progress")
	assert.Contains(t, out, "Cleared addition progress")

	out, err = execute(t, "stats", "--plain")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No answers recorded yet."), out)
}

func TestResetRejectsUnknownLevel(t *testing.T) {
	isolateXDG(t)
	_, err := execute(t, "reset", "--level", "fractions")
	assert.Error(t, err)
}
