// Package speech narrates prompts aloud.
package speech

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pnw-engineering/AdditionGame/internal/model"
)

// Narrator speaks text without blocking. Failures are never reported back.
type Narrator interface {
	Say(text string)
}

// Nop discards everything.
type Nop struct{}

// Say implements Narrator.
func (Nop) Say(string) {}

// Command runs an external text-to-speech program, e.g. "espeak -s 120",
// with the text as its last argument.
type Command struct {
	name   string
	args   []string
	logger *slog.Logger
	run    func(name string, args ...string) error
}

// New returns a Command narrator for cmdline, or Nop when quiet is set or
// cmdline is empty.
func New(cmdline string, quiet bool, logger *slog.Logger) Narrator {
	parts := strings.Fields(cmdline)
	if quiet || len(parts) == 0 {
		return Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Command{
		name:   parts[0],
		args:   parts[1:],
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Say implements Narrator.
func (c *Command) Say(text string) {
	args := append(append([]string(nil), c.args...), text)
	go func() {
		if err := c.run(c.name, args...); err != nil {
			c.logger.Debug("narration failed", "cmd", c.name, "err", err)
		}
	}()
}

// Prompt returns the spoken question for p.
func Prompt(p model.Problem) string {
	if p.Level == model.LevelAddition {
		return fmt.Sprintf("What is %d plus %d?", p.First, p.Second)
	}
	return fmt.Sprintf("Can you touch the number %d?", p.Target)
}

// Feedback returns the spoken reaction to an answer.
func Feedback(correct bool) string {
	if correct {
		return "Good job!"
	}
	return "Try again!"
}
