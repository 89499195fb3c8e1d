package stats

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

const (
	terminalWidthBackup = 80
	sparkLabelWidth     = 14
	weakestLimit        = 10
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// RenderOptions controls plain-text report output.
type RenderOptions struct {
	Width int
	Color bool
}

// DetectOptions sizes output to the terminal behind f and enables colour
// only for terminals without NO_COLOR.
func DetectOptions(f *os.File) RenderOptions {
	opts := RenderOptions{Width: terminalWidthBackup}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return opts
	}
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		opts.Width = width
	}
	opts.Color = os.Getenv("NO_COLOR") == ""
	return opts
}

// Render writes the full text report: summary, trends, grids and weakest items.
func Render(w io.Writer, report Report, p *progress.Progress, opts RenderOptions) error {
	if opts.Width <= 0 {
		opts.Width = terminalWidthBackup
	}
	if err := RenderSummary(w, report, opts); err != nil {
		return err
	}
	for _, level := range model.Levels {
		if !reportHasLevel(report, level) {
			continue
		}
		if err := RenderGrids(w, p, level, opts); err != nil {
			return err
		}
	}
	return RenderWeakest(w, p, opts)
}

// RenderSummary prints per-level totals and accuracy trends.
func RenderSummary(w io.Writer, report Report, opts RenderOptions) error {
	if err := heading(w, "Summary", opts); err != nil {
		return err
	}
	if len(report.Answers) == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded yet.")
		return err
	}
	headers := []string{"Level", "Correct", "Wrong", "Accuracy", "Sessions"}
	rows := make([][]string, 0, len(report.Levels))
	for _, l := range report.Levels {
		rows = append(rows, []string{
			l.Level.String(),
			fmt.Sprintf("%d", l.Stats.Correct),
			fmt.Sprintf("%d", l.Stats.Wrong),
			fmt.Sprintf("%d%%", l.Accuracy),
			fmt.Sprintf("%d", l.Sessions),
		})
	}
	if err := writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, l := range report.Levels {
		if len(l.Trend) == 0 {
			continue
		}
		label := padCell(l.Level.String()+" trend", sparkLabelWidth, false)
		line := Sparkline(Resample(l.Trend, opts.Width-sparkLabelWidth-1))
		if _, err := fmt.Fprintf(w, "%s %s\n", muted(label, opts), line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderGrids prints the tries and errors grids of one level.
func RenderGrids(w io.Writer, p *progress.Progress, level model.Level, opts RenderOptions) error {
	title := map[model.Level]string{
		model.LevelRecognition: "Recognition",
		model.LevelAddition:    "Addition",
	}[level]
	if err := heading(w, title+" tries", opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, p.FormatTries(level)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := heading(w, title+" errors", opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, p.FormatErrors(level)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderWeakest prints the digits and facts that collected the most errors.
func RenderWeakest(w io.Writer, p *progress.Progress, opts RenderOptions) error {
	pairs := WeakestPairs(&p.Addition, weakestLimit)
	digits := WeakestDigits(&p.Recognition, weakestLimit)
	if len(pairs) == 0 && len(digits) == 0 {
		return nil
	}
	if err := heading(w, "Needs practice", opts); err != nil {
		return err
	}
	rows := make([][]string, 0, len(pairs)+len(digits))
	for _, d := range digits {
		rows = append(rows, []string{
			fmt.Sprintf("find %d", int(d.Digit)),
			fmt.Sprintf("%d", d.Tries),
			fmt.Sprintf("%d", d.Errors),
		})
	}
	for _, ps := range pairs {
		rows = append(rows, []string{
			fmt.Sprintf("%d + %d", ps.Pair.First, ps.Pair.Second),
			fmt.Sprintf("%d", ps.Tries),
			fmt.Sprintf("%d", ps.Errors),
		})
	}
	return writeTable(w, []string{"Item", "Tries", "Errors"}, rows, map[int]bool{1: true, 2: true})
}

func heading(w io.Writer, text string, opts RenderOptions) error {
	if opts.Color {
		text = headingStyle.Render(text)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func muted(text string, opts RenderOptions) string {
	if opts.Color {
		return mutedStyle.Render(text)
	}
	return text
}

func reportHasLevel(report Report, level model.Level) bool {
	for _, l := range report.Levels {
		if l.Level == level {
			return true
		}
	}
	return false
}
