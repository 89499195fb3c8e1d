// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pnw-engineering/AdditionGame/internal/autotest"
	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/speech"
	statsPkg "github.com/pnw-engineering/AdditionGame/internal/stats"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

const (
	// DefaultFeedbackDelay is how long a graded answer stays on screen.
	DefaultFeedbackDelay = 2 * time.Second
	autoFeedbackDelay    = 50 * time.Millisecond
	answerDigits         = 2
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type feedbackDoneMsg struct {
	seq int
}

type autoStepMsg struct {
	seq int
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config    model.Config
	tracker   *tracker.Tracker
	narrator  speech.Narrator
	runner    *autotest.Runner
	autoDelay time.Duration
	logger    *slog.Logger

	width  int
	height int

	input    textinput.Model
	feedback *tracker.Result
	seq      int
	notice   string

	showGrid bool
	showHint bool
	autoTest bool
}

// NewModel constructs a practice TUI model. runner may be nil, which
// disables the auto-test toggle.
func NewModel(cfg model.Config, tr *tracker.Tracker, narrator speech.Narrator, runner *autotest.Runner, autoDelay time.Duration, logger *slog.Logger) *Model {
	if narrator == nil {
		narrator = speech.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "?"
	input.CharLimit = answerDigits
	input.Width = answerDigits
	input.Focus()

	m := &Model{
		config:    cfg,
		tracker:   tr,
		narrator:  narrator,
		runner:    runner,
		autoDelay: autoDelay,
		logger:    logger,
		input:     input,
	}
	if err := tr.SetLevel(cfg.Level); err != nil {
		logger.Warn("invalid start level", "level", cfg.Level, "err", err)
	}
	m.nextProblem()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case feedbackDoneMsg:
		if msg.seq != m.seq || m.feedback == nil {
			return m, nil
		}
		m.feedback = nil
		m.nextProblem()
		return m, m.scheduleAuto()
	case autoStepMsg:
		if msg.seq != m.seq || !m.autoTest || m.feedback != nil {
			return m, nil
		}
		problem, ok := m.tracker.Current()
		if !ok {
			problem = m.nextProblem()
		}
		return m, m.submit(strconv.Itoa(m.runner.Answer(problem)))
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlG:
		m.showGrid = !m.showGrid
		return m, nil
	case tea.KeyCtrlH:
		m.showHint = !m.showHint
		return m, nil
	case tea.KeyCtrlL:
		m.switchLevel()
		return m, nil
	case tea.KeyCtrlR:
		m.resetLevel()
		return m, nil
	case tea.KeyCtrlT:
		return m, m.toggleAutoTest()
	}
	if m.autoTest || m.feedback != nil {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyTab:
		m.nextProblem()
		return m, nil
	case tea.KeyEnter:
		if m.tracker.Level() != model.LevelAddition {
			return m, nil
		}
		return m, m.submit(m.input.Value())
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case tea.KeyRunes:
		return m, m.handleRunes(msg)
	default:
		return m, nil
	}
}

// handleRunes answers recognition problems on the first digit typed and
// collects up to two digits for addition.
func (m *Model) handleRunes(msg tea.KeyMsg) tea.Cmd {
	digits := msg.Runes[:0:0]
	for _, r := range msg.Runes {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return nil
	}
	if m.tracker.Level() == model.LevelRecognition {
		return m.submit(string(digits[0]))
	}
	msg.Runes = digits
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) submit(value string) tea.Cmd {
	res, err := m.tracker.SubmitAnswer(context.Background(), value)
	if err != nil {
		var invalid *tracker.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			m.notice = "Type a number first"
		case errors.Is(err, tracker.ErrNoProblem):
			m.nextProblem()
		default:
			m.logger.Error("answer rejected", "value", value, "err", err)
			m.notice = err.Error()
		}
		return nil
	}
	m.notice = ""
	m.feedback = &res
	m.input.SetValue("")
	if !m.autoTest {
		m.narrator.Say(speech.Feedback(res.Correct))
	}
	m.seq++
	seq := m.seq
	return tea.Tick(m.feedbackDelay(), func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (m *Model) feedbackDelay() time.Duration {
	if m.autoTest {
		return autoFeedbackDelay
	}
	if m.config.FeedbackDelayMs > 0 {
		return time.Duration(m.config.FeedbackDelayMs) * time.Millisecond
	}
	return DefaultFeedbackDelay
}

func (m *Model) nextProblem() model.Problem {
	p := m.tracker.RequestNewProblem()
	m.input.SetValue("")
	if !m.autoTest {
		m.narrator.Say(speech.Prompt(p))
	}
	return p
}

func (m *Model) scheduleAuto() tea.Cmd {
	if !m.autoTest {
		return nil
	}
	seq := m.seq
	return tea.Tick(m.autoDelay, func(time.Time) tea.Msg {
		return autoStepMsg{seq: seq}
	})
}

func (m *Model) toggleAutoTest() tea.Cmd {
	if m.autoTest {
		m.autoTest = false
		m.notice = ""
		return nil
	}
	if m.runner == nil || m.tracker.Level() != model.LevelAddition {
		m.notice = "Auto test runs on the addition level only"
		return nil
	}
	m.autoTest = true
	m.showGrid = true
	m.notice = ""
	if m.feedback != nil {
		return nil
	}
	return m.scheduleAuto()
}

func (m *Model) switchLevel() {
	next := model.LevelAddition
	if m.tracker.Level() == model.LevelAddition {
		next = model.LevelRecognition
	}
	if err := m.tracker.SetLevel(next); err != nil {
		m.logger.Error("switch level failed", "level", next, "err", err)
		return
	}
	m.autoTest = false
	m.feedback = nil
	m.notice = ""
	m.seq++
	m.nextProblem()
}

func (m *Model) resetLevel() {
	level := m.tracker.Level()
	if err := m.tracker.ResetLevel(context.Background(), level); err != nil {
		m.logger.Error("reset failed", "level", level, "err", err)
		m.notice = err.Error()
		return
	}
	m.logger.Info("level reset", "level", level)
	m.feedback = nil
	m.seq++
	m.notice = fmt.Sprintf("%s progress cleared", level)
	m.nextProblem()
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderContent() string {
	contentWidth := int(float64(m.width) * 0.70)
	if m.width == 0 {
		contentWidth = 0
	} else if contentWidth < 1 {
		contentWidth = 1
	}

	var problem model.Problem
	if m.feedback != nil {
		problem = m.feedback.Problem
	} else if p, ok := m.tracker.Current(); ok {
		problem = p
	}

	lines := []string{m.renderQuestion(problem)}
	if problem.Level == model.LevelRecognition {
		lines = append(lines, "", renderStyledRunes(keypadRunes(m.feedback)))
	}
	if m.showHint {
		lines = append(lines, "", wrapStyledRunes(hintRunes(problem), contentWidth))
	}
	if m.feedback != nil {
		style := correctStyle
		if !m.feedback.Correct {
			style = incorrectStyle
		}
		lines = append(lines, "", style.Render(speech.Feedback(m.feedback.Correct)))
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	if m.showGrid {
		lines = append(lines, "", m.renderGrid())
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderQuestion(p model.Problem) string {
	question := renderStyledRunes(questionRunes(p))
	if p.Level != model.LevelAddition {
		return question
	}
	if m.feedback != nil {
		return question + renderStyledRunes(answerRunes(*m.feedback))
	}
	return question + m.input.View()
}

func (m *Model) renderGrid() string {
	level := m.tracker.Level()
	p := m.tracker.Progress()
	tries := pendingStyle.Render("tries\n" + p.FormatTries(level))
	errs := pendingStyle.Render("errors\n" + p.FormatErrors(level))
	return lipgloss.JoinHorizontal(lipgloss.Top, tries, "   ", errs)
}

func (m *Model) renderFooter() string {
	level := m.tracker.Level()
	s := m.tracker.Stats(level)
	segments := []string{
		fmt.Sprintf("Level %s", level),
		fmt.Sprintf("Correct %d · Wrong %d · %d%%", s.Correct, s.Wrong, statsPkg.Accuracy(s)),
	}
	if m.autoTest {
		segments = append(segments, "AUTO")
	}
	segments = append(segments, "tab skip · ^l level · ^h hint · ^g grid · ^r reset · esc quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}
