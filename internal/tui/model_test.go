package tui

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pnw-engineering/AdditionGame/internal/autotest"
	"github.com/pnw-engineering/AdditionGame/internal/generator"
	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

type recordingNarrator struct {
	said []string
}

func (r *recordingNarrator) Say(text string) {
	r.said = append(r.said, text)
}

func newTestModel(t *testing.T, level model.Level) (*Model, *tracker.Tracker, *recordingNarrator) {
	t.Helper()
	gen := generator.NewWithSeed(42)
	tr := tracker.New(gen)
	runner, err := autotest.New(tr, gen.Rand(), 0, nil)
	if err != nil {
		t.Fatalf("autotest: %v", err)
	}
	narrator := &recordingNarrator{}
	m := NewModel(model.Config{Level: level}, tr, narrator, runner, 0, nil)
	return m, tr, narrator
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelAsksFirstProblem(t *testing.T) {
	m, tr, narrator := newTestModel(t, model.LevelAddition)
	p, ok := tr.Current()
	if !ok {
		t.Fatalf("expected an active problem")
	}
	if len(narrator.said) != 1 || !strings.Contains(narrator.said[0], "plus") {
		t.Fatalf("expected spoken addition prompt, got %v", narrator.said)
	}
	if !strings.Contains(m.View(), p.String()+" = ") {
		t.Fatalf("expected problem in view: %q", m.View())
	}
}

func TestRecognitionAnswersOnDigit(t *testing.T) {
	m, tr, narrator := newTestModel(t, model.LevelRecognition)
	p, _ := tr.Current()

	_, cmd := m.Update(runes(strconv.Itoa(p.Target)))
	if cmd == nil {
		t.Fatalf("expected feedback timer")
	}
	if m.feedback == nil || !m.feedback.Correct {
		t.Fatalf("expected correct feedback, got %+v", m.feedback)
	}
	if got := tr.Stats(model.LevelRecognition); got != (model.LevelStats{Correct: 1}) {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if narrator.said[len(narrator.said)-1] != "Good job!" {
		t.Fatalf("expected spoken praise, got %v", narrator.said)
	}

	// Keys are ignored while feedback is showing.
	m.Update(runes("0"))
	if tr.Stats(model.LevelRecognition).Total() != 1 {
		t.Fatalf("expected input ignored during feedback")
	}

	m.Update(feedbackDoneMsg{seq: m.seq})
	if m.feedback != nil {
		t.Fatalf("expected feedback cleared")
	}
	if _, ok := tr.Current(); !ok {
		t.Fatalf("expected next problem after feedback")
	}
}

func TestAdditionAnswerOnEnter(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelAddition)
	p, _ := tr.Current()

	m.Update(runes("x" + strconv.Itoa(p.CorrectAnswer())))
	if m.input.Value() != strconv.Itoa(p.CorrectAnswer()) {
		t.Fatalf("expected only digits in input, got %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.feedback == nil || !m.feedback.Correct {
		t.Fatalf("expected correct feedback, got %+v", m.feedback)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared after submit")
	}
	if tr.Progress().Addition.Tries[p.First][p.Second] != 1 {
		t.Fatalf("expected try recorded for %s", p)
	}
}

func TestEmptySubmitShowsNotice(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelAddition)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no command for rejected input")
	}
	if m.notice == "" {
		t.Fatalf("expected notice for empty input")
	}
	if tr.Stats(model.LevelAddition).Total() != 0 {
		t.Fatalf("expected no stats change")
	}
}

func TestStaleFeedbackTickIgnored(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelRecognition)
	p, _ := tr.Current()
	m.Update(runes(strconv.Itoa(p.Target)))
	m.Update(feedbackDoneMsg{seq: m.seq - 1})
	if m.feedback == nil {
		t.Fatalf("expected stale tick to be ignored")
	}
}

func TestAutoTestOnlyOnAddition(t *testing.T) {
	m, _, _ := newTestModel(t, model.LevelRecognition)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if cmd != nil || m.autoTest {
		t.Fatalf("expected auto test refused on recognition")
	}
	if m.notice == "" {
		t.Fatalf("expected notice explaining refusal")
	}
}

func TestAutoTestStep(t *testing.T) {
	m, tr, narrator := newTestModel(t, model.LevelAddition)
	spoken := len(narrator.said)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if cmd == nil || !m.autoTest {
		t.Fatalf("expected auto test scheduled")
	}
	m.Update(autoStepMsg{seq: m.seq})
	if m.feedback == nil || !m.feedback.Correct {
		t.Fatalf("expected simulated correct answer, got %+v", m.feedback)
	}
	if m.feedbackDelay() != autoFeedbackDelay {
		t.Fatalf("expected short feedback delay during auto test")
	}
	_, cmd = m.Update(feedbackDoneMsg{seq: m.seq})
	if cmd == nil {
		t.Fatalf("expected next auto step scheduled")
	}
	if tr.Stats(model.LevelAddition) != (model.LevelStats{Correct: 1}) {
		t.Fatalf("unexpected stats: %+v", tr.Stats(model.LevelAddition))
	}
	if len(narrator.said) != spoken {
		t.Fatalf("expected silence during auto test, got %v", narrator.said[spoken:])
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.autoTest {
		t.Fatalf("expected auto test stopped")
	}
}

func TestSwitchLevelAndReset(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelAddition)
	p, _ := tr.Current()
	m.Update(runes(strconv.Itoa(p.CorrectAnswer() + 1)))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if tr.Stats(model.LevelAddition).Wrong != 1 {
		t.Fatalf("expected wrong answer recorded")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if tr.Stats(model.LevelAddition).Total() != 0 || tr.Progress().Addition.Errors[p.First][p.Second] != 0 {
		t.Fatalf("expected addition level cleared")
	}
	if m.feedback != nil {
		t.Fatalf("expected feedback dropped on reset")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if tr.Level() != model.LevelRecognition {
		t.Fatalf("expected recognition level, got %v", tr.Level())
	}
	cur, ok := tr.Current()
	if !ok || cur.Level != model.LevelRecognition {
		t.Fatalf("expected recognition problem, got %+v", cur)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelAddition)
	p, _ := tr.Current()
	m.Update(runes(strconv.Itoa(p.CorrectAnswer())))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	out := m.renderFooter()
	if !containsAll(out, []string{"Level addition", "Correct 1", "Wrong 0", "100%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestGridAndHintToggles(t *testing.T) {
	m, tr, _ := newTestModel(t, model.LevelAddition)
	p, _ := tr.Current()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	out := m.View()
	if !containsAll(out, []string{"tries", "errors"}) {
		t.Fatalf("expected grids in view: %s", out)
	}
	if p.First > 0 && !strings.Contains(out, strings.Repeat(string(hintDot), p.First)) {
		t.Fatalf("expected hint dots in view: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
