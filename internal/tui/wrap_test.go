package tui

import (
	"testing"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

func TestKeypadRunesBeforeAnswer(t *testing.T) {
	runes := keypadRunes(nil)
	if len(runes) != 19 {
		t.Fatalf("expected 19 runes, got %d", len(runes))
	}
	if runes[8].s != pendingStyle.Render("4") {
		t.Fatalf("expected pending style for unanswered key")
	}
}

func TestKeypadRunesMarksWrongKeyAndTarget(t *testing.T) {
	res := &tracker.Result{
		Problem:   model.Problem{Level: model.LevelRecognition, Target: 3},
		Submitted: 5,
	}
	runes := keypadRunes(res)
	if runes[10].s != incorrectStyle.Render("5") {
		t.Fatalf("expected incorrect style for pressed key")
	}
	if runes[6].s != currentStyle.Render("3") {
		t.Fatalf("expected target highlighted")
	}
}

func TestAnswerRunesShowsExpectedSum(t *testing.T) {
	res := tracker.Result{
		Problem:   model.Problem{Level: model.LevelAddition, First: 3, Second: 4},
		Submitted: 8,
	}
	got := renderStyledRunes(answerRunes(res))
	want := renderStyledRunes(styleText("8", incorrectStyle)) + renderStyledRunes(styleText("  (7)", pendingStyle))
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHintRunesCountsDots(t *testing.T) {
	runes := hintRunes(model.Problem{Level: model.LevelAddition, First: 2, Second: 3})
	dots := 0
	for _, r := range runes {
		if r.s == hintStyle.Render(string(hintDot)) {
			dots++
		}
	}
	if dots != 5 {
		t.Fatalf("expected 5 dots, got %d", dots)
	}
	if len(hintRunes(model.Problem{Level: model.LevelAddition})) != 3 {
		t.Fatalf("expected only the plus sign for 0 + 0")
	}
}

func TestWrapStyledRunesBreaksAtSpace(t *testing.T) {
	runes := styleText("ab cd", pendingStyle)
	want := pendingStyle.Render("a") + pendingStyle.Render("b") + "\n" + pendingStyle.Render("c") + pendingStyle.Render("d")
	if got := wrapStyledRunes(runes, 3); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	runes := styleText("abcd", pendingStyle)
	want := pendingStyle.Render("a") + pendingStyle.Render("b") + "\n" + pendingStyle.Render("c") + pendingStyle.Render("d")
	if got := wrapStyledRunes(runes, 2); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
