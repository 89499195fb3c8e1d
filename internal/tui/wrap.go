package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/tracker"
)

const hintDot = '●'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func styleText(text string, style lipgloss.Style) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

// keypadRunes renders the ten digit keys. After an answer the pressed key
// shows whether it was right, and a missed target is highlighted.
func keypadRunes(res *tracker.Result) []styledRune {
	out := make([]styledRune, 0, 19)
	for d := 0; d <= 9; d++ {
		if d > 0 {
			out = append(out, styleText(" ", pendingStyle)...)
		}
		style := pendingStyle
		if res != nil {
			switch {
			case d == res.Submitted && res.Correct:
				style = correctStyle
			case d == res.Submitted:
				style = incorrectStyle
			case d == res.Problem.Target:
				style = currentStyle
			}
		}
		out = append(out, styleText(fmt.Sprint(d), style)...)
	}
	return out
}

// questionRunes renders the prompt of p without the answer.
func questionRunes(p model.Problem) []styledRune {
	if p.Level == model.LevelAddition {
		return styleText(fmt.Sprintf("%d + %d = ", p.First, p.Second), currentStyle)
	}
	return styleText(fmt.Sprintf("Find the number %d", p.Target), currentStyle)
}

// answerRunes renders a graded addition answer, with the expected sum after
// a wrong one.
func answerRunes(res tracker.Result) []styledRune {
	if res.Correct {
		return styleText(fmt.Sprint(res.Submitted), correctStyle)
	}
	out := styleText(fmt.Sprint(res.Submitted), incorrectStyle)
	out = append(out, styleText(fmt.Sprintf("  (%d)", res.Problem.CorrectAnswer()), pendingStyle)...)
	return out
}

// hintRunes draws one dot per unit of each addend, e.g. "●●● + ●●●●".
func hintRunes(p model.Problem) []styledRune {
	if p.Level != model.LevelAddition {
		return styleText(strings.Repeat(string(hintDot), p.Target), hintStyle)
	}
	out := styleText(strings.Repeat(string(hintDot), p.First), hintStyle)
	out = append(out, styleText(" + ", pendingStyle)...)
	return append(out, styleText(strings.Repeat(string(hintDot), p.Second), hintStyle)...)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
