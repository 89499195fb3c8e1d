package progress

import (
	"fmt"
	"strings"

	"github.com/pnw-engineering/AdditionGame/internal/model"
)

// FormatTries renders the attempt counts of a level as a text grid.
func (p *Progress) FormatTries(level model.Level) string {
	switch level {
	case model.LevelRecognition:
		return formatRow(p.Recognition.Tries)
	case model.LevelAddition:
		return formatGrid(p.Addition.Tries)
	default:
		return ""
	}
}

// FormatErrors renders the error counts of a level as a text grid.
func (p *Progress) FormatErrors(level model.Level) string {
	switch level {
	case model.LevelRecognition:
		return formatRow(p.Recognition.Errors)
	case model.LevelAddition:
		return formatGrid(p.Addition.Errors)
	default:
		return ""
	}
}

// Each value is padded to width 2 and separated by one space.
func formatRow(values [Size]int) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("%2d", v)
	}
	return strings.Join(cells, " ")
}

func formatGrid(rows [Size][Size]int) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = formatRow(row)
	}
	return strings.Join(lines, "\n")
}
