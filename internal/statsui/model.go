// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
	"github.com/pnw-engineering/AdditionGame/internal/stats"
)

const (
	tabOverview = iota
	tabRecognition
	tabAddition
	tabHistory
)

const (
	weakestLimit = 8
	historyLimit = 200
	widthBackup  = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	cellStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	weakCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src      stats.HistorySource
	progress *progress.Progress
	filter   model.HistoryFilter
	window   int

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	historyTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model over the answer history in src and
// the live matrices in p.
func NewModel(src stats.HistorySource, p *progress.Progress, filter model.HistoryFilter, window int) *Model {
	if window <= 0 {
		window = stats.DefaultTrendWindow
	}
	m := &Model{
		src:      src,
		progress: p,
		filter:   filter,
		window:   window,
		tabs:     []string{"Overview", "Recognition", "Addition", "History"},
	}
	m.initInputs()
	m.historyTable = buildHistoryTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextWindow(m.window)
			m.refreshReport()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Level (recognition/addition/any): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	if m.filter.Level != nil {
		m.filterInputs[0].SetValue(m.filter.Level.String())
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.filter.Since != nil {
		m.filterInputs[1].SetValue(m.filter.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(max(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	level := "any"
	if m.filter.Level != nil {
		level = m.filter.Level.String()
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Settings: level=%s  since=%s  last=%s  window=%d", level, since, last, m.window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabHistory {
		if len(m.report.Answers) == 0 {
			return fitLines("No answers found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.historyTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.filter, m.window)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.historyTable.SetRows(historyRows(report.Answers))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = widthBackup
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabRecognition].SetContent(renderRecognition(&m.progress.Recognition))
	m.viewports[tabAddition].SetContent(renderAddition(&m.progress.Addition))
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Answers) == 0 {
		return "No answers found."
	}
	var sections []string
	for _, l := range report.Levels {
		if l.Stats.Total() == 0 {
			continue
		}
		cards := []string{
			metricCard("Level", l.Level.String()),
			metricCard("Answers", strconv.Itoa(l.Stats.Total())),
			metricCard("Correct", strconv.Itoa(l.Stats.Correct)),
			metricCard("Accuracy", fmt.Sprintf("%d%%", l.Accuracy)),
			metricCard("Sessions", strconv.Itoa(l.Sessions)),
		}
		var row string
		if width < widthBackup {
			row = strings.Join(cards, "\n")
		} else {
			row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
		}
		trend := headerStyle.Render("Trend ") + stats.Sparkline(stats.Resample(l.Trend, max(1, width-6)))
		sections = append(sections, row+"\n"+trend)
	}
	return strings.Join(sections, "\n\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderRecognition(m *progress.RecognitionMatrix) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("digit  "))
	for d := 0; d < progress.Size; d++ {
		fmt.Fprintf(&b, "%3d", d)
	}
	b.WriteString("\n" + headerStyle.Render("tries  "))
	for d := 0; d < progress.Size; d++ {
		b.WriteString(cellStyle.Render(fmt.Sprintf("%3d", m.Tries[d])))
	}
	b.WriteString("\n" + headerStyle.Render("errors "))
	for d := 0; d < progress.Size; d++ {
		b.WriteString(heatCell(m.Errors[d]))
	}
	if weak := stats.WeakestDigits(m, weakestLimit); len(weak) > 0 {
		b.WriteString("\n\n" + headerStyle.Render("Needs practice: "))
		parts := make([]string, len(weak))
		for i, w := range weak {
			parts[i] = fmt.Sprintf("%d (%d errors)", int(w.Digit), w.Errors)
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

func renderAddition(m *progress.AdditionMatrix) string {
	tries := renderGrid("tries", func(i, j int) string {
		return cellStyle.Render(fmt.Sprintf("%3d", m.Tries[i][j]))
	})
	errs := renderGrid("errors", func(i, j int) string {
		return heatCell(m.Errors[i][j])
	})
	out := lipgloss.JoinHorizontal(lipgloss.Top, tries, "    ", errs)
	if weak := stats.WeakestPairs(m, weakestLimit); len(weak) > 0 {
		parts := make([]string, len(weak))
		for i, w := range weak {
			parts[i] = fmt.Sprintf("%d+%d (%d)", w.Pair.First, w.Pair.Second, w.Errors)
		}
		out += "\n\n" + headerStyle.Render("Needs practice: ") + strings.Join(parts, ", ")
	}
	return out
}

// renderGrid draws a labelled 10x10 grid, first addend down the side and
// second addend across the top.
func renderGrid(title string, cell func(i, j int) string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s", "+")))
	for j := 0; j < progress.Size; j++ {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%3d", j)))
	}
	for i := 0; i < progress.Size; i++ {
		b.WriteString("\n" + headerStyle.Render(fmt.Sprintf("%2d |", i)))
		for j := 0; j < progress.Size; j++ {
			b.WriteString(cell(i, j))
		}
	}
	return cardTitleStyle.Render(title) + "\n" + b.String()
}

func heatCell(errors int) string {
	text := fmt.Sprintf("%3d", errors)
	if errors > 0 {
		return weakCellStyle.Render(text)
	}
	return cellStyle.Render(text)
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Time", Width: 16},
		{Title: "Level", Width: 11},
		{Title: "Problem", Width: 8},
		{Title: "Answer", Width: 6},
		{Title: "Result", Width: 7},
	}
}

func historyRows(answers []model.Answer) []table.Row {
	start := max(0, len(answers)-historyLimit)
	rows := make([]table.Row, 0, len(answers)-start)
	for i := len(answers) - 1; i >= start; i-- {
		a := answers[i]
		problem := strconv.Itoa(a.First)
		if a.Level == model.LevelAddition {
			problem = fmt.Sprintf("%d + %d", a.First, a.Second)
		}
		result := "wrong"
		if a.Correct {
			result = "right"
		}
		rows = append(rows, table.Row{
			a.AnsweredAt.Local().Format("2006-01-02 15:04"),
			a.Level.String(),
			problem,
			strconv.Itoa(a.Submitted),
			result,
		})
	}
	return rows
}

func buildHistoryTable(answers []model.Answer, width, height int) table.Model {
	t := table.New(
		table.WithColumns(historyColumns()),
		table.WithRows(historyRows(answers)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	var level *model.Level
	levelInput := strings.TrimSpace(m.filterInputs[0].Value())
	if levelInput != "" && levelInput != "any" {
		parsed, err := model.ParseLevel(levelInput)
		if err != nil {
			return err
		}
		level = &parsed
	}

	var since *time.Time
	sinceInput := strings.TrimSpace(m.filterInputs[1].Value())
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	last := 0
	lastInput := strings.TrimSpace(m.filterInputs[2].Value())
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	m.filter = model.HistoryFilter{Level: level, Since: since, Last: last}
	return nil
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
