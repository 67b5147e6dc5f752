// Package tui provides the Bubble Tea analysis inspector.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/xorbreak/internal/cryptanalysis"
	"github.com/verte-zerg/xorbreak/internal/model"
	"github.com/verte-zerg/xorbreak/internal/report"
)

const (
	tabKeySizes = iota
	tabColumns
	tabPlaintext
)

const defaultWidth = 80

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
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea analysis inspector. It starts from a
// finished analysis and re-runs key recovery when the user steps through the
// ranked key size candidates.
type Model struct {
	freq       cryptanalysis.FrequencyModel[byte]
	opts       cryptanalysis.Options
	ciphertext []byte

	analysis model.Analysis
	ranked   []model.KeySizeScore
	rank     int
	errMsg   string

	tabs        []string
	activeTab   int
	sizeTable   table.Model
	columnTable table.Model
	plaintext   viewport.Model

	width  int
	height int
}

// NewModel constructs an inspector for analysis of ciphertext.
func NewModel(fm cryptanalysis.FrequencyModel[byte], opts cryptanalysis.Options, ciphertext []byte, analysis model.Analysis) *Model {
	m := &Model{
		freq:       fm,
		opts:       opts,
		ciphertext: ciphertext,
		analysis:   analysis,
		ranked:     cryptanalysis.RankKeySizes(analysis.Candidates),
		tabs:       []string{"Key Sizes", "Columns", "Plaintext"},
	}
	for i, ks := range m.ranked {
		if ks.KeySize == analysis.KeySize {
			m.rank = i
			break
		}
	}
	m.sizeTable = newTable([]table.Column{
		{Title: "", Width: 1},
		{Title: "Rank", Width: 4},
		{Title: "Size", Width: 4},
		{Title: "Distance", Width: 8},
		{Title: "Exact", Width: 16},
	})
	m.sizeTable.Focus()
	m.columnTable = newTable([]table.Column{
		{Title: "Column", Width: 6},
		{Title: "Bytes", Width: 5},
		{Title: "Key", Width: 4},
		{Title: "Char", Width: 4},
		{Title: "Score", Width: 8},
	})
	m.plaintext = viewport.New(defaultWidth, 10)
	m.refresh()
	return m
}

// Analysis returns the analysis currently shown.
func (m *Model) Analysis() model.Analysis {
	return m.analysis
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
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "n":
			m.selectRank(m.rank + 1)
			return m, nil
		case "p":
			m.selectRank(m.rank - 1)
			return m, nil
		default:
			var cmd tea.Cmd
			switch m.activeTab {
			case tabKeySizes:
				m.sizeTable, cmd = m.sizeTable.Update(msg)
			case tabColumns:
				m.columnTable, cmd = m.columnTable.Update(msg)
			default:
				m.plaintext, cmd = m.plaintext.Update(msg)
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	_, bodyHeight, _ := m.layoutHeights()
	var body string
	switch m.activeTab {
	case tabKeySizes:
		if len(m.ranked) == 0 {
			body = "No key size candidates."
		} else {
			body = m.sizeTable.View()
		}
	case tabColumns:
		body = m.columnTable.View()
	default:
		body = m.plaintext.View()
	}
	return m.renderHeader() + "\n" + fitLines(body, m.width, bodyHeight) + "\n" + m.renderFooter()
}

// selectRank breaks the ciphertext again with the candidate at rank i,
// wrapping around the ranked list.
func (m *Model) selectRank(i int) {
	count := len(m.ranked)
	if count == 0 {
		return
	}
	i = ((i % count) + count) % count
	analysis, err := cryptanalysis.BreakWithKeySize(m.freq, m.opts, m.ranked[i].KeySize, m.ciphertext)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	analysis.Candidates = m.analysis.Candidates
	m.analysis = analysis
	m.rank = i
	m.errMsg = ""
	m.refresh()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.sizeTable.Blur()
	m.columnTable.Blur()
	switch m.activeTab {
	case tabKeySizes:
		m.sizeTable.Focus()
	case tabColumns:
		m.columnTable.Focus()
	}
}

func (m *Model) refresh() {
	// Reset cursors first: the column count follows the key size.
	m.sizeTable.SetCursor(0)
	m.sizeTable.SetRows(sizeRows(m.ranked, m.analysis.KeySize))
	if len(m.ranked) > 0 {
		m.sizeTable.SetCursor(m.rank)
	}
	m.columnTable.SetCursor(0)
	m.columnTable.SetRows(columnRows(m.analysis.Columns))

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.plaintext.SetContent(wrapText(report.Printable(m.analysis.Plaintext, true), width))
	m.plaintext.GotoTop()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	tableHeight := maxInt(1, bodyHeight-1)
	m.sizeTable.SetWidth(m.width)
	m.sizeTable.SetHeight(tableHeight)
	m.columnTable.SetWidth(m.width)
	m.columnTable.SetHeight(tableHeight)
	m.plaintext.Width = m.width
	m.plaintext.Height = bodyHeight
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
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	summary := fmt.Sprintf("Key size %d", m.analysis.KeySize)
	if len(m.ranked) > 0 {
		summary += fmt.Sprintf(" (rank %d/%d)", m.rank+1, len(m.ranked))
	}
	return headerStyle.Render(summary+"  Key ") + keyStyle.Render(report.QuoteKey(m.analysis.Key))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Key size: n/p  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
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

// sizeRows lists ranked candidates, marking the one in use.
func sizeRows(ranked []model.KeySizeScore, current int) []table.Row {
	rows := make([]table.Row, 0, len(ranked))
	for i, ks := range ranked {
		mark := ""
		if ks.KeySize == current {
			mark = "*"
		}
		f, _ := ks.Score.Float64()
		rows = append(rows, table.Row{
			mark,
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", ks.KeySize),
			fmt.Sprintf("%.4f", f),
			ks.Score.RatString(),
		})
	}
	return rows
}

func columnRows(cols []model.ColumnResult) []table.Row {
	rows := make([]table.Row, 0, len(cols))
	for _, col := range cols {
		f, _ := col.Score.Float64()
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", col.Index),
			fmt.Sprintf("%d", col.Length),
			fmt.Sprintf("0x%02x", col.Key),
			report.Printable([]byte{col.Key}, false),
			fmt.Sprintf("%.4f", f),
		})
	}
	return rows
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
