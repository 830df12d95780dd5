package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/reportlens/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	headerRows      = 2
	anchorRow       = 1
	separatorWidth  = 3
	minPaneWidth    = 12
	contentFraction = 0.6
	anchorGap       = "  "
	footerHint      = "↑/↓ section  ←/→ document  1-9 pick  / jump  pgup/pgdn scroll  r reload  q quit"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// anchorSpan is the clickable column range of one anchor bar link.
type anchorSpan struct {
	start int
	end   int
	index int
}

// View implements tea.Model.
func (m *Model) View() string {
	width, _ := m.viewSize()
	top := applyWidth([]styledLine{
		m.headerLine(),
		m.anchorLine(width),
	}, width)

	bodyHeight := m.bodyHeight()
	separator := strings.TrimSuffix(strings.Repeat(" │ \n", bodyHeight), "\n")
	if m.styles.Separator != nil {
		separator = m.styles.Separator.Render(separator)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.content.View(), separator, m.explain.View())

	bottom := []styledLine{m.statusLine()}
	if m.showFooter {
		bottom = append(bottom, styledLine{text: footerHint, style: m.styles.Footer})
	}
	bottom = applyWidth(bottom, width)

	return renderLines(top) + "\n" + body + "\n" + renderLines(bottom)
}

func (m *Model) headerLine() styledLine {
	s := m.session
	if s.catalog == nil {
		return styledLine{text: "reportlens", style: m.styles.Header}
	}
	name := s.catalog.Name(s.catalog.Index())
	position := fmt.Sprintf("%d/%d", s.catalog.Index()+1, s.catalog.Len())
	if s.loading {
		position += " (loading…)"
	}
	text := name
	pos := "  " + position
	if m.styles.Header != nil {
		text = m.styles.Header.Render(text)
	}
	if m.styles.Position != nil {
		pos = m.styles.Position.Render(pos)
	}
	return styledLine{text: text + pos, raw: true}
}

// anchorLine renders one "N. FirstWord" link per section with exactly one
// active link. When the bar is wider than the screen it is scrolled so the
// active link stays visible; m.anchors records the visible link columns.
func (m *Model) anchorLine(width int) styledLine {
	m.anchors = m.anchors[:0]
	sections := m.session.focus.Sections()
	if len(sections) == 0 {
		if m.session.lines != nil && m.session.err == nil {
			return styledLine{text: "(no sections recognised)", style: m.styles.Empty}
		}
		return styledLine{}
	}
	labels := make([]string, len(sections))
	for i, sec := range sections {
		labels[i] = anchorLabel(i, sec.Title)
	}
	active := m.session.focus.Active()
	first := firstVisibleAnchor(labels, active, width)

	var b strings.Builder
	col := 0
	for i := first; i < len(labels); i++ {
		w := lipgloss.Width(labels[i])
		if i > first {
			if col+len(anchorGap)+w > width && i != active {
				break
			}
			b.WriteString(anchorGap)
			col += len(anchorGap)
		}
		style := m.styles.Anchor
		if i == active {
			style = m.styles.ActiveAnchor
		}
		label := labels[i]
		if style != nil {
			label = style.Render(label)
		}
		b.WriteString(label)
		m.anchors = append(m.anchors, anchorSpan{start: col, end: col + w, index: i})
		col += w
	}
	return styledLine{text: b.String(), raw: true}
}

func anchorLabel(index int, title string) string {
	word := title
	if fields := strings.Fields(title); len(fields) > 0 {
		word = fields[0]
	}
	return fmt.Sprintf("%d. %s", index+1, word)
}

// firstVisibleAnchor returns the first link to draw so that the active
// link ends inside width.
func firstVisibleAnchor(labels []string, active, width int) int {
	if width <= 0 {
		return 0
	}
	first := 0
	for first < active {
		total := 0
		for i := first; i <= active; i++ {
			if i > first {
				total += len(anchorGap)
			}
			total += lipgloss.Width(labels[i])
		}
		if total <= width {
			break
		}
		first++
	}
	return first
}

func (m *Model) statusLine() styledLine {
	if m.jump.active {
		return styledLine{text: m.jumpLine(), raw: true}
	}
	if m.backendLastErr != "" {
		return styledLine{text: fmt.Sprintf("Watch error: %s", m.backendLastErr), style: m.styles.Error}
	}
	if m.infoMsg != "" {
		return styledLine{text: m.infoMsg, style: m.styles.Info}
	}
	if cur, ok := m.session.focus.Current(); ok {
		text := fmt.Sprintf("%s  lines %d-%d", cur.Title, cur.StartLine+1, cur.EndLine+1)
		return styledLine{text: text, style: m.styles.Info}
	}
	return styledLine{}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	events.UI.Resize(resize.Width, resize.Height)
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resize()
	if m.session.focus.Len() == 0 {
		return nil
	}
	// realign for the new geometry; cancels any running animation
	if tr, ok := m.session.sync.FocusIndex(m.session.focus.Active(), m.layout(), false); ok {
		return m.beginTransition(tr)
	}
	return nil
}

// resize applies the current geometry to both panes.
func (m *Model) resize() {
	contentWidth, explainWidth := m.paneWidths()
	height := m.bodyHeight()
	m.content.Width = contentWidth
	m.content.Height = height
	m.explain.Width = explainWidth
	m.explain.Height = height
	m.refreshPanes()
}

func (m *Model) viewSize() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func (m *Model) bodyHeight() int {
	_, height := m.viewSize()
	rows := height - headerRows - 1
	if m.showFooter {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) paneWidths() (int, int) {
	width, _ := m.viewSize()
	content := int(float64(width) * contentFraction)
	if content < minPaneWidth {
		content = minPaneWidth
	}
	explain := width - content - separatorWidth
	if explain < minPaneWidth {
		explain = minPaneWidth
	}
	return content, explain
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

// truncateText cuts text to width terminal cells, marking the cut with an
// ellipsis.
func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ansi.Truncate(text, 1, "")
	}
	return ansi.Truncate(text, width, "…")
}
