package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

const (
	blockIndent  = "  "
	activeMarker = "▌ "
	gutterWidth  = 2
)

// blockRenderer turns a section description into pane lines.
type blockRenderer interface {
	Render(text string, width int) string
}

type plainRenderer struct{}

func (plainRenderer) Render(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// glamourRenderer renders descriptions as markdown. The underlying renderer
// is rebuilt whenever the wrap width changes.
type glamourRenderer struct {
	style string
	width int
	term  *glamour.TermRenderer
}

func (g *glamourRenderer) Render(text string, width int) string {
	if g.term == nil || g.width != width {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if g.style == "auto" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(g.style))
		}
		term, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return plainRenderer{}.Render(text, width)
		}
		g.term = term
		g.width = width
	}
	out, err := g.term.Render(text)
	if err != nil {
		return plainRenderer{}.Render(text, width)
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, blockIndent), " ")
	}
	return strings.Join(lines, "\n")
}

func newBlockRenderer(style string) blockRenderer {
	switch name := strings.ToLower(strings.TrimSpace(style)); name {
	case "plain":
		return plainRenderer{}
	case "", "auto":
		return &glamourRenderer{style: "auto"}
	default:
		return &glamourRenderer{style: name}
	}
}

// describe renders a section description, caching the result per width
// until the next load.
func (m *Model) describe(id, text string, width int) string {
	key := fmt.Sprintf("%s@%d", id, width)
	if out, ok := m.descCache[key]; ok {
		return out
	}
	out := m.renderer.Render(text, width)
	m.descCache[key] = out
	return out
}

// refreshPanes rebuilds the text of both panes for the current focus.
func (m *Model) refreshPanes() {
	m.content.SetContent(m.renderContent())
	explanation, blocks := m.renderExplanation()
	m.explain.SetContent(explanation)
	m.blocks = blocks
}

func (m *Model) renderContent() string {
	s := m.session
	width := m.content.Width - gutterWidth
	if s.err != nil {
		wrapped := plainRenderer{}.Render(s.err.Error(), m.content.Width)
		return renderLines([]styledLine{{text: wrapped, style: m.styles.Error}})
	}
	if s.lines == nil {
		name := "report"
		if s.catalog != nil {
			name = s.catalog.Name(s.catalog.Index())
		}
		return renderLines([]styledLine{{text: fmt.Sprintf("Loading %s…", name), style: m.styles.Loading}})
	}
	sectioned := s.focus.Len() > 0
	lines := make([]string, len(s.lines))
	for i, raw := range s.lines {
		text := truncateText(strings.ReplaceAll(raw, "\t", "    "), width)
		gutter := strings.Repeat(" ", gutterWidth)
		style := m.styles.Content
		if sectioned {
			style = m.styles.Dimmed
			if s.focus.InFocus(i) {
				style = m.styles.Focused
				gutter = activeMarker
				if m.styles.Gutter != nil {
					gutter = m.styles.Gutter.Render(gutter)
				}
			}
		}
		if style != nil {
			text = style.Render(text)
		}
		lines[i] = gutter + text
	}
	return strings.Join(lines, "\n")
}

// renderExplanation returns the explanation pane text and the first row of
// every section block.
func (m *Model) renderExplanation() (string, []int) {
	s := m.session
	width := m.explain.Width
	if s.err != nil || s.lines == nil {
		return "", nil
	}
	sections := s.focus.Sections()
	if len(sections) == 0 {
		lines := []styledLine{
			{text: "No sections recognised", style: m.styles.Empty},
			{},
			{text: "None of the section definitions matched this report; the whole output is shown as is.", style: m.styles.Info},
		}
		out := make([]string, 0, len(lines))
		for _, line := range lines {
			wrapped := plainRenderer{}.Render(line.text, width)
			out = append(out, renderLines([]styledLine{{text: wrapped, style: line.style}}))
		}
		return strings.Join(out, "\n"), nil
	}

	active := s.focus.Active()
	rows := make([]string, 0, len(sections)*4)
	blocks := make([]int, len(sections))
	bodyWidth := width - len(blockIndent)
	_, plain := m.renderer.(plainRenderer)
	for i, sec := range sections {
		if i > 0 {
			rows = append(rows, "")
		}
		blocks[i] = len(rows)
		title := truncateText(fmt.Sprintf("%d. %s", i+1, sec.Title), width-gutterWidth)
		if i == active {
			title = activeMarker + title
			if m.styles.ActiveBlock != nil {
				title = m.styles.ActiveBlock.Render(title)
			}
		} else {
			title = blockIndent + title
			if m.styles.BlockTitle != nil {
				title = m.styles.BlockTitle.Render(title)
			}
		}
		rows = append(rows, title)
		if sec.Description == "" {
			continue
		}
		for _, line := range strings.Split(m.describe(sec.ID, sec.Description, bodyWidth), "\n") {
			if plain && m.styles.BlockBody != nil && i != active {
				line = m.styles.BlockBody.Render(line)
			}
			rows = append(rows, blockIndent+line)
		}
	}
	return strings.Join(rows, "\n"), blocks
}
