package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/reportlens/internal/logging/events"
	"github.com/atomicstack/reportlens/internal/theme"
	"github.com/atomicstack/reportlens/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const jumpPreviewLimit = 3

// jumpPrompt is the "/" prompt that focuses a section by fuzzy title match.
type jumpPrompt struct {
	input  textinput.Model
	active bool
}

func newJumpPrompt(styles *theme.Styles) jumpPrompt {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "section"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Prompt != nil {
		ti.PromptStyle = *styles.Prompt
	}
	if styles.PromptText != nil {
		ti.TextStyle = *styles.PromptText
	}
	return jumpPrompt{input: ti}
}

func (m *Model) openJump() tea.Cmd {
	if m.session.focus.Len() == 0 {
		m.setInfo("no sections to jump to")
		return nil
	}
	events.Jump.Open()
	m.jump.active = true
	m.jump.input.SetValue("")
	return m.jump.input.Focus()
}

func (m *Model) closeJump() {
	m.jump.active = false
	m.jump.input.Blur()
	m.jump.input.SetValue("")
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		events.Jump.Cancel()
		m.closeJump()
		return nil
	case "enter":
		query := m.jump.input.Value()
		index := state.BestJump(m.session.focus.Sections(), query)
		m.closeJump()
		events.Jump.Select(query, index)
		if index < 0 {
			m.setInfo(fmt.Sprintf("no section matches %q", strings.TrimSpace(query)))
			return nil
		}
		m.clearInfo()
		return m.focusSection(index, "jump")
	}
	var cmd tea.Cmd
	m.jump.input, cmd = m.jump.input.Update(msg)
	query := m.jump.input.Value()
	events.Jump.Query(query, len(state.JumpMatches(m.session.focus.Sections(), query)))
	return cmd
}

// jumpLine renders the prompt with a preview of the matching titles.
func (m *Model) jumpLine() string {
	sections := m.session.focus.Sections()
	query := m.jump.input.Value()
	line := m.jump.input.View()
	if strings.TrimSpace(query) == "" {
		return line
	}
	matches := state.JumpMatches(sections, query)
	if len(matches) == 0 {
		return line + "  (no matches)"
	}
	titles := make([]string, 0, jumpPreviewLimit)
	if best := state.BestJump(sections, query); best >= 0 {
		titles = append(titles, sections[best].Title)
	}
	for _, idx := range matches {
		if len(titles) >= jumpPreviewLimit {
			break
		}
		title := sections[idx].Title
		if len(titles) > 0 && titles[0] == title {
			continue
		}
		titles = append(titles, title)
	}
	return fmt.Sprintf("%s  → %s", line, strings.Join(titles, ", "))
}
