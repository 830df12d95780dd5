package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header       *lipgloss.Style
	Position     *lipgloss.Style
	Anchor       *lipgloss.Style
	ActiveAnchor *lipgloss.Style
	Content      *lipgloss.Style
	Focused      *lipgloss.Style
	Dimmed       *lipgloss.Style
	Gutter       *lipgloss.Style
	Separator    *lipgloss.Style
	BlockTitle   *lipgloss.Style
	ActiveBlock  *lipgloss.Style
	BlockBody    *lipgloss.Style
	Empty        *lipgloss.Style
	Loading      *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	Footer       *lipgloss.Style
	Prompt       *lipgloss.Style
	PromptText   *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Position: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Anchor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ActiveAnchor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Content: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Focused: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
	Dimmed: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	Gutter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	BlockTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	ActiveBlock: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	BlockBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Empty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	PromptText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
}

var plainStyles = Styles{}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Plain returns a style set with every style unset; text renders verbatim.
func Plain() *Styles {
	return &plainStyles
}

// ForName picks the style set for a configured style name.
func ForName(name string) *Styles {
	if strings.EqualFold(strings.TrimSpace(name), "plain") {
		return Plain()
	}
	return Default()
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
