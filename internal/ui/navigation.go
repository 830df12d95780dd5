package ui

import (
	"time"

	"github.com/atomicstack/reportlens/internal/logging/events"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	wheelStep = 3
	lineStep  = 1
)

type frameMsg struct {
	generation uint64
}

type guardExpiredMsg struct {
	generation uint64
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.jump.active {
		return m.handleJumpKey(keyMsg)
	}
	key := keyMsg.String()
	events.UI.Key(key)
	switch key {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "down":
		return m.stepSection(1)
	case "up":
		return m.stepSection(-1)
	case "right":
		return m.switchDocument(1)
	case "left":
		return m.switchDocument(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.focusSection(int(key[0]-'1'), "digit")
	case "enter":
		return m.focusSection(m.session.focus.Active(), "realign")
	case "pgdown", " ":
		return m.scrollContent(m.content.Height)
	case "pgup":
		return m.scrollContent(-m.content.Height)
	case "j":
		return m.scrollContent(lineStep)
	case "k":
		return m.scrollContent(-lineStep)
	case "g", "home":
		return m.scrollContentTo(0)
	case "G", "end":
		return m.scrollContentTo(m.content.TotalLineCount())
	case "/":
		return m.openJump()
	case "r":
		m.clearInfo()
		return m.startLoad(m.session.CurrentID(), true)
	}
	return nil
}

// stepSection moves the focus to the next or previous section.
func (m *Model) stepSection(delta int) tea.Cmd {
	tr, ok := m.session.sync.Step(delta, m.layout(), m.animate)
	if !ok {
		return nil
	}
	m.traceFocus(tr, "step")
	return m.beginTransition(tr)
}

// focusSection focuses index. Out-of-range indexes are ignored.
func (m *Model) focusSection(index int, source string) tea.Cmd {
	tr, ok := m.session.sync.FocusIndex(index, m.layout(), m.animate)
	if !ok {
		return nil
	}
	m.traceFocus(tr, source)
	return m.beginTransition(tr)
}

// switchDocument moves through the catalog without wrapping and reloads,
// keeping the focused section when the next document has it.
func (m *Model) switchDocument(delta int) tea.Cmd {
	catalog := m.session.catalog
	if catalog == nil {
		return nil
	}
	from := catalog.Index()
	preserve := m.session.CurrentID()
	var moved bool
	if delta > 0 {
		moved = catalog.Next()
	} else {
		moved = catalog.Prev()
	}
	if !moved {
		return nil
	}
	events.Document.Switch(from, catalog.Index(), preserve)
	m.clearInfo()
	return m.startLoad(preserve, false)
}

// scrollContent scrolls the content pane by delta rows as if by hand.
func (m *Model) scrollContent(delta int) tea.Cmd {
	return m.scrollContentTo(m.content.YOffset + delta)
}

func (m *Model) scrollContentTo(offset int) tea.Cmd {
	// the panes belong to the running transition until it settles
	if m.session.sync.Guarded() {
		events.Focus.Suppressed(offset)
		return nil
	}
	m.content.SetYOffset(offset)
	tr, ok := m.session.sync.ManualScroll(m.content.YOffset, m.layout())
	if !ok {
		return nil
	}
	m.traceFocus(tr, "manual")
	return m.beginTransition(tr)
}

func (m *Model) scrollExplanation(delta int) {
	if m.session.sync.Guarded() {
		return
	}
	m.explain.SetYOffset(m.explain.YOffset + delta)
}

// beginTransition restyles both panes for the new focus and moves them,
// at once or through animation frames.
func (m *Model) beginTransition(tr scroll.Transition) tea.Cmd {
	events.Scroll.Begin(tr.Generation, tr.Index, tr.Content, tr.Explanation, tr.Animated)
	m.refreshPanes()
	if tr.Animated {
		cfg := m.session.sync.Config()
		return tea.Batch(
			frameCmd(tr.Generation, cfg.FrameInterval()),
			guardCmd(tr.Generation, cfg.GuardTimeout),
		)
	}
	if tr.MoveContent {
		m.content.SetYOffset(tr.Content)
	}
	m.explain.SetYOffset(tr.Explanation)
	return nil
}

func (m *Model) traceFocus(tr scroll.Transition, source string) {
	events.Focus.Set(m.session.CurrentID(), tr.Index, source)
}

func frameCmd(generation uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{generation: generation}
	})
}

func guardCmd(generation uint64, timeout time.Duration) tea.Cmd {
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return guardExpiredMsg{generation: generation}
	})
}

func (m *Model) handleFrameMsg(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(frameMsg)
	if !ok {
		return nil
	}
	next, ok := m.session.sync.Advance(frame.generation)
	if !ok {
		return nil
	}
	m.content.SetYOffset(next.Content)
	m.explain.SetYOffset(next.Explanation)
	if next.Done {
		events.Scroll.Settle(frame.generation)
		return nil
	}
	return frameCmd(frame.generation, m.session.sync.Config().FrameInterval())
}

func (m *Model) handleGuardExpiredMsg(msg tea.Msg) tea.Cmd {
	expired, ok := msg.(guardExpiredMsg)
	if !ok {
		return nil
	}
	final, ok := m.session.sync.Expire(expired.generation)
	if !ok {
		return nil
	}
	events.Scroll.Expire(expired.generation)
	m.content.SetYOffset(final.Content)
	m.explain.SetYOffset(final.Explanation)
	return nil
}

// layout snapshots both panes for the synchronizer.
func (m *Model) layout() scroll.Layout {
	return scroll.Layout{
		ContentHeight:     m.content.Height,
		ContentRows:       m.content.TotalLineCount(),
		ContentOffset:     m.content.YOffset,
		ExplanationHeight: m.explain.Height,
		ExplanationRows:   m.explain.TotalLineCount(),
		ExplanationOffset: m.explain.YOffset,
		Blocks:            append([]int(nil), m.blocks...),
	}
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || m.jump.active {
		return nil
	}
	contentWidth, _ := m.paneWidths()
	overContent := ev.X < contentWidth
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		if overContent {
			return m.scrollContent(-wheelStep)
		}
		m.scrollExplanation(-wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		if overContent {
			return m.scrollContent(wheelStep)
		}
		m.scrollExplanation(wheelStep)
		return nil
	case tea.MouseButtonLeft:
		if ev.Action != tea.MouseActionPress {
			return nil
		}
		index := m.indexAt(ev.X, ev.Y)
		events.UI.Click(ev.X, ev.Y, index)
		if index < 0 {
			return nil
		}
		return m.focusSection(index, "click")
	}
	return nil
}

// indexAt maps a screen cell to a section: a link in the anchor bar, a line
// of the content pane or a block of the explanation pane.
func (m *Model) indexAt(x, y int) int {
	if y == anchorRow {
		for _, span := range m.anchors {
			if x >= span.start && x < span.end {
				return span.index
			}
		}
		return -1
	}
	row := y - headerRows
	if row < 0 || row >= m.content.Height {
		return -1
	}
	contentWidth, _ := m.paneWidths()
	if x < contentWidth {
		if idx, ok := m.session.focus.FindByLine(m.content.YOffset + row); ok {
			return idx
		}
		return -1
	}
	if x < contentWidth+separatorWidth {
		return -1
	}
	line := m.explain.YOffset + row
	index := -1
	for i, top := range m.blocks {
		if top <= line {
			index = i
		}
	}
	return index
}
