package ui

import (
	"fmt"

	"github.com/atomicstack/reportlens/internal/backend"
	"github.com/atomicstack/reportlens/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent reloads whatever a file change affects, keeping the
// focused section.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if evt.Err != nil {
		events.Watch.Error(evt.Err)
		m.backendLastErr = evt.Err.Error()
		return nil
	}
	m.backendLastErr = ""
	events.Watch.Event(evt.Kind.String(), evt.Path)
	catalog := m.session.catalog
	switch evt.Kind {
	case backend.KindDefinitions:
		m.setInfo("section definitions changed, reloading")
		return m.startLoad(m.session.CurrentID(), true)
	case backend.KindDocument:
		if catalog == nil || !backend.SamePath(catalog.Current(), evt.Path) {
			return nil
		}
		m.setInfo(fmt.Sprintf("%s changed, reloading", catalog.Name(catalog.Index())))
		return m.startLoad(m.session.CurrentID(), false)
	}
	return nil
}
