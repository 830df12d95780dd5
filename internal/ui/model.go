package ui

import (
	"context"
	"reflect"
	"strings"

	"github.com/atomicstack/reportlens/internal/backend"
	"github.com/atomicstack/reportlens/internal/document"
	"github.com/atomicstack/reportlens/internal/theme"
	"github.com/atomicstack/reportlens/internal/ui/command"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Catalog *document.Catalog
	Fetcher document.Fetcher
	// Definitions is the location of the sections document; empty uses the
	// built-in git-metrics definitions.
	Definitions string
	Scroll      scroll.Config
	Animate     bool
	Width       int
	Height      int
	ShowFooter  bool
	Style       string
	Watcher     *backend.Watcher
	Context     context.Context
}

// Model implements the Bubble Tea model for the report viewer.
type Model struct {
	session *Session

	content viewport.Model
	explain viewport.Model
	blocks  []int
	anchors []anchorSpan

	jump jumpPrompt

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	animate     bool

	styles    *theme.Styles
	renderer  blockRenderer
	descCache map[string]string

	backend        *backend.Watcher
	backendLastErr string
	infoMsg        string

	bus      *command.Bus
	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the viewer for the documents in opts.Catalog.
func NewModel(opts Options) *Model {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = document.Router{}
	}
	styles := theme.ForName(opts.Style)
	m := &Model{
		session:    NewSession(opts.Catalog, fetcher, opts.Definitions, opts.Scroll),
		content:    viewport.New(0, 0),
		explain:    viewport.New(0, 0),
		jump:       newJumpPrompt(styles),
		showFooter: opts.ShowFooter,
		animate:    opts.Animate,
		styles:     styles,
		renderer:   newBlockRenderer(opts.Style),
		descCache:  make(map[string]string),
		backend:    opts.Watcher,
		bus:        command.New(opts.Context),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.content.MouseWheelEnabled = false
	m.explain.MouseWheelEnabled = false
	m.resize()
	m.registerHandlers()
	return m
}

// Session exposes the viewer session.
func (m *Model) Session() *Session {
	return m.session
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startLoad("", true)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(documentLoadedMsg{}): m.handleDocumentLoadedMsg,
		reflect.TypeOf(frameMsg{}):          m.handleFrameMsg,
		reflect.TypeOf(guardExpiredMsg{}):   m.handleGuardExpiredMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) setInfo(message string) {
	m.infoMsg = strings.TrimSpace(message)
}

func (m *Model) clearInfo() {
	m.infoMsg = ""
}
