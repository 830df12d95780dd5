package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/reportlens/internal/document"
	"github.com/atomicstack/reportlens/internal/logging/events"
	"github.com/atomicstack/reportlens/internal/section"
	"github.com/atomicstack/reportlens/internal/ui/command"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	"github.com/atomicstack/reportlens/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// LoadError is shown in place of the report when a load fails. Init marks a
// failure to read the section definitions.
type LoadError struct {
	Init bool
	Err  error
}

func (e *LoadError) Error() string {
	if e.Init {
		return fmt.Sprintf("Failed to initialize: %v", e.Err)
	}
	return fmt.Sprintf("Failed to load output: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Session is the state of one viewer run: the document catalog, the
// definitions shared by every load, and the sections of the document on
// screen. Sections and focus are rebuilt in full by every load.
type Session struct {
	catalog     *document.Catalog
	fetcher     document.Fetcher
	definitions string

	set   *section.Set
	lines []string
	focus *state.Focus
	sync  *scroll.Synchronizer

	seq      uint64
	loading  bool
	preserve string
	err      error
}

// NewSession creates an empty session; nothing is loaded until the first
// load request.
func NewSession(catalog *document.Catalog, fetcher document.Fetcher, definitions string, cfg scroll.Config) *Session {
	focus := state.NewFocus(nil)
	return &Session{
		catalog:     catalog,
		fetcher:     fetcher,
		definitions: definitions,
		focus:       focus,
		sync:        scroll.New(cfg, focus),
	}
}

// Catalog returns the document catalog.
func (s *Session) Catalog() *document.Catalog { return s.catalog }

// Set returns the definitions in use, nil before the first successful load.
func (s *Session) Set() *section.Set { return s.set }

// Lines returns the lines of the document on screen.
func (s *Session) Lines() []string { return s.lines }

// Focus returns the focus tracker of the current load.
func (s *Session) Focus() *state.Focus { return s.focus }

// Sync returns the scroll synchronizer.
func (s *Session) Sync() *scroll.Synchronizer { return s.sync }

// Loading reports whether a load is outstanding.
func (s *Session) Loading() bool { return s.loading }

// Err returns the error of the last load.
func (s *Session) Err() error { return s.err }

// CurrentID returns the id of the focused section, or "".
func (s *Session) CurrentID() string {
	if cur, ok := s.focus.Current(); ok {
		return cur.ID
	}
	return ""
}

type loadRequest struct {
	seq         uint64
	location    string
	index       int
	fetcher     document.Fetcher
	definitions string
	loadDefs    bool
}

type documentLoadedMsg struct {
	seq      uint64
	location string
	index    int
	set      *section.Set
	lines    []string
	err      error
}

// begin starts a load of the current catalog entry. The guard is cleared
// straight away so no transition of the previous load can suppress input.
func (s *Session) begin(preserve string, reloadDefinitions bool) loadRequest {
	s.seq++
	s.loading = true
	s.preserve = preserve
	s.sync.Reset(s.focus)
	events.Scroll.Reset(s.sync.Generation())
	req := loadRequest{
		seq:         s.seq,
		fetcher:     s.fetcher,
		definitions: s.definitions,
		loadDefs:    reloadDefinitions || s.set == nil,
	}
	if s.catalog != nil {
		req.location = s.catalog.Current()
		req.index = s.catalog.Index()
	}
	return req
}

func (r loadRequest) run(ctx context.Context) tea.Msg {
	msg := documentLoadedMsg{seq: r.seq, location: r.location, index: r.index}
	if r.location == "" {
		msg.err = &LoadError{Err: document.ErrNoDocuments}
		return msg
	}
	g, gctx := errgroup.WithContext(ctx)
	if r.loadDefs {
		g.Go(func() error {
			set, err := section.LoadSet(gctx, r.fetcher, r.definitions)
			if err != nil {
				return &LoadError{Init: true, Err: err}
			}
			msg.set = set
			return nil
		})
	}
	g.Go(func() error {
		text, err := r.fetcher.Fetch(gctx, r.location)
		if err != nil {
			return &LoadError{Err: err}
		}
		msg.lines = document.SplitLines(text)
		return nil
	})
	msg.err = g.Wait()
	return msg
}

// apply installs a finished load. It returns the section index to focus and
// false when the message belongs to a superseded load.
func (s *Session) apply(msg documentLoadedMsg) (int, bool) {
	if msg.seq != s.seq {
		events.Document.Stale(msg.seq, s.seq)
		return 0, false
	}
	s.loading = false
	if msg.set != nil {
		s.set = msg.set
	}
	s.err = msg.err
	if msg.err != nil || s.set == nil {
		if s.err == nil {
			s.err = &LoadError{Init: true, Err: errors.New("no section definitions")}
		}
		events.Document.Failed(msg.seq, msg.location, s.err)
		s.lines = nil
		s.focus = state.NewFocus(nil)
		s.sync.Reset(s.focus)
		return 0, true
	}
	s.lines = msg.lines
	s.focus = state.NewFocus(section.Resolve(s.lines, s.set))
	s.sync.Reset(s.focus)
	events.Document.Loaded(msg.seq, msg.location, len(s.lines), s.focus.Len())

	index := s.focus.IndexOf(s.preserve)
	preserved := index >= 0
	if !preserved {
		index = 0
	}
	events.Focus.Restore(s.preserve, index, preserved)
	s.preserve = ""
	return index, true
}

// startLoad begins loading the current document, restoring the section
// preserve once it arrives.
func (m *Model) startLoad(preserve string, reloadDefinitions bool) tea.Cmd {
	req := m.session.begin(preserve, reloadDefinitions)
	events.Document.Load(req.seq, req.location, req.loadDefs)
	return m.bus.Execute(command.Request{
		ID:    "document:load",
		Label: req.location,
		Run:   req.run,
	})
}

func (m *Model) handleDocumentLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(documentLoadedMsg)
	if !ok {
		return nil
	}
	index, ok := m.session.apply(loaded)
	if !ok {
		return nil
	}
	m.descCache = make(map[string]string)
	m.refreshPanes()
	m.content.SetYOffset(0)
	m.explain.SetYOffset(0)
	if m.session.focus.Len() == 0 {
		return nil
	}
	// the first focus after a load is immediate
	if tr, ok := m.session.sync.FocusIndex(index, m.layout(), false); ok {
		return m.beginTransition(tr)
	}
	return nil
}
