package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atomicstack/reportlens/internal/backend"
	"github.com/atomicstack/reportlens/internal/document"
	"github.com/atomicstack/reportlens/internal/format/table"
	"github.com/atomicstack/reportlens/internal/logging/events"
	"github.com/atomicstack/reportlens/internal/section"
	"github.com/atomicstack/reportlens/internal/ui"
	"github.com/atomicstack/reportlens/internal/ui/scroll"
	tea "github.com/charmbracelet/bubbletea"
)

const watchInterval = 300 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	Documents   []string
	Definitions string
	Scroll      scroll.Config
	Animate     bool
	Watch       bool
	Width       int
	Height      int
	ShowFooter  bool
	Style       string
	List        bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) error {
	catalog, err := document.NewCatalog(cfg.Documents)
	if err != nil {
		return err
	}
	var watcher *backend.Watcher
	if cfg.Watch {
		watcher, err = backend.NewWatcher(catalog.Locations(), cfg.Definitions, watchInterval)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()
	}
	model := ui.NewModel(ui.Options{
		Catalog:     catalog,
		Fetcher:     document.Router{},
		Definitions: cfg.Definitions,
		Scroll:      cfg.Scroll,
		Animate:     cfg.Animate,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Style:       cfg.Style,
		Watcher:     watcher,
		Context:     ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// List writes the resolved sections of every document to w. Documents that
// fail to load are reported inline and make List return an error once all
// documents were printed.
func List(ctx context.Context, cfg Config, fetcher document.Fetcher, w io.Writer) error {
	catalog, err := document.NewCatalog(cfg.Documents)
	if err != nil {
		return err
	}
	if fetcher == nil {
		fetcher = document.Router{}
	}
	set, err := section.LoadSet(ctx, fetcher, cfg.Definitions)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	events.App.List(catalog.Len())

	var failed []error
	for i, location := range catalog.Locations() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", catalog.Name(i))
		text, err := fetcher.Fetch(ctx, location)
		if err != nil {
			fmt.Fprintf(w, "  error: %v\n", err)
			failed = append(failed, fmt.Errorf("%s: %w", location, err))
			continue
		}
		sections := section.Resolve(document.SplitLines(text), set)
		if len(sections) == 0 {
			fmt.Fprintln(w, "  (no sections recognised)")
			continue
		}
		for _, line := range table.Format(listHeader, listRows(sections), listAlignments) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return errors.Join(failed...)
}

var (
	listHeader     = []string{"ID", "TITLE", "START", "END"}
	listAlignments = []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignRight}
)

// listRows numbers lines from 1, as the viewer's status line does.
func listRows(sections []section.Resolved) [][]string {
	rows := make([][]string, len(sections))
	for i, sec := range sections {
		rows[i] = []string{
			sec.ID,
			sec.Title,
			strconv.Itoa(sec.StartLine + 1),
			strconv.Itoa(sec.EndLine + 1),
		}
	}
	return rows
}
