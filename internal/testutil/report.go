// Package testutil provides report fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// RowsPerSection is the number of lines each banner of Report owns,
// banner included.
const RowsPerSection = 10

// Banner returns a report banner line such as "RUN ####...".
func Banner(name string) string {
	upper := strings.ToUpper(name)
	pad := 40 - len(upper)
	if pad < 4 {
		pad = 4
	}
	return upper + " " + strings.Repeat("#", pad)
}

// Report builds a git-metrics style report with one banner per name, each
// followed by filler rows, and a closing "Finished in" line.
func Report(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(Banner(name))
		b.WriteByte('\n')
		for row := 1; row < RowsPerSection; row++ {
			fmt.Fprintf(&b, "  %-22s %6d\n", strings.ToLower(name)+" row", row)
		}
	}
	b.WriteString("Finished in 1.2s with a memory footprint of 40 MB.")
	return b.String()
}

// SampleReport is a report with the run, repository, growth and largest
// files sections.
func SampleReport() string {
	return Report("Run", "Repository", "Historic & Estimated Growth", "Largest Files")
}

// WriteReport writes content to dir/name and returns the path.
func WriteReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write report %s: %v", path, err)
	}
	return path
}

// Fetcher serves documents from memory and counts requests per location.
type Fetcher struct {
	mu     sync.Mutex
	Docs   map[string]string
	Errs   map[string]error
	called map[string]int
}

// NewFetcher returns a fetcher serving docs.
func NewFetcher(docs map[string]string) *Fetcher {
	return &Fetcher{Docs: docs, Errs: map[string]error{}, called: map[string]int{}}
}

// Fetch implements the document fetcher interface.
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.called == nil {
		f.called = map[string]int{}
	}
	f.called[location]++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.Errs[location]; ok && err != nil {
		return "", err
	}
	doc, ok := f.Docs[location]
	if !ok {
		return "", fmt.Errorf("%s: %w", location, os.ErrNotExist)
	}
	return doc, nil
}

// Set replaces the document served for location.
func (f *Fetcher) Set(location, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Docs[location] = content
}

// Fail makes every fetch of location return err; nil clears it.
func (f *Fetcher) Fail(location string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errs[location] = err
}

// Calls returns how often location was fetched.
func (f *Fetcher) Calls(location string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called[location]
}
