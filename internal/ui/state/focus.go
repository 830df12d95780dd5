package state

import (
	"sort"

	"github.com/atomicstack/reportlens/internal/section"
)

// Focus tracks the resolved sections of the loaded document and which one
// is active. All operations are no-ops while there are no sections.
type Focus struct {
	sections []section.Resolved
	active   int
}

// NewFocus starts a tracker on the first section.
func NewFocus(sections []section.Resolved) *Focus {
	return &Focus{sections: sections}
}

// Sections returns the resolved sections in document order.
func (f *Focus) Sections() []section.Resolved {
	if f == nil {
		return nil
	}
	return f.sections
}

// Len returns the number of sections.
func (f *Focus) Len() int {
	if f == nil {
		return 0
	}
	return len(f.sections)
}

// Active returns the active index. It is meaningless when Len is zero.
func (f *Focus) Active() int {
	if f == nil {
		return 0
	}
	return f.active
}

// Current returns the active section.
func (f *Focus) Current() (section.Resolved, bool) {
	if f.Len() == 0 {
		return section.Resolved{}, false
	}
	return f.sections[f.active], true
}

// SetActive focuses index. Out-of-range requests are ignored.
func (f *Focus) SetActive(index int) bool {
	if index < 0 || index >= f.Len() {
		return false
	}
	old := f.active
	f.active = index
	return old != f.active
}

// Step moves the focus by delta, clamped to the first and last section.
func (f *Focus) Step(delta int) bool {
	n := f.Len()
	if n == 0 {
		return false
	}
	old := f.active
	f.active += delta
	if f.active < 0 {
		f.active = 0
	}
	if f.active >= n {
		f.active = n - 1
	}
	return f.active != old
}

// FindByLine returns the section covering line.
func (f *Focus) FindByLine(line int) (int, bool) {
	n := f.Len()
	if n == 0 {
		return -1, false
	}
	i := sort.Search(n, func(i int) bool {
		return f.sections[i].EndLine >= line
	})
	if i == n || !f.sections[i].Contains(line) {
		return -1, false
	}
	return i, true
}

// IndexOf returns the index of the section with id, or -1.
func (f *Focus) IndexOf(id string) int {
	return section.IndexOf(f.Sections(), id)
}

// InFocus reports whether line belongs to the active section.
func (f *Focus) InFocus(line int) bool {
	cur, ok := f.Current()
	return ok && cur.Contains(line)
}
