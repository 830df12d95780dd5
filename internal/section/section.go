package section

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidDefinition is returned when a definition cannot be added to a Set.
var ErrInvalidDefinition = errors.New("invalid section definition")

// Matcher reports whether a report line opens a section.
type Matcher func(line string) bool

// Definition describes how to locate and label one region of a report. It is
// independent of any document; document order is derived per load.
type Definition struct {
	ID          string
	Title       string
	Matches     Matcher
	Description func() string
}

// Describe returns the definition's descriptive text.
func (d Definition) Describe() string {
	if d.Description == nil {
		return ""
	}
	return d.Description()
}

// Static returns a description supplier for fixed text.
func Static(text string) func() string {
	return func() string { return text }
}

// Prefix matches lines that start with text followed by a space, ignoring case.
func Prefix(text string) Matcher {
	return Pattern(regexp.MustCompile("(?i)^" + regexp.QuoteMeta(text) + " "))
}

// Pattern adapts a compiled regular expression into a Matcher.
func Pattern(re *regexp.Regexp) Matcher {
	return func(line string) bool {
		return re.MatchString(line)
	}
}

// Set is an ordered, immutable collection of definitions. Earlier
// definitions win when two first-match the same line.
type Set struct {
	defs  []Definition
	index map[string]int
}

// NewSet validates the definitions and returns them as a Set.
func NewSet(defs ...Definition) (*Set, error) {
	s := &Set{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: definition %d has no id", ErrInvalidDefinition, i)
		}
		if def.Matches == nil {
			return nil, fmt.Errorf("%w: %q has no matcher", ErrInvalidDefinition, id)
		}
		if _, dup := s.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, id)
		}
		def.ID = id
		if strings.TrimSpace(def.Title) == "" {
			def.Title = id
		}
		s.index[id] = len(s.defs)
		s.defs = append(s.defs, def)
	}
	return s, nil
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.defs)
}

// Definitions returns a copy of the definitions in set order.
func (s *Set) Definitions() []Definition {
	if s == nil {
		return nil
	}
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Lookup finds a definition by id.
func (s *Set) Lookup(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// Resolved is the concrete line range one definition matched in a document.
// MatchLine is the line the definition matched; StartLine differs from it
// only for the first section, which also owns any preamble above its match.
type Resolved struct {
	ID          string
	Title       string
	Description string
	MatchLine   int
	StartLine   int
	EndLine     int
}

// Contains reports whether line falls inside the section.
func (r Resolved) Contains(line int) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Lines returns the number of lines covered by the section.
func (r Resolved) Lines() int {
	return r.EndLine - r.StartLine + 1
}

// Resolve computes the sections of a document. Definitions without a
// matching line are dropped; the remaining sections are ordered by their
// first matching line and cover [0, len(lines)-1] without gaps or overlaps.
// The result is empty when nothing matches.
func Resolve(lines []string, set *Set) []Resolved {
	if len(lines) == 0 || set.Len() == 0 {
		return nil
	}
	type hit struct {
		def   Definition
		start int
	}
	hits := make([]hit, 0, set.Len())
	for _, def := range set.defs {
		for i, line := range lines {
			if def.Matches(line) {
				hits = append(hits, hit{def: def, start: i})
				break
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].start < hits[j].start
	})

	out := make([]Resolved, 0, len(hits))
	for _, h := range hits {
		// equal starts: the earlier definition already claimed the line
		if n := len(out); n > 0 && out[n-1].StartLine == h.start {
			continue
		}
		out = append(out, Resolved{
			ID:          h.def.ID,
			Title:       h.def.Title,
			Description: h.def.Describe(),
			MatchLine:   h.start,
			StartLine:   h.start,
		})
	}
	if len(out) > 0 {
		out[0].StartLine = 0
	}
	for i := range out {
		if i+1 < len(out) {
			out[i].EndLine = out[i+1].StartLine - 1
		} else {
			out[i].EndLine = len(lines) - 1
		}
	}
	return out
}

// IndexOf returns the position of the section with the given id, or -1.
func IndexOf(sections []Resolved, id string) int {
	if id == "" {
		return -1
	}
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
