package section

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed sections.md
var defaultMarkdown []byte

// knownIDs pins identifiers for headings whose slug would otherwise drift
// between wordings of the same report section.
var knownIDs = map[string]string{
	"run":                           "run",
	"run and repository":            "run-and-repository",
	"repository":                    "repository",
	"historic and estimated growth": "growth",
	"historic & estimated growth":   "growth",
	"rate of changes":               "rate",
	"largest directories":           "largest-dirs",
	"largest files":                 "largest-files",
	"largest file extensions":       "largest-ext",
	"authors with most commits":     "top-authors",
	"committers with most commits":  "top-committers",
	"footer":                        "footer",
}

var (
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	footerPattern  = regexp.MustCompile(`(?i)^Finished in `)
	runPattern     = regexp.MustCompile(`(?i)^RUN `)
)

// Fetcher retrieves a definitions source by location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// NormalizeID derives a stable identifier from heading text.
func NormalizeID(header string) string {
	norm := strings.ToLower(strings.TrimSpace(header))
	if id, ok := knownIDs[norm]; ok {
		return id
	}
	return strings.Trim(slugSeparators.ReplaceAllString(norm, "-"), "-")
}

// MatcherFor returns the line matcher used for a parsed heading.
func MatcherFor(id, header string) Matcher {
	switch id {
	case "footer":
		return Pattern(footerPattern)
	case "run-and-repository":
		return Pattern(runPattern)
	}
	return Prefix(header)
}

type parsedSection struct {
	header string
	title  string
	body   []string
}

func (p *parsedSection) definition() Definition {
	header := p.header
	if header == "" {
		header = p.title
	}
	title := p.title
	if title == "" {
		title = header
	}
	id := NormalizeID(header)
	return Definition{
		ID:          id,
		Title:       title,
		Matches:     MatcherFor(id, header),
		Description: Static(strings.Join(p.body, " ")),
	}
}

// ParseMarkdown turns a sections document into definitions. The document
// is read line by line: a level-1 heading opens a section, a level-2
// heading sets its display title, any other line starting with "#" closes
// it, and the remaining non-blank lines become the description verbatim.
// Headings count only when their line starts with "#"; setext underlines
// and list markers stay part of the description.
func ParseMarkdown(src []byte) ([]Definition, error) {
	headings := atxHeadings(src)

	var (
		defs    []Definition
		current *parsedSection
	)
	commit := func() {
		if current != nil {
			defs = append(defs, current.definition())
		}
		current = nil
	}

	offset := 0
	for _, raw := range strings.Split(string(src), "\n") {
		lineStart := offset
		offset += len(raw) + 1
		line := strings.TrimRight(raw, " \t\r")
		if heading, ok := headings[lineStart]; ok {
			switch heading.level {
			case 1:
				commit()
				current = &parsedSection{header: heading.text}
			case 2:
				if current == nil {
					current = &parsedSection{header: heading.text}
				}
				current.title = heading.text
			default:
				commit()
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			commit()
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" && current != nil {
			current.body = append(current.body, trimmed)
		}
	}
	commit()

	for i, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: heading %d has no usable text", ErrInvalidDefinition, i+1)
		}
	}
	return defs, nil
}

type atxHeading struct {
	level int
	text  string
}

// atxHeadings maps the byte offset of every line holding an ATX heading at
// column 0 to that heading.
func atxHeadings(src []byte) map[int]atxHeading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	out := make(map[int]atxHeading)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}
		start := lineStart(src, heading.Lines().At(0).Start)
		if src[start] != '#' {
			continue
		}
		out[start] = atxHeading{
			level: heading.Level,
			text:  strings.TrimSpace(string(heading.Text(src))),
		}
	}
	return out
}

func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// ParseSet parses a sections document into a validated Set.
func ParseSet(src []byte) (*Set, error) {
	defs, err := ParseMarkdown(src)
	if err != nil {
		return nil, err
	}
	return NewSet(defs...)
}

// Default returns the built-in definitions for git-metrics reports.
func Default() *Set {
	set, err := ParseSet(defaultMarkdown)
	if err != nil {
		panic(fmt.Sprintf("embedded sections.md: %v", err))
	}
	return set
}

// LoadSet reads definitions from location, falling back to Default when
// location is empty.
func LoadSet(ctx context.Context, fetcher Fetcher, location string) (*Set, error) {
	if strings.TrimSpace(location) == "" {
		return Default(), nil
	}
	src, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	set, err := ParseSet([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	return set, nil
}
