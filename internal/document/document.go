package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoDocuments is returned when a catalog is built without locations.
	ErrNoDocuments = errors.New("no documents to show")
	// ErrStatus marks a non-success HTTP response.
	ErrStatus = errors.New("unexpected status")
)

// Catalog is the ordered list of reports the viewer can switch between.
type Catalog struct {
	locations []string
	index     int
}

// NewCatalog builds a catalog positioned on the first location.
func NewCatalog(locations []string) (*Catalog, error) {
	cleaned := make([]string, 0, len(locations))
	for _, loc := range locations {
		if loc = strings.TrimSpace(loc); loc != "" {
			cleaned = append(cleaned, loc)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoDocuments
	}
	return &Catalog{locations: cleaned}, nil
}

// Len returns the number of documents.
func (c *Catalog) Len() int { return len(c.locations) }

// Index returns the position of the current document.
func (c *Catalog) Index() int { return c.index }

// Current returns the location of the current document.
func (c *Catalog) Current() string { return c.locations[c.index] }

// Locations returns a copy of all locations.
func (c *Catalog) Locations() []string {
	return append([]string(nil), c.locations...)
}

// Next advances to the following document. It never wraps.
func (c *Catalog) Next() bool {
	if c.index >= len(c.locations)-1 {
		return false
	}
	c.index++
	return true
}

// Prev moves to the preceding document. It never wraps.
func (c *Catalog) Prev() bool {
	if c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// Name returns the display name of the document at i.
func (c *Catalog) Name(i int) string {
	if i < 0 || i >= len(c.locations) {
		return ""
	}
	return DisplayName(c.locations[i])
}

// DisplayName strips directories and a .txt suffix from a location.
func DisplayName(location string) string {
	var base string
	if u, err := url.Parse(location); err == nil && isRemote(u) {
		base = path.Base(u.Path)
	} else {
		base = filepath.Base(location)
	}
	return strings.TrimSuffix(base, ".txt")
}

// SplitLines splits report text on line feeds, dropping carriage returns.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Fetcher retrieves the full text stored at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// FileFetcher reads local files.
type FileFetcher struct{}

// Fetch implements Fetcher.
func (FileFetcher) Fetch(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", location, err)
	}
	return string(data), nil
}

// HTTPFetcher downloads documents over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, location string) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", location, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: %w: %d", location, ErrStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", location, err)
	}
	return string(body), nil
}

// Router picks the file or HTTP fetcher based on the location scheme.
type Router struct {
	Files FileFetcher
	HTTP  HTTPFetcher
}

// Fetch implements Fetcher.
func (r Router) Fetch(ctx context.Context, location string) (string, error) {
	if IsRemote(location) {
		return r.HTTP.Fetch(ctx, location)
	}
	return r.Files.Fetch(ctx, location)
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && isRemote(u)
}

func isRemote(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}
