package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"

	"github.com/paulstuart/macver/pkg/model"
)

const (
	// DefaultURL is Apple's "Apple security releases" page.
	DefaultURL = "https://support.apple.com/en-us/HT201222"

	// RowsXPath selects the rows of the security releases table.
	RowsXPath = `//*[@id="tableWraper"]/table/tbody/tr`

	// Release dates on the page look like "12 Dec 2023".
	dateLayout = "2 Jan 2006"

	userAgent = "macver-scraper/1.0 (+https://github.com/paulstuart/macver)"
)

// ErrNoReleases is returned when the page yields no dated release rows.
var ErrNoReleases = errors.New("no release rows found")

// Extractor turns rows of the security releases table into RawReleases.
type Extractor struct {
	Logger *log.Logger

	// Base resolves relative links. Nil leaves hrefs as they appear in the page.
	Base *url.URL
}

func (x *Extractor) logger() *log.Logger {
	if x.Logger == nil {
		return log.Default()
	}
	return x.Logger
}

// Parse reads an HTML document and extracts its release rows.
func (x *Extractor) Parse(r io.Reader) ([]model.RawRelease, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse security releases page: %w", err)
	}
	releases := x.Document(doc)
	if len(releases) == 0 {
		return nil, ErrNoReleases
	}
	return releases, nil
}

// Document extracts the release rows of an already parsed page, in page order.
func (x *Extractor) Document(doc *html.Node) []model.RawRelease {
	var releases []model.RawRelease
	for idx, tr := range htmlquery.Find(doc, RowsXPath) {
		if rel, ok := x.Row(idx, tr); ok {
			releases = append(releases, rel)
		}
	}
	return releases
}

// Row extracts a single table row. ok is false for header rows, spacer rows
// and rows without a parseable date. A row that does not have exactly three
// cells is logged as a layout change but still extracted if possible.
func (x *Extractor) Row(idx int, tr *html.Node) (rel model.RawRelease, ok bool) {
	cells := htmlquery.Find(tr, "td")
	if len(cells) == 0 {
		return rel, false
	}
	if len(cells) != 3 {
		x.logger().Warn("The HTML structure has changed", "row", idx, "cells", len(cells))
	}
	if len(cells) < 3 {
		return rel, false
	}

	date, err := parseDate(htmlquery.InnerText(cells[2]))
	if err != nil {
		x.logger().Debug("Skipping row without release date", "row", idx, "err", err)
		return rel, false
	}

	rel = model.RawRelease{
		Name:         cleanName(cellText(cells[0])),
		AvailableFor: strings.TrimSpace(nbspToSpace(htmlquery.InnerText(cells[1]))),
		ReleaseDate:  date,
	}
	if a := htmlquery.FindOne(cells[0], "a"); a != nil {
		rel.SecurityUpdatesURL = x.resolve(htmlquery.SelectAttr(a, "href"))
	}
	return rel, true
}

func (x *Extractor) resolve(href string) string {
	if x.Base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return x.Base.ResolveReference(ref).String()
}

// cellText is the text content of n with each <br> rendered as a newline, so
// a note after a bare <br> does not run into the release name.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// cleanName keeps the first line of a name cell; the rest holds notes such as
// "This update has no published CVE entries."
func cleanName(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	return nbspToSpace(strings.TrimSpace(first))
}

func nbspToSpace(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

func parseDate(text string) (model.Date, error) {
	t, err := time.Parse(dateLayout, strings.Join(strings.Fields(nbspToSpace(text)), " "))
	if err != nil {
		return model.Date{}, err
	}
	return model.Date{Time: t}, nil
}

// Scraper fetches the security releases page once and extracts its table.
type Scraper struct {
	URL    string
	Logger *log.Logger

	// CacheDir, when set, keeps page responses on disk between runs.
	CacheDir string
}

// Fetch visits the page and returns its release rows in page order (newest first).
func (s *Scraper) Fetch() ([]model.RawRelease, error) {
	pageURL := s.URL
	if pageURL == "" {
		pageURL = DefaultURL
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid security releases URL %q: %w", pageURL, err)
	}

	x := &Extractor{Logger: s.Logger, Base: base}
	logger := x.logger()

	opts := []colly.CollectorOption{
		colly.AllowedDomains(base.Hostname()),
		colly.UserAgent(userAgent),
	}
	if s.CacheDir != "" {
		opts = append(opts, colly.CacheDir(s.CacheDir))
	}
	c := colly.NewCollector(opts...)

	c.OnError(func(r *colly.Response, err error) {
		logger.Error("Request failed", "url", r.Request.URL, "status", r.StatusCode, "err", err)
	})

	var releases []model.RawRelease
	rows := 0
	c.OnXML(RowsXPath, func(e *colly.XMLElement) {
		tr, ok := e.DOM.(*html.Node)
		if !ok {
			return
		}
		idx := rows
		rows++
		if rel, ok := x.Row(idx, tr); ok {
			releases = append(releases, rel)
		}
	})

	logger.Info("Visiting", "url", pageURL)
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit security releases page: %w", err)
	}
	c.Wait()

	if len(releases) == 0 {
		return nil, fmt.Errorf("%w on %s (%d table rows)", ErrNoReleases, pageURL, rows)
	}
	logger.Info("Found releases", "rows", rows, "releases", len(releases))
	return releases, nil
}
