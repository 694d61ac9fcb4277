// Package goquery derives capture metadata from raw page HTML.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/awalczyk/qbank"
)

// Ensure Analyzer implements qbank.PageAnalyzer at compile time.
var _ qbank.PageAnalyzer = (*Analyzer)(nil)

// Analyzer fills gaps in captures that ship page HTML without the
// derived fields: body text, element count, and image references.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze parses the HTML and derives capture metadata from it. Image
// URLs are resolved against pageURL when it parses; srcless img tags are
// skipped.
func (a *Analyzer) Analyze(html string) (*qbank.PageAnalysis, error) {
	return a.analyze(html, "")
}

// AnalyzeWithBase is Analyze with a page URL for resolving relative
// image sources.
func (a *Analyzer) AnalyzeWithBase(html, pageURL string) (*qbank.PageAnalysis, error) {
	return a.analyze(html, pageURL)
}

func (a *Analyzer) analyze(html, pageURL string) (*qbank.PageAnalysis, error) {
	if strings.TrimSpace(html) == "" {
		return nil, qbank.Errorf(qbank.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, qbank.Errorf(qbank.EINVALID, "failed to parse HTML: %v", err)
	}

	var base *url.URL
	if pageURL != "" {
		base, err = url.Parse(pageURL)
		if err != nil {
			base = nil
		}
	}

	analysis := &qbank.PageAnalysis{
		BodyText:     normalizeText(doc.Find("body").Text()),
		ElementCount: doc.Find("body *").Length(),
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists || src == "" {
			return
		}
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		analysis.Images = append(analysis.Images, qbank.ImageRef{
			URL:   src,
			Title: sel.AttrOr("alt", ""),
		})
	})

	return analysis, nil
}

// normalizeText collapses runs of whitespace to single spaces, matching
// how browsers report innerText for layout-heavy markup.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
