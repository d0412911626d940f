// Package webctx fetches best-effort web context for tutoring turns.
// Failures never propagate: a turn proceeds with the NoContext sentinel.
package webctx

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/fetch"
)

// NoContext is the sentinel returned when no external context could be
// fetched. It is embedded into the tutor prompt as-is.
const NoContext = "No external context available right now."

// maxContextChars bounds how much search text is fed into a prompt.
const maxContextChars = 1500

// maxResults bounds how many search snippets are collected.
const maxResults = 5

// Provider supplies search context for a query.
type Provider interface {
	// Search returns snippet text for the query. Implementations are
	// best-effort: on any failure they return NoContext, never an error.
	Search(ctx context.Context, query string) string
}

// DuckDuckGo searches the DuckDuckGo HTML endpoint and extracts result
// snippets.
type DuckDuckGo struct {
	endpoint string
	log      *zap.Logger
}

// NewDuckDuckGo creates the default provider.
func NewDuckDuckGo(log *zap.Logger) *DuckDuckGo {
	if log == nil {
		log = zap.NewNop()
	}
	return &DuckDuckGo{
		endpoint: "https://html.duckduckgo.com/html/",
		log:      log,
	}
}

// Search implements Provider.
func (d *DuckDuckGo) Search(ctx context.Context, query string) string {
	opts := fetch.DefaultOptions()
	opts.Query = url.Values{"q": []string{query}}

	result, err := fetch.URL(ctx, d.endpoint, opts)
	if err != nil {
		d.log.Debug("web context fetch failed", zap.String("query", query), zap.Error(err))
		return NoContext
	}

	snippets := extractSnippets(result.HTML)
	if snippets == "" {
		d.log.Debug("web context yielded no snippets", zap.String("query", query))
		return NoContext
	}

	return snippets
}

// extractSnippets pulls result snippet text out of a DuckDuckGo HTML page.
func extractSnippets(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find(".result__snippet").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
		return len(parts) < maxResults
	})

	joined := strings.Join(parts, "\n")
	if len(joined) > maxContextChars {
		joined = joined[:maxContextChars]
	}
	return strings.TrimSpace(joined)
}
