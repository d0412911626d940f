package ingestion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ribara/skillbridge/internal/fetch"
)

// MinPostingLength guards against extracting a cookie wall or error page
// instead of a job posting.
const MinPostingLength = 100

var (
	// ErrHTTPRequestFailed is returned when the HTTP request fails.
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails.
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
	// ErrContentTooShort is returned when the extracted posting looks bogus.
	ErrContentTooShort = fmt.Errorf("extracted content too short to be a job posting")
)

// IngestJobURL fetches a job posting URL and returns its cleaned text. When
// useBrowser is set and the plain HTTP fetch yields too little text, the
// page is re-rendered in a headless browser before giving up.
func IngestJobURL(ctx context.Context, urlStr string, useBrowser bool, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug("fetched job posting", zap.String("url", urlStr), zap.Int("bytes", len(result.HTML)))

	text, err := fetch.ExtractMainText(result.HTML, fetch.JobPostingSelectors())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if useBrowser && fetch.ShouldUseBrowser(text) {
		log.Debug("content too short, falling back to browser rendering",
			zap.Int("chars", len(text)))

		browserHTML, browserErr := fetch.WithBrowser(ctx, urlStr, 0)
		if browserErr != nil {
			log.Debug("browser rendering failed, keeping HTTP content", zap.Error(browserErr))
		} else {
			rendered, extractErr := fetch.ExtractMainText(browserHTML, fetch.JobPostingSelectors())
			if extractErr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	text = CleanText(text)
	if len(text) < MinPostingLength {
		return "", fmt.Errorf("%w: got %d chars", ErrContentTooShort, len(text))
	}

	return text, nil
}
