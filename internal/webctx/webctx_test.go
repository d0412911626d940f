package webctx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(endpoint string) *DuckDuckGo {
	p := NewDuckDuckGo(zap.NewNop())
	p.endpoint = endpoint
	return p
}

func TestSearchExtractsSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kubernetes basics", r.URL.Query().Get("q"))
		fmt.Fprint(w, `<html><body>
			<div class="result">
				<a class="result__snippet">Kubernetes is a container orchestration platform.</a>
			</div>
			<div class="result">
				<a class="result__snippet">Pods are the smallest deployable units.</a>
			</div>
		</body></html>`)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	got := p.Search(context.Background(), "kubernetes basics")

	require.NotEqual(t, NoContext, got)
	assert.Contains(t, got, "container orchestration platform")
	assert.Contains(t, got, "smallest deployable units")
}

func TestSearchCapsResultCount(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, `<a class="result__snippet">snippet number %d</a>`, i)
	}
	sb.WriteString("</body></html>")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	got := p.Search(context.Background(), "anything")

	assert.Contains(t, got, "snippet number 4")
	assert.NotContains(t, got, "snippet number 5")
}

func TestSearchTruncatesLongContext(t *testing.T) {
	long := strings.Repeat("x", 2000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a class="result__snippet">%s</a></body></html>`, long)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	got := p.Search(context.Background(), "anything")

	assert.LessOrEqual(t, len(got), maxContextChars)
}

func TestSearchReturnsSentinelOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	assert.Equal(t, NoContext, p.Search(context.Background(), "anything"))
}

func TestSearchReturnsSentinelOnUnreachableHost(t *testing.T) {
	p := newTestProvider("http://127.0.0.1:1/html")
	assert.Equal(t, NoContext, p.Search(context.Background(), "anything"))
}

func TestSearchReturnsSentinelOnEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>no results here</p></body></html>`)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	assert.Equal(t, NoContext, p.Search(context.Background(), "anything"))
}
