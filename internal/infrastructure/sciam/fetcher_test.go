package sciam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArticleCourier/internal/domain"
)

const articleHTML = `
<html><body>
  <h1 class="article-header__title"> Strange Metals Defy Theory </h1>
  <div class="article-header__dek">Electrons misbehave in a new class of materials.</div>
  <p class="article-text">First paragraph.</p>
  <p class="article-text">Second paragraph.</p>
</body></html>`

func landingHTML(href string) string {
	return fmt.Sprintf(`
<html><body>
  <a class="listing-block__item__title" href="%s">Strange Metals Defy Theory</a>
</body></html>`, href)
}

func newSourceServer(t *testing.T, article string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(landingHTML("/article/strange-metals")))
		case "/article/strange-metals":
			_, _ = w.Write([]byte(article))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchLatest(t *testing.T) {
	t.Parallel()

	server := newSourceServer(t, articleHTML)
	f := NewFetcher(server.Client(), server.URL, 1000)

	article, err := f.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("FetchLatest error: %v", err)
	}

	if article.Title != "Strange Metals Defy Theory" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.Summary != "Electrons misbehave in a new class of materials." {
		t.Fatalf("unexpected summary: %q", article.Summary)
	}
	if article.Excerpt != "First paragraph. Second paragraph." {
		t.Fatalf("unexpected excerpt: %q", article.Excerpt)
	}
	if article.Link != server.URL+"/article/strange-metals" {
		t.Fatalf("relative link not absolutized: %q", article.Link)
	}
}

func TestFetchLatestTruncatesExcerpt(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("w", 50)
	article := fmt.Sprintf(`
<html><body>
  <h1 class="article-header__title">Title</h1>
  <p class="article-text">%s</p>
</body></html>`, long)

	server := newSourceServer(t, article)
	f := NewFetcher(server.Client(), server.URL, 30)

	got, err := f.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("FetchLatest error: %v", err)
	}
	want := strings.Repeat("w", 30) + "..."
	if got.Excerpt != want {
		t.Fatalf("excerpt = %q, want %q", got.Excerpt, want)
	}
}

func TestFetchLatestMissingLandingLink(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>redesigned landing page</p></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL, 1000)
	_, err := f.FetchLatest(context.Background())
	if !errors.Is(err, domain.ErrLayoutChanged) {
		t.Fatalf("expected ErrLayoutChanged, got %v", err)
	}
}

func TestFetchLatestMissingTitle(t *testing.T) {
	t.Parallel()

	server := newSourceServer(t, `<html><body><p class="article-text">body</p></body></html>`)
	f := NewFetcher(server.Client(), server.URL, 1000)

	_, err := f.FetchLatest(context.Background())
	if !errors.Is(err, domain.ErrLayoutChanged) {
		t.Fatalf("expected ErrLayoutChanged, got %v", err)
	}
}

func TestFetchLatestMissingBody(t *testing.T) {
	t.Parallel()

	server := newSourceServer(t, `<html><body><h1 class="article-header__title">Title</h1></body></html>`)
	f := NewFetcher(server.Client(), server.URL, 1000)

	_, err := f.FetchLatest(context.Background())
	if !errors.Is(err, domain.ErrLayoutChanged) {
		t.Fatalf("expected ErrLayoutChanged, got %v", err)
	}
}

func TestFetchLatestSourceFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL, 1000)
	_, err := f.FetchLatest(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
