package sciam

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
)

const (
	latestLinkSelector = "a.listing-block__item__title"
	titleSelector      = "h1.article-header__title"
	summarySelector    = "div.article-header__dek"
	bodySelector       = "p.article-text"

	truncationMarker = "..."
)

// Fetcher extracts the most recent leading article from the Scientific
// American landing page in two hops: landing page for the link, then the
// article page for title, summary, and body.
type Fetcher struct {
	client       *http.Client
	baseURL      string
	excerptLimit int
}

var _ ports.ArticleFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; excerptLimit defaults to 1000.
func NewFetcher(client *http.Client, baseURL string, excerptLimit int) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if excerptLimit <= 0 {
		excerptLimit = 1000
	}
	return &Fetcher{
		client:       client,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		excerptLimit: excerptLimit,
	}
}

// FetchLatest performs the two-hop fetch. Extraction is strict: an absent
// expected element fails with ErrLayoutChanged rather than producing a
// partially empty article.
func (f *Fetcher) FetchLatest(ctx context.Context) (domain.Article, error) {
	landing, err := f.document(ctx, f.baseURL)
	if err != nil {
		return domain.Article{}, fmt.Errorf("landing page: %w", err)
	}

	href, ok := landing.Find(latestLinkSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.Article{}, fmt.Errorf("latest article link not found: %w", domain.ErrLayoutChanged)
	}
	link := f.absolutize(strings.TrimSpace(href))

	page, err := f.document(ctx, link)
	if err != nil {
		return domain.Article{}, fmt.Errorf("article page: %w", err)
	}

	title := strings.TrimSpace(page.Find(titleSelector).First().Text())
	if title == "" {
		return domain.Article{}, fmt.Errorf("article title not found: %w", domain.ErrLayoutChanged)
	}

	summary := strings.TrimSpace(page.Find(summarySelector).First().Text())

	var paragraphs []string
	page.Find(bodySelector).Each(func(i int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return domain.Article{}, fmt.Errorf("article body not found: %w", domain.ErrLayoutChanged)
	}

	return domain.Article{
		Title:   title,
		Link:    link,
		Summary: summary,
		Excerpt: truncate(strings.Join(paragraphs, " "), f.excerptLimit),
	}, nil
}

func (f *Fetcher) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArticleCourier/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: source returned %s", domain.ErrSourceUnavailable, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (f *Fetcher) absolutize(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return f.baseURL + href
}

func truncate(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + truncationMarker
}
