// Package wordpress provides a client for WordPress REST collection endpoints.
package wordpress

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pilgrimage-cli/internal/fetcher"
)

const (
	// HeaderTotalPages carries the page count of a paginated collection.
	HeaderTotalPages = "X-WP-TotalPages"
	// HeaderTotal carries the item count of a paginated collection.
	HeaderTotal = "X-WP-Total"
)

// Client defines the WordPress collection operations.
type Client interface {
	// FetchAll requests every page of the collection and returns the posts
	// in API order, pages ascending.
	FetchAll(ctx context.Context, perPage int) ([]Post, error)
	// FetchPage requests a single page and returns its posts along with the
	// total page count reported by the server.
	FetchPage(ctx context.Context, page, perPage int) ([]Post, int, error)
}

type httpClient struct {
	baseURL string
	fetcher fetcher.Fetcher
}

// NewClient creates a client for the collection at baseURL
// (e.g. https://example.com/wp-json/wp/v2/places).
func NewClient(baseURL string, f fetcher.Fetcher) Client {
	return &httpClient{baseURL: baseURL, fetcher: f}
}

func (c *httpClient) FetchAll(ctx context.Context, perPage int) ([]Post, error) {
	posts, totalPages, err := c.FetchPage(ctx, 1, perPage)
	if err != nil {
		return nil, err
	}

	for page := 2; page <= totalPages; page++ {
		more, _, err := c.FetchPage(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		posts = append(posts, more...)
	}

	zap.L().Info("wordpress: fetched collection",
		zap.String("url", c.baseURL),
		zap.Int("pages", totalPages),
		zap.Int("posts", len(posts)),
	)
	return posts, nil
}

func (c *httpClient) FetchPage(ctx context.Context, page, perPage int) ([]Post, int, error) {
	reqURL, err := c.pageURL(page, perPage)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.fetcher.Get(ctx, reqURL)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "wordpress: fetch page %d", page)
	}

	posts, err := fetcher.DecodeJSONArray[Post](bytes.NewReader(resp.Body))
	if err != nil {
		return nil, 0, eris.Wrapf(err, "wordpress: decode page %d", page)
	}

	totalPages := parseTotalPages(resp.Header.Get(HeaderTotalPages))
	zap.L().Debug("wordpress: fetched page",
		zap.Int("page", page),
		zap.Int("total_pages", totalPages),
		zap.String("total", resp.Header.Get(HeaderTotal)),
		zap.Int("posts", len(posts)),
	)
	return posts, totalPages, nil
}

func (c *httpClient) pageURL(page, perPage int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", eris.Wrap(err, "wordpress: parse base url")
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("_embed", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseTotalPages reads the page-count header, falling back to 1.
func parseTotalPages(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
