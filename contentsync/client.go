// Package contentsync mirrors blog posts from a WordPress-style REST API
// into the posts collection.
package contentsync

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	models "github.com/phillip/trust-manager-go/models"
)

const (
	defaultTimeout = 30 * time.Second
	postsPath      = "/posts"
	totalPagesHdr  = "X-WP-TotalPages"
)

// Client reads posts from the blog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type rendered struct {
	Rendered string `json:"rendered"`
}

// remotePost is the subset of a WordPress post we keep.
type remotePost struct {
	ID          int64    `json:"id"`
	DateGMT     string   `json:"date_gmt"`
	ModifiedGMT string   `json:"modified_gmt"`
	Link        string   `json:"link"`
	Title       rendered `json:"title"`
	Excerpt     rendered `json:"excerpt"`
	Content     rendered `json:"content"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PostsPage is one page of the listing. TotalPages is 0 when the API
// does not report it.
type PostsPage struct {
	Posts      []models.Post
	TotalPages int
}

// Posts fetches page (1-based) with perPage posts per page. A page past the
// end comes back empty rather than as an error.
func (c *Client) Posts(ctx context.Context, page, perPage int) (*PostsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	endpoint := c.baseURL + postsPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		if errResp.Code == "rest_post_invalid_page_number" {
			return &PostsPage{}, nil
		}
		return nil, fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.Code, errResp.Message)
	}

	var remote []remotePost
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := &PostsPage{Posts: make([]models.Post, 0, len(remote))}
	if n, err := strconv.Atoi(resp.Header.Get(totalPagesHdr)); err == nil {
		out.TotalPages = n
	}
	for _, rp := range remote {
		p, err := rp.toPost()
		if err != nil {
			return nil, err
		}
		out.Posts = append(out.Posts, p)
	}
	return out, nil
}

func (rp remotePost) toPost() (models.Post, error) {
	p := models.Post{
		SourceID: rp.ID,
		Title:    html.UnescapeString(rp.Title.Rendered),
		Excerpt:  strings.TrimSpace(rp.Excerpt.Rendered),
		Content:  rp.Content.Rendered,
		URL:      rp.Link,
	}
	var err error
	if rp.DateGMT != "" {
		published, err := models.ParseDate(rp.DateGMT)
		if err != nil {
			return p, fmt.Errorf("post %d: %w", rp.ID, err)
		}
		p.PublishedAt = models.NativeDate(published)
	}
	if rp.ModifiedGMT != "" {
		if p.ModifiedAt, err = models.ParseDate(rp.ModifiedGMT); err != nil {
			return p, fmt.Errorf("post %d: %w", rp.ID, err)
		}
	}
	return p, nil
}
