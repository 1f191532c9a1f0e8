package hackernews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"hnews/internal/model"

	"golang.org/x/time/rate"
)

// Client reads from the official Hacker News API and the Algolia items API.
// Docs: https://github.com/HackerNews/API and https://hn.algolia.com/api
type Client struct {
	baseAPI        string
	algoliaAPI     string
	client         *http.Client
	timeout        time.Duration
	limiter        *Limiter
	pace           *rate.Limiter
	commentWorkers int
}

// Options configures a Client. Zero values select the public endpoints,
// a limiter of 3 and 5 comment workers.
type Options struct {
	BaseAPI        string
	AlgoliaAPI     string
	HTTPClient     *http.Client
	Timeout        time.Duration // per request
	MaxConcurrent  int           // Algolia admission ceiling
	CommentWorkers int           // concurrent fetches per comment level
	RatePerSecond  float64       // 0 disables pacing
}

// NewClient creates a new Hacker News client.
func NewClient(opts Options) *Client {
	if strings.TrimSpace(opts.BaseAPI) == "" {
		opts.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if strings.TrimSpace(opts.AlgoliaAPI) == "" {
		opts.AlgoliaAPI = "https://hn.algolia.com/api/v1"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 3
	}
	if opts.CommentWorkers <= 0 {
		opts.CommentWorkers = 5
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	c := &Client{
		baseAPI:        strings.TrimRight(opts.BaseAPI, "/"),
		algoliaAPI:     strings.TrimRight(opts.AlgoliaAPI, "/"),
		client:         hc,
		timeout:        opts.Timeout,
		limiter:        NewLimiter(opts.MaxConcurrent),
		commentWorkers: opts.CommentWorkers,
	}
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		c.pace = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return c
}

// Lists maps short list names to their endpoint names.
var Lists = map[string]string{
	"top":  "topstories",
	"new":  "newstories",
	"best": "beststories",
	"ask":  "askstories",
	"show": "showstories",
	"job":  "jobstories",
}

// StoryIDs returns the ids of a story list (top, new, best, ask, show, job).
func (c *Client) StoryIDs(ctx context.Context, list string) ([]int, error) {
	name, ok := Lists[strings.ToLower(strings.TrimSpace(list))]
	if !ok {
		return nil, fmt.Errorf("hackernews: unknown list %q", list)
	}
	var ids []int
	if err := c.getJSON(ctx, "official", fmt.Sprintf("%s/%s.json", c.baseAPI, name), &ids, false); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) TopStoryIDs(ctx context.Context) ([]int, error)  { return c.StoryIDs(ctx, "top") }
func (c *Client) NewStoryIDs(ctx context.Context) ([]int, error)  { return c.StoryIDs(ctx, "new") }
func (c *Client) BestStoryIDs(ctx context.Context) ([]int, error) { return c.StoryIDs(ctx, "best") }
func (c *Client) AskStoryIDs(ctx context.Context) ([]int, error)  { return c.StoryIDs(ctx, "ask") }
func (c *Client) ShowStoryIDs(ctx context.Context) ([]int, error) { return c.StoryIDs(ctx, "show") }
func (c *Client) JobStoryIDs(ctx context.Context) ([]int, error)  { return c.StoryIDs(ctx, "job") }

// Item fetches a single flat item from the official API. Calls share the
// client's limiter with Algolia fetches.
func (c *Client) Item(ctx context.Context, id int) (*OfficialItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidID, id)
	}
	var it *OfficialItem
	err := c.limiter.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "official", fmt.Sprintf("%s/item/%d.json", c.baseAPI, id), &it, false)
	})
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

// UserInfo fetches a user profile. Results are not cached.
func (c *Client) UserInfo(ctx context.Context, id string) (model.UserInfo, error) {
	var zero model.UserInfo
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, fmt.Errorf("hackernews: empty user id")
	}
	var u *officialUser
	if err := c.getJSON(ctx, "official", fmt.Sprintf("%s/user/%s.json", c.baseAPI, id), &u, false); err != nil {
		return zero, err
	}
	if u == nil {
		return zero, ErrNotFound
	}
	return model.UserInfo{
		ID:        u.ID,
		CreatedAt: unixTime(u.Created),
		Karma:     u.Karma,
		About:     u.About,
		Submitted: u.Submitted,
	}, nil
}

// Stories resolves the first limit ids of a list into normalized stories.
// Failed items are skipped; order follows the list.
func (c *Client) Stories(ctx context.Context, list string, limit int) ([]model.Item, error) {
	ids, err := c.StoryIDs(ctx, list)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	slog.Info("hackernews: fetching items", "list", list, "count", len(ids))
	return c.itemsByIDs(ctx, ids), nil
}

// itemsByIDs resolves multiple IDs concurrently, preserving order.
func (c *Client) itemsByIDs(ctx context.Context, ids []int) []model.Item {
	if len(ids) == 0 {
		return nil
	}
	const maxWorkers = 8
	type result struct {
		idx  int
		item model.Item
		ok   bool
	}
	out := make([]result, len(ids))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan result, len(ids))
	for i, id := range ids {
		sem <- struct{}{}
		go func(i, id int) {
			defer func() { <-sem }()
			raw, err := c.Item(ctx, id)
			if err != nil {
				slog.Warn("hackernews: item fetch failed", "id", id, "error", err)
				done <- result{idx: i}
				return
			}
			it, err := Normalize(raw)
			done <- result{idx: i, item: it, ok: err == nil}
		}(i, id)
	}
	for range ids {
		r := <-done
		out[r.idx] = r
	}
	items := make([]model.Item, 0, len(ids))
	for _, r := range out {
		if r.ok {
			items = append(items, r.item)
		}
	}
	return items
}

// getJSON performs a bounded GET and decodes the body into dst. A JSON null
// body leaves dst untouched. When requireJSON is set, the response must carry
// a JSON content type.
func (c *Client) getJSON(ctx context.Context, source, endpoint string, dst any, requireJSON bool) error {
	if c.pace != nil {
		if err := c.pace.Wait(ctx); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hackernews: %s request: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Source: source, URL: endpoint, Code: resp.StatusCode}
	}
	if requireJSON && !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: %s content-type %q", ErrNotJSON, source, resp.Header.Get("Content-Type"))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hackernews: %s read body: %w", source, err)
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("hackernews: %s decode: %w", source, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
