// Package googlebooks is a small client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.googleapis.com"

type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	RPS       float64
	Timeout   time.Duration
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// VolumesResponse matches books/v1/volumes
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate"`
	ImageLinks    *struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// StatusError is returned when the API answers with anything but 200.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Volumes fetches one page of volumes written by author.
func (c *Client) Volumes(ctx context.Context, author string, startIndex, maxResults int) (*VolumesResponse, error) {
	q := url.Values{}
	q.Set("q", "inauthor:"+author)
	q.Set("startIndex", strconv.Itoa(startIndex))
	q.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	var res VolumesResponse
	if err := c.get(ctx, c.baseURL+"/books/v1/volumes?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode volumes: %w", err)
	}
	return nil
}
