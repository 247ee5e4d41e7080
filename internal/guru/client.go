// Package guru is a client for the Guru content API.
package guru

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/guru-sync/internal/apperr"
	"github.com/starford/guru-sync/internal/models"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.getguru.com/api/v1"

// contentHost serves file bodies and rejects JSON-only accept headers.
const contentHost = "content.api.getguru.com"

// maxErrorBody caps how much of a failed response lands in an error.
const maxErrorBody = 1 << 10

// Client talks to the content API.
type Client struct {
	baseURL string
	team    string
	header  http.Header
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTeam sets the team used by the team-scoped endpoints.
func WithTeam(team string) Option {
	return func(c *Client) {
		c.team = team
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client that sends header with every API request.
func NewClient(header http.Header, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		header:  header.Clone(),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Header returns a copy of the API request headers.
func (c *Client) Header() http.Header {
	return c.header.Clone()
}

// FetchCardsFromSearch lists every card visible to the credentials through
// the search endpoint, following next-page links. A null response means no
// cards; a non-array response is treated as empty.
func (c *Client) FetchCardsFromSearch(ctx context.Context) ([]models.Card, error) {
	next := c.baseURL + "/search/query?q="
	seen := make(map[string]bool)
	var cards []models.Card

	for next != "" && !seen[next] {
		seen[next] = true

		resp, err := c.get(ctx, next, c.header)
		if err != nil {
			return nil, fmt.Errorf("guru: fetch cards via search: %w", err)
		}
		data, err := readOK(resp, "fetch cards via search")
		if err != nil {
			return nil, err
		}

		page, err := decodeCardPage(data)
		if err != nil {
			return nil, fmt.Errorf("guru: fetch cards via search: %w", err)
		}
		cards = append(cards, page...)
		next = nextLink(resp)
	}

	c.logger.Info("cards fetched via search", slog.Int("count", len(cards)))
	return cards, nil
}

// FetchCardsFromTeam lists the cards of the configured team.
func (c *Client) FetchCardsFromTeam(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := c.getJSON(ctx, c.teamURL("cards"), "fetch cards", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// FetchBoards lists the boards of the configured team.
func (c *Client) FetchBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := c.getJSON(ctx, c.teamURL("boards"), "fetch boards", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// FetchCollections lists the collections of the configured team.
func (c *Client) FetchCollections(ctx context.Context) ([]models.Collection, error) {
	var cols []models.Collection
	if err := c.getJSON(ctx, c.teamURL("collections"), "fetch collections", &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// FetchParent returns the parent folder of a board, or nil when the API
// reports none (any non-2xx status). Only transport and decode failures
// are returned as errors.
func (c *Client) FetchParent(ctx context.Context, boardID string) (*models.Folder, error) {
	resp, err := c.get(ctx, c.baseURL+"/folders/"+url.PathEscape(boardID)+"/parent", c.header)
	if err != nil {
		return nil, fmt.Errorf("guru: fetch parent of %s: %w", boardID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Debug("board has no parent",
			slog.String("board_id", boardID),
			slog.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parent models.Folder
	if err := json.NewDecoder(resp.Body).Decode(&parent); err != nil {
		return nil, fmt.Errorf("guru: decode parent of %s: %w", boardID, err)
	}
	return &parent, nil
}

// Download fetches a file body. Requests to the content host accept any
// type and carry no Accept-Language. Every failure, including a non-2xx
// status, is returned as an error.
func (c *Client) Download(ctx context.Context, rawURL string, header http.Header) (*models.RemoteFile, error) {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	if strings.Contains(rawURL, contentHost) {
		h.Set("Accept", "*/*")
		h.Del("Accept-Language")
	}

	resp, err := c.get(ctx, rawURL, h)
	if err != nil {
		return nil, fmt.Errorf("guru: download %s: %w", rawURL, err)
	}
	data, err := readOK(resp, "download "+rawURL)
	if err != nil {
		return nil, err
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.logger.Debug("file downloaded",
		slog.String("url", rawURL),
		slog.Int("bytes", len(data)),
		slog.String("content_type", ct))
	return &models.RemoteFile{Data: data, ContentType: ct}, nil
}

func (c *Client) teamURL(resource string) string {
	return c.baseURL + "/teams/" + url.PathEscape(c.team) + "/" + resource
}

func (c *Client) get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		req.Header[k] = append([]string(nil), vs...)
	}
	return c.http.Do(req)
}

func (c *Client) getJSON(ctx context.Context, rawURL, op string, v any) error {
	resp, err := c.get(ctx, rawURL, c.header)
	if err != nil {
		return fmt.Errorf("guru: %s: %w", op, err)
	}
	data, err := readOK(resp, op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("guru: %s: decode: %w", op, err)
	}
	return nil
}

// readOK reads and closes the body, mapping non-2xx statuses to
// *apperr.APIError.
func readOK(resp *http.Response, op string) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &apperr.APIError{
			Op:         op,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("guru: %s: read body: %w", op, err)
	}
	return data, nil
}

func statusText(resp *http.Response) string {
	if t := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); t != "" && t != resp.Status {
		return t
	}
	return http.StatusText(resp.StatusCode)
}

func decodeCardPage(data []byte) ([]models.Card, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []models.Card{}, nil
	}
	var cards []models.Card
	if err := json.Unmarshal(trimmed, &cards); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return cards, nil
}

var linkPattern = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?([^";,]+)"?`)

// nextLink returns the absolute next-page URL from the Link header, or "".
func nextLink(resp *http.Response) string {
	for _, header := range resp.Header.Values("Link") {
		for _, m := range linkPattern.FindAllStringSubmatch(header, -1) {
			rel := strings.ToLower(m[2])
			if rel != "next-page" && rel != "next" {
				continue
			}
			u, err := url.Parse(m[1])
			if err != nil {
				return ""
			}
			if resp.Request != nil && resp.Request.URL != nil {
				u = resp.Request.URL.ResolveReference(u)
			}
			return u.String()
		}
	}
	return ""
}
