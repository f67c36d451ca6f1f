package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

const DefaultBaseURL = "https://api.duckduckgo.com/"

// Client queries the DuckDuckGo Instant Answer API. No key is needed.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

type instantAnswer struct {
	Heading      string `json:"Heading"`
	Abstract     string `json:"Abstract"`
	AbstractText string `json:"AbstractText"`
	Image        string `json:"Image"`
}

// Lookup implements visibility.WebLookup. Callers decide how to degrade on error.
func (c *Client) Lookup(ctx context.Context, domain string) (visibility.DomainInfo, error) {
	q := url.Values{}
	q.Set("q", domain)
	q.Set("format", "json")
	q.Set("no_html", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return visibility.DomainInfo{}, fmt.Errorf("build lookup request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return visibility.DomainInfo{}, fmt.Errorf("lookup %s: %w", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return visibility.DomainInfo{}, fmt.Errorf("lookup %s: unexpected status %d", domain, resp.StatusCode)
	}

	var ans instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		return visibility.DomainInfo{}, fmt.Errorf("decode lookup %s: %w", domain, err)
	}

	desc := ans.AbstractText
	if desc == "" {
		desc = ans.Abstract
	}
	return visibility.CompleteInfo(domain, visibility.DomainInfo{
		Title:       strings.TrimSpace(ans.Heading),
		Description: strings.TrimSpace(desc),
		Image:       absoluteImage(ans.Image),
		Source:      visibility.SourceDuckDuckGo,
	}), nil
}

// DuckDuckGo returns site-relative icon paths.
func absoluteImage(img string) string {
	if strings.HasPrefix(img, "/") {
		return "https://duckduckgo.com" + img
	}
	return img
}
