// Package htmlmeta extracts the fields the indexer cares about from raw
// HTML: title, first H1 and meta description. Used by the page preview
// endpoint to show what a URL would look like before crawling it.
package htmlmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"
)

// Meta holds the extracted page fields
type Meta struct {
	Title           string `json:"title"`
	H1              string `json:"h1"`
	MetaDescription string `json:"meta_description"`
}

// Fetcher downloads and parses a single page
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher with a sane timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch downloads targetURL and extracts its metadata.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Meta, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("URL must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; UnveilSEO/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return Extract(doc), nil
}

// Extract walks the parsed document and pulls out title, first H1 and
// meta description. og:description wins over the plain description tag.
func Extract(doc *html.Node) *Meta {
	meta := &Meta{}
	var plainDescription, ogDescription string

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" && n.FirstChild != nil {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "h1":
				if meta.H1 == "" {
					meta.H1 = textContent(n)
				}
			case "meta":
				var name, property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name":
						name = strings.ToLower(attr.Val)
					case "property":
						property = strings.ToLower(attr.Val)
					case "content":
						content = attr.Val
					}
				}
				if content != "" {
					if name == "description" && plainDescription == "" {
						plainDescription = content
					}
					if property == "og:description" && ogDescription == "" {
						ogDescription = content
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	meta.MetaDescription = strings.TrimSpace(ogDescription)
	if meta.MetaDescription == "" {
		meta.MetaDescription = strings.TrimSpace(plainDescription)
	}
	return meta
}

// textContent extracts all text content from a node and its children
func textContent(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}
