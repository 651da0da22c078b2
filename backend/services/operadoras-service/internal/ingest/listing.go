package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const maxDownloadBytes = 512 << 20

// ListingClient browses the directory listings of the ANS open-data server.
type ListingClient struct {
	http   *http.Client
	logger *zap.Logger
}

// NewListingClient returns client.
func NewListingClient(httpClient *http.Client, logger *zap.Logger) *ListingClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingClient{http: httpClient, logger: logger}
}

// LatestQuarters returns up to limit subdirectories of baseURL, newest first.
// The parent directory and links leaving baseURL are ignored.
func (c *ListingClient) LatestQuarters(ctx context.Context, baseURL string, limit int) ([]string, error) {
	base, links, err := c.links(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var dirs []string
	for _, href := range links {
		if !strings.Contains(href, "/") || strings.Contains(href, "PDA") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref).String()
		if !strings.HasPrefix(abs, base.String()) || abs == base.String() {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		dirs = append(dirs, abs)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	if limit > 0 && len(dirs) > limit {
		dirs = dirs[:limit]
	}
	return dirs, nil
}

// ZipLinks returns the absolute URLs of the .zip files listed in dirURL.
func (c *ListingClient) ZipLinks(ctx context.Context, dirURL string) ([]string, error) {
	base, links, err := c.links(ctx, dirURL)
	if err != nil {
		return nil, err
	}

	var zips []string
	for _, href := range links {
		if !strings.HasSuffix(strings.ToLower(href), ".zip") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		zips = append(zips, base.ResolveReference(ref).String())
	}
	return zips, nil
}

// Download fetches rawURL into memory.
func (c *ListingClient) Download(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", rawURL, err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("ingest: %s exceeds %d bytes", rawURL, maxDownloadBytes)
	}
	return data, nil
}

func (c *ListingClient) links(ctx context.Context, rawURL string) (*url.URL, []string, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: parse url %q: %w", rawURL, err)
	}
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	links, err := anchorHrefs(body)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: parse listing %s: %w", rawURL, err)
	}
	c.logger.Debug("listing fetched", zap.String("url", rawURL), zap.Int("links", len(links)))
	return base, links, nil
}

func (c *ListingClient) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: GET %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ingest: GET %s: status %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// anchorHrefs collects the href attribute of every <a> element.
func anchorHrefs(r io.Reader) ([]string, error) {
	var hrefs []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return hrefs, nil
			}
			return hrefs, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					hrefs = append(hrefs, strings.TrimSpace(string(val)))
				}
				if !more {
					break
				}
			}
		}
	}
}

// NewHTTPClient returns a client for large downloads; timeout bounds each request.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
