package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/sigco3111/relationship-visualizer/pkg/logger"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxBodyBytes = 5 << 20
	defaultCacheSize    = 128
	defaultCacheTTL     = time.Hour
	fetchTimeout        = 30 * time.Second
)

var (
	ErrUnsupportedURL     = errors.New("only http and https urls are supported")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrBlockedHost        = errors.New("url points to a private or loopback address")
)

// Fetcher downloads web pages and extracts their readable text. HTML pages
// are reduced to their main article with readability; plain text is returned
// as is. Results are kept in a bounded LRU cache per URL and concurrent
// requests for the same URL share one download.
//
// Unless AllowPrivateHosts is set, loopback, private and link-local targets
// are refused both by host name and again at dial time.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	allowPrivate bool

	cache *expirable.LRU[string, string]
	group singleflight.Group
}

// NewFetcherParams configures a Fetcher. A nil Client uses a client with a
// 30 second timeout whose dialer refuses private addresses.
type NewFetcherParams struct {
	Client            *http.Client
	MaxBodyBytes      int64
	CacheSize         int
	CacheTTL          time.Duration
	AllowPrivateHosts bool
}

// NewFetcher creates a Fetcher.
func NewFetcher(params NewFetcherParams) *Fetcher {
	client := params.Client
	if client == nil {
		client = newClient(params.AllowPrivateHosts)
	}
	maxBody := params.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	size := params.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Fetcher{
		client:       client,
		maxBodyBytes: maxBody,
		allowPrivate: params.AllowPrivateHosts,
		cache:        expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func newClient(allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if !allowPrivate {
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			return checkDialAddress(address)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{Timeout: fetchTimeout, Transport: transport}
}

// checkDialAddress rejects a resolved ip:port that is not publicly routable.
func checkDialAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || isPrivateIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast()
}

func checkHost(host string) error {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ErrUnsupportedURL
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	return nil
}

// FetchText returns the readable text behind rawURL.
//
// The download itself is detached from ctx so that a caller giving up does
// not fail other callers waiting on the same URL; ctx only bounds how long
// this caller waits.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsupportedURL
	}
	if !f.allowPrivate {
		if err := checkHost(u.Hostname()); err != nil {
			return "", err
		}
	}
	key := u.String()

	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}

	ch := f.group.DoChan(key, func() (any, error) {
		if cached, ok := f.cache.Get(key); ok {
			return cached, nil
		}

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		text, err := f.fetch(fctx, u)
		if err != nil {
			return "", err
		}

		f.cache.Add(key, text)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, f.maxBodyBytes)
	contentType := resp.Header.Get("Content-Type")

	var text string
	switch {
	case strings.Contains(contentType, "text/html"):
		article, err := readability.FromReader(body, u)
		if err != nil {
			return "", fmt.Errorf("failed to parse html: %w", err)
		}
		var builder strings.Builder
		if err := article.RenderText(&builder); err != nil {
			return "", fmt.Errorf("failed to render article text: %w", err)
		}
		text = builder.String()
	case strings.HasPrefix(contentType, "text/"):
		data, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContent, contentType)
	}

	logger.Debug("[Web] Fetched page", "url", u.String(), "chars", len(text), "duration", time.Since(start))
	return strings.TrimSpace(text), nil
}
