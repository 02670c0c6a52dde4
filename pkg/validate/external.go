package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultExternalTimeout bounds a single external check.
const DefaultExternalTimeout = 10 * time.Second

// defaultCacheSize is the number of external results kept per checker.
const defaultCacheSize = 1024

// CheckResult is the outcome of an external check.
type CheckResult struct {
	// OK is false when the URL is unreachable or missing
	OK bool
	// Status is the HTTP status, 0 when no response was received
	Status int
	// Warning is set for an unexpected but accepted status
	Warning string
}

// URLChecker checks that an external URL is alive.
type URLChecker interface {
	Check(ctx context.Context, rawURL string) CheckResult
}

// HTTPChecker checks external URLs with a HEAD request. Each distinct URL is
// requested at most once while its result stays cached.
type HTTPChecker struct {
	client *resty.Client
	group  singleflight.Group
	cache  *lru.Cache[string, CheckResult]
}

// NewHTTPChecker creates a checker whose requests time out after timeout.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "validlink").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	cache, _ := lru.New[string, CheckResult](defaultCacheSize)

	return &HTTPChecker{client: client, cache: cache}
}

// Check sends a HEAD request to rawURL. localhost URLs always pass; a failed
// request or a 404 fails; any other non-2xx status passes with a warning.
func (c *HTTPChecker) Check(ctx context.Context, rawURL string) CheckResult {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return CheckResult{OK: false}
	}
	if parsed.Hostname() == "localhost" {
		return CheckResult{OK: true}
	}

	if res, ok := c.cache.Get(rawURL); ok {
		return res
	}

	v, _, _ := c.group.Do(rawURL, func() (any, error) {
		res := c.head(ctx, rawURL)
		if ctx.Err() == nil {
			c.cache.Add(rawURL, res)
		}
		return res, nil
	})
	return v.(CheckResult)
}

func (c *HTTPChecker) head(ctx context.Context, rawURL string) CheckResult {
	resp, err := c.client.R().SetContext(ctx).Head(rawURL)
	if err != nil {
		return CheckResult{OK: false}
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return CheckResult{OK: true, Status: status}
	case status == http.StatusNotFound:
		return CheckResult{OK: false, Status: status}
	default:
		return CheckResult{
			OK:      true,
			Status:  status,
			Warning: fmt.Sprintf("%s responded status %d, is it expected?", rawURL, status),
		}
	}
}
