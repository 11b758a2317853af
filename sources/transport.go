package sources

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/leocov-dev/addonpack/core"
)

const requestTimeout = 60 * time.Second

// registryTransport paces requests to a registry, adds its fixed headers and maps
// the status codes every caller treats the same way onto core errors.
type registryTransport struct {
	base     http.RoundTripper
	registry core.Registry
	limiter  *rate.Limiter
	headers  map[string]string
}

func newRegistryClient(registry core.Registry, perSecond float64, headers map[string]string) *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &registryTransport{
			base:     http.DefaultTransport,
			registry: registry,
			limiter:  rate.NewLimiter(rate.Limit(perSecond), 10),
			headers:  headers,
		},
	}
}

func (t *registryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", core.UserAgent)
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := t.checkStatus(req, resp); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (t *registryTransport) checkStatus(req *http.Request, resp *http.Response) error {
	if remaining := resp.Header.Get("x-ratelimit-remaining"); t.registry == core.RegistryGithub && remaining == "0" {
		return &core.RateLimitError{Registry: t.registry, RetryAfter: resp.Header.Get("x-ratelimit-reset")}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", t.registry, req.URL.Path, core.ErrNotFound)
	case http.StatusTooManyRequests:
		return &core.RateLimitError{Registry: t.registry, RetryAfter: resp.Header.Get("Retry-After")}
	}
	return nil
}

// checkOK turns any remaining non-2xx status into an error.
func checkOK(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %s", resp.Request.Method, resp.Request.URL, resp.Status)
	}
	return nil
}
