package core

import (
	"context"
	"net/http"
	"time"
)

const UserAgent = "leocov-dev/addonpack"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// GetWithUA performs a GET carrying the tool's user agent.
func GetWithUA(ctx context.Context, url string, contentType string) (resp *http.Response, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", contentType)
	return httpClient.Do(req)
}
