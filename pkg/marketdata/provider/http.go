package provider

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

const userAgent = "Mozilla/5.0 (compatible; marketpulse/1.0)"

// newHTTPClient creates a resty client with the fixed per-request timeout and no retries.
func newHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)
}

// get issues a GET and returns the body. Transport failures and non-2xx statuses are network errors.
func get(ctx context.Context, client *resty.Client, url string, query map[string]string) ([]byte, error) {
	response, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNetwork, err, "request to %s failed", url)
	}

	if response.IsError() {
		return nil, errors.Newf(errors.ErrCodeNetwork, "request to %s returned status %d", url, response.StatusCode())
	}

	return response.Body(), nil
}
