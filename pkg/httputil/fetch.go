package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/observability"
)

// maxBodySize caps remote catalog and detail payloads.
const maxBodySize = 4 << 20

// GetJSON fetches url and decodes the JSON body into v.
//
// Network errors, 429 and 5xx responses are returned wrapped in
// [RetryableError] with code NETWORK_ERROR. A 404 yields NOT_FOUND, other
// statuses and decode failures yield INVALID_INPUT.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return errors.New(errors.ErrCodeInvalidInput, "%s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", url)
	}
	return nil
}

// FetchJSON is [GetJSON] under [RetryWithBackoff].
func FetchJSON(ctx context.Context, client *http.Client, url string, v any) error {
	err := RetryWithBackoff(ctx, func() error {
		return GetJSON(ctx, client, url, v)
	})
	if err != nil {
		return fmt.Errorf("fetch json: %w", err)
	}
	return nil
}
