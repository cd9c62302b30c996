// Package httputil provides HTTP helpers for remote catalog and detail
// fetches.
//
// # Overview
//
//   - [GetJSON]: GET a URL and decode the JSON body, classifying failures
//   - [Backoff]: retry with exponential backoff
//   - [LastGood]: file-based store of the last good response per URL
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried. [GetJSON] wraps
// network failures, 429 and 5xx responses so they are retried; 4xx
// responses and malformed bodies fail immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return httputil.GetJSON(ctx, client, url, &records)
//	})
//
// # Last good response
//
// A remote catalog that cannot be reached must not blank the site. Callers
// store every successful payload with [LastGood.Save] and read it back
// with [LastGood.Load] when a later fetch fails.
package httputil
