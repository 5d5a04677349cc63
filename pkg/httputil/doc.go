// Package httputil fetches remote documents over HTTP.
//
// # Overview
//
// [Client] is the only way jsontree talks to the network. It adds three
// things on top of net/http:
//
//   - Caching: response bodies are stored in a [cache.Cache] under
//     [cache.Keyer.FetchKey], with a short TTL ([cache.TTLFetch])
//   - Retry: network failures and 5xx responses are retried with
//     exponential backoff via [cache.Retry]
//   - Limits: bodies larger than [Client.MaxBytes] are rejected
//
// Every request is reported to [observability.HTTP].
//
// # Usage
//
//	client := httputil.NewClient(fileCache, nil)
//	body, err := client.Fetch(ctx, "https://example.com/data.json", false)
//
// Errors carry codes from pkg/errors: NETWORK_ERROR, TIMEOUT, NOT_FOUND or
// INVALID_INPUT for URLs that are not http(s).
package httputil
