// Package notion implements the record store and committer ports on top of
// a Notion database.
//
// # Architecture
//
//   - Client: wraps github.com/jomei/notionapi with rate limiting
//   - mapping: converts notionapi properties and blocks to domain values
//   - RateLimiter: token bucket plus backoff after repeated 429s
//
// # Queries
//
// Unprocessed records are those whose status checkbox is unchecked. One page
// of up to 100 records is fetched per run; when Notion reports more, a
// warning is logged and the remainder is picked up by a later run.
//
// # Rate Limiting
//
// Notion allows an average of three requests per second per integration.
// Every call waits on a token bucket at that rate. The underlying client
// retries 429 responses honouring Retry-After; when it gives up, the limiter
// backs off before the next request.
//
// # Error Handling
//
// API errors are wrapped with sentinels (ErrUnauthorized, ErrNotFound, ...)
// that keep Notion's message. Query failures are additionally marked with
// domain.ErrSourceUnavailable. Commit failures never surface as errors; they
// are returned as domain.NotDelivered.
package notion
