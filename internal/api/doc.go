// Package api implements the request procedure shared by every GitHub
// DevOps tool call. It resolves URLs, attaches the fixed header contract,
// enforces a per-attempt deadline, retries transient failures and
// normalizes responses and errors.
//
// # Request Procedure
//
// [Client.Do] resolves the request path against the base URL (absolute
// http(s) URLs are used verbatim), merges non-empty query parameters, and
// sets these headers on every attempt:
//
//	Authorization: Bearer <token>
//	Accept: application/vnd.github+json
//	X-GitHub-Api-Version: 2022-11-28
//	User-Agent: gh-devops-mcp/1.0.0
//	Content-Type: application/json   (only with a body)
//
// Caller headers are applied last. Redirects are never followed.
//
// # Retry Behavior
//
// A request makes at most three attempts. Each attempt is classified as
// done, retry or fail:
//
//   - 403 with X-RateLimit-Remaining: 0 sleeps until X-RateLimit-Reset
//     plus one second, capped at one minute.
//   - 429 sleeps for Retry-After seconds, five when the header is missing.
//   - Transport failures back off 1s, 2s, 4s.
//   - A per-attempt timeout (30s), or a timeout reported by the HTTP
//     client, fails immediately with a 408 APIError.
//   - Any other non-2xx status fails immediately with an APIError.
//
// When no attempts remain, rate-limit statuses fall through to the APIError
// branch and transport failures return the last NetworkError.
//
// # Responses
//
// 204 yields [KindEmpty], 302 yields [KindRedirect] with the Location
// header, raw requests yield [KindText], and everything else yields
// [KindJSON] (an empty body becomes "{}").
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Retry sleeps only block the
// goroutine that owns the request.
package api
