// Package graph provides a thin client for the Microsoft Graph REST API.
//
// This package provides:
//   - An HTTP client for mailbox-scoped GET/POST/PATCH requests
//   - Error handling for Microsoft Graph API responses
//   - Rate limiting for Microsoft Graph API requests
//   - Token providers and permission scope checks
//
// Paths handed to the client are relative to a mailbox: an empty user
// targets /me, any other value targets /users/{user}.
//
// # Scopes
//
// Mutating operations require the Mail.ReadWrite permission; reads
// require Mail.Read. RequireScope checks the granted scopes locally
// before a request is issued, so a missing permission fails fast
// instead of after a round-trip.
//
// # Rate Limits
//
// Microsoft Graph allows approximately 10,000 requests per 10 minutes
// per app. The client applies conservative client-side limiting and
// honours Retry-After on 429 responses by backing off before the next
// request. Retrying the failed request is left to the caller.
package graph
