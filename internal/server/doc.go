// Package server provides HTTP routing, middleware, and the session guard for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Session Guard
//
// [SessionManager] stores the logged-in user in a signed cookie (HS256 JWT).
// Tokens carry the user ID, the username for display, and an absolute expiry.
//
// [SessionManager.Require] gates protected routes:
//   - No cookie, a bad signature, or a malformed token redirects to /login
//   - An expired token clears the cookie and redirects to /login
//   - A valid token is exposed to handlers through [SessionFrom]
//
// Missing sessions are never reported as errors to the client; the response is always the redirect.
//
// # Middleware
//
//   - [AccessLog] : one log line per request with a request ID
//   - [Recover] : panics become 500 responses
//   - [Metrics] : Prometheus request counter and latency histogram keyed by route pattern
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
