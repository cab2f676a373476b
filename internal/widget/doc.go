// Package widget implements the outbound side of dashboard widgets:
// the reachability ping (HEAD with a GET fallback on 501) and the
// Sonarr integration (upcoming-episode calendar cross-referenced with
// the active download queue). Every call is bounded by a client timeout
// and carries the request context.
package widget
