// Package api serves the /api/v1/* HTTP surface: the redacted
// dashboard document, the widget proxies (ping, sonarr), document
// stats and health. Handlers read the current snapshot per request and
// map domain errors to structured JSON error payloads; a bad request
// or a dead downstream never crashes the handler.
package api
