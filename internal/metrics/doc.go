// Package metrics exposes Prometheus instrumentation for the server:
// config reload outcomes, proxied widget request counts and latency,
// and connected WebSocket clients.
package metrics
