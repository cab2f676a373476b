// Package watch detects edits to the dashboard document and drives
// store reloads. It is a quality-of-life layer: deployments that accept
// restart-to-reload can run without it.
package watch
