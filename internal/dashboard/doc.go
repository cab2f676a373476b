// Package dashboard defines the dashboard document: the TOML-authored
// configuration that describes every visible group, tile and widget.
//
// A Document is loaded and validated in one step by Load and is
// immutable afterwards. Lookup (Service, Widget) and redaction (Redact)
// operate on a single snapshot and are safe for concurrent use.
//
// Redact produces the only representation that may ever be sent to a
// browser: widget URLs and API keys exist solely server-side.
package dashboard
