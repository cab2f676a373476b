// Package config loads the server's own settings from config.yaml:
// listen port, dashboard document location, watch/debounce behaviour
// and outbound widget timeouts.
//
// This is deliberately separate from the dashboard document itself:
// server settings change with deployments, while the dashboard document
// changes whenever the user rearranges tiles.
//
// Load(path) applies defaults before unmarshalling, then validates.
// A missing file yields the defaults.
package config
