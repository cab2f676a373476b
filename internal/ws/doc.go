// Package ws pushes the redacted dashboard document to connected
// browsers over WebSocket: once on connect, and again after every
// successful config reload.
package ws
