// Package server exposes the conversation session over HTTP: commands for the
// recording lifecycle, a read-only projection of the conversation log, and a
// WebSocket that pushes state snapshots to the browser after each command.
package server
