// Package server exposes the portal's HTTP API: syntax checking and
// compilation, firmware install and restore, saved programs, the examples
// catalog, the assist proxy, program sharing, device status and the terminal
// websocket relay. Each request runs on its own goroutine; isolation comes
// from per-operation workspaces and the flasher's device lock.
package server
