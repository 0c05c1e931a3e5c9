// Package main hosts the hubportal CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the portal's services from the
// terminal: serving the HTTP API, syntax checking and compiling programs,
// flashing and restoring hub firmware, inspecting the release index and the
// external toolchain, and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
