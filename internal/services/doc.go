// Package services defines shared utilities consumed by the toolchain
// components and HTTP handlers.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with a
//     category the API layer can translate into response statuses.
//   - Context helpers that stamp request correlation identifiers and operation
//     names for logging.
//
// Use these helpers when wiring new handlers so operational behaviour (error
// handling, observability) stays uniform across the service.
package services
