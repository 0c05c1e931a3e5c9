// Package logging centralizes slog logger construction and the structured
// attribute vocabulary used across hubportal.
//
// It offers console and JSON handlers, attribute helpers so call sites avoid
// importing log/slog directly, and context helpers that stamp request
// correlation identifiers onto every record emitted during an operation.
package logging
