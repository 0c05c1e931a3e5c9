// Package config loads, normalizes, and validates hubportal configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HUBPORTAL_ASSIST_API_KEY. The Config type centralizes every knob the
// server and CLI need: workspace directories, external tool names, release
// index settings, and collaborator credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
