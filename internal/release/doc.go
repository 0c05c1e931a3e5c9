// Package release resolves and downloads firmware assets from a remote
// release index.
//
// Only the single "latest" release is consulted and nothing is cached; every
// resolution re-queries the index. Asset names are matched case-insensitively
// against a fixed per-family naming pattern so the install and restore image
// families can never be confused.
package release
