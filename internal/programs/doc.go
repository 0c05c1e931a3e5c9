// Package programs persists user-authored hub programs in SQLite so work
// survives browser sessions and service restarts.
package programs
