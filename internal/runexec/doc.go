// Package runexec is the single subprocess-invocation primitive shared by
// the compiler and the flasher.
//
// It runs an external executable with a hard wall-clock bound, captures the
// combined stdout/stderr stream, and on expiry kills the whole process group
// so tool children cannot outlive the operation. Callers receive a typed
// timeout or missing-tool error, never a raw spawn failure.
package runexec
