// Package compiler orchestrates the MicroPython cross-compiler.
//
// It validates syntax in-process before spending process time, stages source
// in a request-scoped workspace, invokes mpy-cross with a bounded timeout,
// and reports the produced bytecode size or bytes. A missing cross-compiler
// degrades the size-only path to a syntax-checked success; the retrieve path
// fails hard because there is no artifact to return.
package compiler
