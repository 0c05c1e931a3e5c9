// Package pysyntax validates MicroPython source syntax entirely in-process
// using the tree-sitter Python grammar.
//
// Check never shells out and never fails with an error for invalid source:
// a parse problem is always reported as a result value with the 1-indexed
// line and column of the first offending token.
package pysyntax
