// Package workspace provides request-scoped temporary directories for
// staging toolchain inputs and outputs.
//
// Every toolchain operation acquires exactly one Workspace, stages its files
// inside it, and releases it on every exit path. No two operations ever share
// a workspace, and no staged file outlives the operation that created it.
package workspace
