package preflight

import (
	"context"

	"hubportal/internal/config"
	"hubportal/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Failures are reported, not fatal: the compiler degrades without mpy-cross
// and flashing reports its own tool errors per request.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Workspace directory", cfg.Paths.WorkspaceDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDiskSpace("Workspace disk space", cfg.Paths.WorkspaceDir, minWorkspaceBytes))

	for _, status := range deps.CheckBinaries(deps.Toolchain(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = status.Command
		} else {
			result.Detail = status.Detail
			if status.Optional {
				result.Detail += " (optional)"
				result.Passed = true
			}
		}
		results = append(results, result)
	}
	return results
}

// Failed filters results down to hard failures.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
