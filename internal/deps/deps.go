// Package deps reports availability of the external toolchain the portal
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hubportal/internal/config"
)

// Requirement defines an external dependency the portal relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Toolchain lists the external tools for the given config. mpy-cross is
// optional because syntax checking still works without it; the flash tools
// are required for any firmware operation.
func Toolchain(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "mpy-cross",
			Command:     cfg.Tools.MpyCross,
			Description: "Compiles MicroPython source to .mpy bytecode",
			Optional:    true,
		},
		{
			Name:        "pybricksdev",
			Command:     cfg.Tools.Pybricksdev,
			Description: "Flashes Pybricks firmware and restores hubs over DFU",
		},
		{
			Name:        "dfu-util",
			Command:     "dfu-util",
			Description: "USB DFU transport used by pybricksdev restore",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
