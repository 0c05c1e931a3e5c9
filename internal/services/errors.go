package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks caller mistakes: bad extensions, empty uploads,
	// malformed source. Always recoverable by the caller.
	ErrValidation = errors.New("validation error")
	// ErrToolMissing marks an external executable that could not be located
	// on the host search path. No process was spawned.
	ErrToolMissing = errors.New("tool not installed")
	// ErrTimeout marks an external process that exceeded its wall-clock bound
	// and was terminated.
	ErrTimeout = errors.New("timeout")
	// ErrNotFound marks a missing resource: an absent release asset, program,
	// or bundled image.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a remote index or download that could not be reached
	// or returned an unusable response.
	ErrUpstream = errors.New("upstream unreachable")
	// ErrExternalTool marks a tool that ran and reported failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks a feature that is not configured on this host.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient is the fallback marker for unclassified failures.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Message extracts the human-readable portion of a wrapped error by stripping
// the sentinel prefix. Falls back to the full error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, marker := range []error{
		ErrValidation, ErrToolMissing, ErrTimeout, ErrNotFound,
		ErrUpstream, ErrExternalTool, ErrConfiguration, ErrTransient,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	return text
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
