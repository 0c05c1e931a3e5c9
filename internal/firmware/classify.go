package firmware

import (
	"fmt"
	"strings"

	"hubportal/internal/services"
	"hubportal/internal/textutil"
)

// Category enumerates the actionable failure classes derived from flasher
// output. The mapping from raw text to category is one-way.
type Category string

const (
	CategoryDeviceNotFound       Category = "device_not_found"
	CategoryPrerequisitesMissing Category = "prerequisites_missing"
	CategoryPermissionDenied     Category = "permission_denied"
	CategoryToolNotInstalled     Category = "tool_not_installed"
	CategoryTimeout              Category = "timeout"
	CategoryUnknown              Category = "unknown_failure"
)

// maxRawOutput caps how much raw tool output an unknown failure carries.
const maxRawOutput = 2000

// ClassifiedError is a flash failure with its category and remediation
// message. Output preserves the trimmed combined tool output when one was
// collected (empty for timeouts, where partial output is discarded).
type ClassifiedError struct {
	Category Category
	Message  string
	Output   string
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap ties each category back into the shared error taxonomy so callers
// can match with errors.Is without importing category constants.
func (e *ClassifiedError) Unwrap() error {
	switch e.Category {
	case CategoryToolNotInstalled:
		return services.ErrToolMissing
	case CategoryTimeout:
		return services.ErrTimeout
	default:
		return services.ErrExternalTool
	}
}

// rule is one ordered classification predicate. Rules run most specific
// first and only the first match governs the reported category.
type rule struct {
	name     string
	category Category
	matches  func(output string) bool
	message  func(output string) string
}

var classifyRules = []rule{
	{
		name:     "no-device-exact",
		category: CategoryDeviceNotFound,
		matches: func(output string) bool {
			return strings.Contains(output, "No LEGO DFU USB device found") ||
				strings.Contains(output, "No DFU devices found.")
		},
		message: func(string) string { return dfuEntryGuidance },
	},
	{
		name:     "missing-prerequisites",
		category: CategoryPrerequisitesMissing,
		matches: func(output string) bool {
			return strings.Contains(output, "No working DFU found.") ||
				strings.Contains(output, "dfu-util")
		},
		message: func(string) string { return prerequisitesGuidance },
	},
	{
		name:     "no-device-loose",
		category: CategoryDeviceNotFound,
		matches: func(output string) bool {
			return strings.Contains(output, "No DFU")
		},
		message: func(string) string { return looseDfuGuidance },
	},
	{
		name:     "permission-denied",
		category: CategoryPermissionDenied,
		matches: func(output string) bool {
			return strings.Contains(output, "Permission to access USB device denied")
		},
		message: func(string) string { return permissionGuidance },
	},
}

// Classify maps combined flasher output to a failure category using the
// fixed rule order. Unmatched output becomes an unknown failure carrying the
// raw text, truncated but never discarded.
func Classify(output string) *ClassifiedError {
	for _, r := range classifyRules {
		if r.matches(output) {
			return &ClassifiedError{
				Category: r.category,
				Message:  r.message(output),
				Output:   strings.TrimSpace(output),
			}
		}
	}
	raw := textutil.Truncate(output, maxRawOutput)
	if raw == "" {
		raw = "unknown error"
	}
	return &ClassifiedError{
		Category: CategoryUnknown,
		Message:  "pybricksdev failed: " + raw,
		Output:   strings.TrimSpace(output),
	}
}
