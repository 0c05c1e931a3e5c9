// Package textutil provides small text helpers for surfacing tool output
// and rendering category labels.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Truncate trims text and caps it at max runes, appending an ellipsis when
// content was cut. Used when surfacing raw tool output so unknown failures
// stay readable without being swallowed.
func Truncate(text string, max int) string {
	trimmed := strings.TrimSpace(text)
	if max <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= max {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// HumanizeLabel converts a snake_case identifier into a title-cased label,
// e.g. "device_not_found" becomes "Device Not Found".
func HumanizeLabel(value string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
