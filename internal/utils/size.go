package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize renders a byte count as a compact lower-case unit string
// for the run summary, e.g. 1536 becomes "1.5kb".
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}
