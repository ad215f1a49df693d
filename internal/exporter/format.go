package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat formats a float64 value for CSV output with the given number
// of decimal places, so values like 13.4 appear as 13.4000 at precision 4
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// formatOptionalFloat renders nil as an empty cell
func formatOptionalFloat(f *float64, precision int) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f, precision)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
