package exporter

import "strconv"

// formatFloat renders a float without trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt renders an int in base 10
func formatInt(i int) string {
	return strconv.Itoa(i)
}
