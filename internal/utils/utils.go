package utils

import (
	"sort"
	"strings"
)

// SortedKeys returns the keys of a tally map in a stable order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CenterText pads s with spaces to width.
func CenterText(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-n-padding)
}

// Bar renders value as a block bar scaled so that total fills width.
func Bar(value, total, width int) string {
	if total <= 0 || value <= 0 {
		return ""
	}
	n := value * width / total
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
