package util

import "strconv"

// ParseIntDefault falls back to def when s is empty or not an integer.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
