package utils

import (
	"strconv"
	"strings"
)

// ParseLimit returns 0 (no limit) for empty or invalid input and clamps to max.
func ParseLimit(s string, max int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || limit <= 0 {
		return 0
	}

	if max > 0 && limit > max {
		return max
	}

	return limit
}
