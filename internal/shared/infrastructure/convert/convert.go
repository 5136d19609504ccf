// Package convert provides checked conversions for identifiers and sizes.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseID parses a store identifier. Identifiers are positive base-10
// integers; anything else is an error.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", value)
	}
	return id, nil
}

// IntToInt32Clamped converts an int to int32, clamping to the int32 range.
func IntToInt32Clamped(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
