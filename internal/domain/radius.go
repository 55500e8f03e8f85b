package domain

import (
	"strconv"
	"strings"
)

// Radius bounds in meters.
const (
	DefaultRadius = 500
	MinRadius     = 100
	MaxRadius     = 1200
)

// ParseRadius reads the leading integer of s ("750m" -> 750) and clamps it to
// [MinRadius, MaxRadius]. Empty, non-numeric and zero input yield DefaultRadius.
func ParseRadius(s string) int {
	n := leadingInt(strings.TrimSpace(s))
	if n == 0 {
		n = DefaultRadius
	}
	return min(max(n, MinRadius), MaxRadius)
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflow: saturate toward the sign.
		if s[0] == '-' {
			return -MaxRadius
		}
		return MaxRadius
	}
	return n
}
