// Package pairkey is the single home for deterministic pair-derived keys.
// Date requests use directional keys, chat threads symmetric ones; nothing
// else in the codebase concatenates ids by hand.
package pairkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Directed derives the key for a directed pair, e.g. a date request from
// user 3 to user 7 -> "3_7". The reverse direction is a different key.
func Directed(from, to uint64) string {
	return fmt.Sprintf("%d_%d", from, to)
}

// Unordered derives the symmetric key for a user pair: the lower id always
// comes first, so Unordered(a, b) == Unordered(b, a).
func Unordered(a, b uint64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Split parses a pair key back into its two ids, in stored order.
func Split(key string) (uint64, uint64, error) {
	left, right, ok := strings.Cut(key, "_")
	if !ok {
		return 0, 0, fmt.Errorf("malformed pair key %q", key)
	}
	a, err := strconv.ParseUint(left, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed pair key %q", key)
	}
	b, err := strconv.ParseUint(right, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed pair key %q", key)
	}
	return a, b, nil
}
