package shopping

import "strings"

// Matches reports whether a requested item and an existing list entry refer to
// the same thing. The rule is case-insensitive substring containment in either
// direction, so "bread" matches "2 loaves of bread" and vice versa. This is
// load-bearing reconciliation logic, kept as its own function so it can be
// tested directly.
func Matches(requested, existing string) bool {
	a := strings.ToLower(requested)
	b := strings.ToLower(existing)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
