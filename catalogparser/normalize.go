// Package catalogparser loads the reference source tables from a data
// directory and merges them into an immutable catalog snapshot.
package catalogparser

import "strings"

// Normalize returns the canonical form of a name: lowercased and trimmed.
// Every index key and every incoming query goes through this.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IngredientKey derives the warnings/food-interaction lookup key from a salt
// composition string: the text before the first parenthesis, normalized.
// "Hydroxyzine (10mg)" -> "hydroxyzine".
func IngredientKey(salt string) string {
	if salt == "" {
		return ""
	}
	if idx := strings.Index(salt, "("); idx != -1 {
		salt = salt[:idx]
	}
	return Normalize(salt)
}
