// Package validation provides input validation and token filtering for the
// interactions API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nutrimed/interactions-api/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Input validation: alphanumeric + Turkish letters + safe punctuation.
	// Commas are allowed because raw queries are comma-separated lists.
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+',çğıöşüÇĞİÖŞÜâîûÂÎÛ]+$`)

	// digitsOnly matches tokens that are pure numbers, which can never be a
	// drug or food name.
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}

	// noiseKeywords are dosage-form and unit words that show up in pasted
	// prescription text but never identify an entity.
	noiseKeywords = map[string]struct{}{
		"tablet": {}, "kapsül": {}, "şurup": {}, "damla": {}, "krem": {},
		"merhem": {}, "ampul": {}, "mg": {}, "ml": {}, "gr": {}, "mcg": {},
		"doz": {}, "adet": {}, "kutu": {}, "film": {}, "kaplı": {},
		"capsule": {}, "syrup": {}, "dose": {}, "ilaç": {}, "ilaçlar": {},
	}
)

// QueryValidatorImpl implements the interfaces.QueryValidator interface
type QueryValidatorImpl struct{}

// NewQueryValidator creates a new query validator
func NewQueryValidator() interfaces.QueryValidator {
	return &QueryValidatorImpl{}
}

// ValidateQuery validates a raw query string before it is split into tokens.
func (v *QueryValidatorImpl) ValidateQuery(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if len(input) < 2 {
		return fmt.Errorf("query too short: minimum 2 characters")
	}

	if len(input) > 200 {
		return fmt.Errorf("query too long: maximum 200 characters")
	}

	// Word count validation to prevent DoS attacks with many short words
	words := strings.Fields(input)
	if len(words) > 20 {
		return fmt.Errorf("query too complex: maximum 20 words allowed")
	}

	// Check for potentially dangerous patterns using string matching (faster than regex)
	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("query contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("query contains invalid characters. Only letters, numbers, spaces, commas, hyphens, apostrophes, periods, plus sign, and Turkish accented characters are allowed")
	}

	// Additional checks for repeated characters (potential DoS)
	if hasExcessiveRepetition(input) {
		return fmt.Errorf("query contains excessive character repetition")
	}

	return nil
}

// FilterTokens drops tokens that cannot name an entity: empty after
// trimming, shorter than two characters, pure digits, or a known dosage-form
// noise word. Surviving tokens keep their original casing and order; the
// resolver normalizes on lookup.
func (v *QueryValidatorImpl) FilterTokens(queries []string) []string {
	var filtered []string

	for _, query := range queries {
		token := strings.TrimSpace(query)
		if len([]rune(token)) < 2 {
			continue
		}

		if digitsOnly.MatchString(token) {
			continue
		}

		if _, noise := noiseKeywords[strings.ToLower(token)]; noise {
			continue
		}

		filtered = append(filtered, token)
	}

	return filtered
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
