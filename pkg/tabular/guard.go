package tabular

import (
	"fmt"
	"strings"

	"github.com/corazawaf/libinjection-go"
)

// CheckPredicateValue rejects values that must not be interpolated into a
// backend filter expression. Airtable formulas and SQL predicates both take
// caller-supplied match values, so anything that scans as an injection
// payload is refused before it reaches a store.
func CheckPredicateValue(value string) error {
	if sqli, _ := libinjection.IsSQLi(value); sqli {
		return fmt.Errorf("match value %q rejected: injection pattern detected", value)
	}
	return nil
}

// EscapeFormulaString escapes a value for inclusion inside a single-quoted
// Airtable formula literal.
func EscapeFormulaString(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}
