package discovery

import (
	"strings"

	"github.com/healthsignal/health-engine/pkg/tabular"
)

var customerTableKeywords = []string{
	"customer", "client", "contact", "account", "user", "member",
	"lead", "prospect", "people", "person",
}

// ScoreTable rates how likely a table is to hold customer records, 0 to 100.
//
// The rubric is additive: a customer-suggestive table name earns 30; a bound
// email mapping earns 25, name 10, company 10, account_value 5; binding both
// email and name earns a 20 bonus. Tables with fewer than three columns lose
// 20 as probable config or lookup tables. If targetHint is non-empty and
// appears as a case-insensitive substring of any sampled cell, the table
// earns 20 for holding the record the caller is after. The result is
// clamped to [0, 100].
func ScoreTable(table TableProfile, mapping FieldMapping, rows []tabular.Row, targetHint string) float64 {
	score := 0.0

	nameLower := strings.ToLower(table.Name)
	for _, keyword := range customerTableKeywords {
		if strings.Contains(nameLower, keyword) {
			score += 30
			break
		}
	}

	_, hasEmail := mapping[KeyEmail]
	_, hasName := mapping[KeyName]
	if hasEmail {
		score += 25
	}
	if hasName {
		score += 10
	}
	if _, ok := mapping[KeyCompany]; ok {
		score += 10
	}
	if _, ok := mapping[KeyAccountValue]; ok {
		score += 5
	}
	if hasEmail && hasName {
		score += 20
	}

	if len(table.Fields) < 3 {
		score -= 20
	}
	if targetHint != "" && rowsContain(rows, targetHint) {
		score += 20
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// rowsContain reports whether any string cell of any row contains the hint,
// case-insensitively.
func rowsContain(rows []tabular.Row, hint string) bool {
	needle := strings.ToLower(hint)
	for _, row := range rows {
		for _, val := range row {
			s, ok := val.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
	}
	return false
}

// RowContains reports whether any string cell of one row contains the hint.
func RowContains(row tabular.Row, hint string) bool {
	return rowsContain([]tabular.Row{row}, hint)
}
