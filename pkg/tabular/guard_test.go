package tabular

import "testing"

func TestCheckPredicateValueAcceptsNormalInput(t *testing.T) {
	values := []string{
		"jane@acme.com",
		"CUST001",
		"Acme Corporation",
		"O'Brien Consulting",
	}
	for _, v := range values {
		if err := CheckPredicateValue(v); err != nil {
			t.Errorf("CheckPredicateValue(%q) = %v, want nil", v, err)
		}
	}
}

func TestCheckPredicateValueRejectsInjection(t *testing.T) {
	values := []string{
		"' OR '1'='1",
		"1; DROP TABLE customers--",
		"x' UNION SELECT password FROM users--",
	}
	for _, v := range values {
		if err := CheckPredicateValue(v); err == nil {
			t.Errorf("CheckPredicateValue(%q) accepted an injection payload", v)
		}
	}
}

func TestEscapeFormulaString(t *testing.T) {
	if got := EscapeFormulaString("O'Brien"); got != `O\'Brien` {
		t.Errorf("EscapeFormulaString = %q", got)
	}
}
