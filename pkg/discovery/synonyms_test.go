package discovery

import "testing"

func TestFindFieldExactBeatsSubstring(t *testing.T) {
	// "Email Opt Out" appears first and contains "email" as a substring,
	// but "Email Address" matches the email_address pattern exactly.
	fields := []string{"Email Opt Out", "Email Address", "Full Name"}

	got := FindField(fields, synonyms[KeyEmail])
	if got != "Email Address" {
		t.Errorf("FindField = %q, want %q", got, "Email Address")
	}
}

func TestFindFieldSubstringFallback(t *testing.T) {
	fields := []string{"Primary Contact Email (Work)", "Notes"}

	got := FindField(fields, synonyms[KeyEmail])
	if got != "Primary Contact Email (Work)" {
		t.Errorf("FindField = %q, want substring match", got)
	}
}

func TestFindFieldNoMatch(t *testing.T) {
	fields := []string{"Notes", "Attachments"}

	if got := FindField(fields, synonyms[KeyEmail]); got != "" {
		t.Errorf("FindField = %q, want empty", got)
	}
}

func TestFindFieldCaseInsensitive(t *testing.T) {
	fields := []string{"CUSTOMER_EMAIL"}

	if got := FindField(fields, synonyms[KeyEmail]); got != "CUSTOMER_EMAIL" {
		t.Errorf("FindField = %q, want %q", got, "CUSTOMER_EMAIL")
	}
}

func TestMapFieldsBindsKnownColumns(t *testing.T) {
	fields := []string{
		"Email Address", "Customer Name", "Company", "Account Value",
		"Phone Number", "Last Contact Date", "Notes",
	}

	mapping := MapFields(fields)

	want := map[string]string{
		KeyEmail:        "Email Address",
		KeyName:         "Customer Name",
		KeyCompany:      "Company",
		KeyAccountValue: "Account Value",
		KeyPhone:        "Phone Number",
		KeyLastContact:  "Last Contact Date",
	}
	for key, col := range want {
		if mapping[key] != col {
			t.Errorf("mapping[%s] = %q, want %q", key, mapping[key], col)
		}
	}
	if _, ok := mapping[KeySentiment]; ok {
		t.Error("sentiment should be unmapped")
	}
}

func TestMapFieldsEmptyInput(t *testing.T) {
	mapping := MapFields(nil)
	if len(mapping) != 0 {
		t.Errorf("mapping of no fields has %d entries, want 0", len(mapping))
	}
}
