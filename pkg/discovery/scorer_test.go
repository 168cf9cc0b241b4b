package discovery

import (
	"testing"

	"github.com/healthsignal/health-engine/pkg/tabular"
)

func profileFrom(name string, fieldNames ...string) TableProfile {
	p := TableProfile{Name: name}
	for _, f := range fieldNames {
		p.Fields = append(p.Fields, FieldProfile{Name: f, Type: TypeSingleLineText})
	}
	return p
}

func TestScoreTableFullCoverage(t *testing.T) {
	profile := profileFrom("Customers", "Email Address", "Customer Name", "Company", "Account Value")
	mapping := MapFields(profile.FieldNames())

	// name 30 + email 25 + name 10 + company 10 + value 5 + pair bonus 20
	got := ScoreTable(profile, mapping, nil, "")
	if got != 100 {
		t.Errorf("score = %v, want 100", got)
	}
}

func TestScoreTableSmallTablePenalty(t *testing.T) {
	profile := profileFrom("Config", "Key", "Value")
	mapping := MapFields(profile.FieldNames())

	// value mapping 5, minus 20 small-table penalty, clamped at 0
	got := ScoreTable(profile, mapping, nil, "")
	if got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestScoreTableNameBonusOnly(t *testing.T) {
	profile := profileFrom("Contacts", "ColA", "ColB", "ColC")

	got := ScoreTable(profile, FieldMapping{}, nil, "")
	if got != 30 {
		t.Errorf("score = %v, want 30", got)
	}
}

func TestScoreTableTargetBonus(t *testing.T) {
	profile := profileFrom("Records", "ColA", "ColB", "ColC")
	rows := []tabular.Row{
		{"ColA": "nothing"},
		{"ColB": "reach me at Jane@Acme.com today"},
	}

	without := ScoreTable(profile, FieldMapping{}, rows, "")
	with := ScoreTable(profile, FieldMapping{}, rows, "jane@acme.com")
	if with-without != 20 {
		t.Errorf("target bonus = %v, want 20", with-without)
	}
}

func TestScoreTableAlwaysInBounds(t *testing.T) {
	profiles := []TableProfile{
		profileFrom("Customers", "Email Address", "Customer Name", "Company", "Account Value", "Phone"),
		profileFrom(""),
		profileFrom("x", "a"),
	}
	for _, p := range profiles {
		got := ScoreTable(p, MapFields(p.FieldNames()), nil, "hint")
		if got < 0 || got > 100 {
			t.Errorf("score %v out of bounds for table %q", got, p.Name)
		}
	}
}
