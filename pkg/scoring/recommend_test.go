package scoring

import (
	"testing"

	"github.com/healthsignal/health-engine/pkg/models"
)

func TestRecommendCapAndOrder(t *testing.T) {
	// Every rule fires: three component rules plus the catch-all, so the
	// catch-all must be truncated away.
	recs := Recommend(10, 10, 10, models.StatusCritical)

	if len(recs) != MaxRecommendations {
		t.Fatalf("got %d recommendations, want %d", len(recs), MaxRecommendations)
	}
	if recs[0].Priority != models.PriorityHigh {
		t.Errorf("first rec priority = %s, want high (usage rule)", recs[0].Priority)
	}
	if recs[1].Timeline != "Within 3 days" {
		t.Errorf("second rec timeline = %q, want relationship rule timeline", recs[1].Timeline)
	}
	if recs[2].Timeline != "Immediately" {
		t.Errorf("third rec timeline = %q, want support rule timeline", recs[2].Timeline)
	}
	for _, r := range recs {
		if r.Action == "Escalate to executive sponsor for intervention" {
			t.Error("status catch-all must be dropped when component rules fill the cap")
		}
	}
}

func TestRecommendSoftThresholds(t *testing.T) {
	recs := Recommend(65, 65, 65, models.StatusAtRisk)

	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	wantPriorities := []models.Priority{models.PriorityMedium, models.PriorityHigh, models.PriorityMedium}
	for i, want := range wantPriorities {
		if recs[i].Priority != want {
			t.Errorf("rec %d priority = %s, want %s", i, recs[i].Priority, want)
		}
	}
}

func TestRecommendHealthyOnlyCatchAll(t *testing.T) {
	recs := Recommend(90, 85, 95, models.StatusHealthy)

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Timeline != "Within 1 month" {
		t.Errorf("timeline = %q, want expansion timeline", recs[0].Timeline)
	}
}

func TestRecommendAtRiskCatchAllAppended(t *testing.T) {
	// One component rule fires, leaving room for the catch-all.
	recs := Recommend(65, 85, 95, models.StatusAtRisk)

	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[1].Action != "Build a customer success action plan with clear owners" {
		t.Errorf("second rec = %q, want at-risk catch-all", recs[1].Action)
	}
}

func TestRecommendNeverExceedsCap(t *testing.T) {
	statuses := []models.HealthStatus{models.StatusHealthy, models.StatusAtRisk, models.StatusCritical}
	for _, status := range statuses {
		for usage := 0; usage <= 100; usage += 20 {
			for rel := 0; rel <= 100; rel += 20 {
				for sup := 0; sup <= 100; sup += 20 {
					recs := Recommend(usage, rel, sup, status)
					if len(recs) > MaxRecommendations {
						t.Fatalf("Recommend(%d,%d,%d,%s) returned %d recs",
							usage, rel, sup, status, len(recs))
					}
				}
			}
		}
	}
}
