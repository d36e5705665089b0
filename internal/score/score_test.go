package score

import (
	"testing"

	"github.com/riverwatch/riverwatch/internal/config"
	"github.com/riverwatch/riverwatch/internal/model"
)

func f(v float64) *float64 { return &v }

// reading builds a fully populated reading with the given values.
func reading(ph, temp, oxygen, nitrates, turbidity float64) model.Reading {
	return model.Reading{
		PHLevel:         f(ph),
		Temperature:     f(temp),
		DissolvedOxygen: f(oxygen),
		Nitrates:        f(nitrates),
		Turbidity:       f(turbidity),
	}
}

// --- HealthScore() table-driven tests ---

func TestHealthScore(t *testing.T) {
	rules := config.DefaultScoring()

	tests := []struct {
		name string
		r    model.Reading
		want int
	}{
		{
			name: "baseline reading, nothing triggered",
			r:    reading(7.2, 18.5, 8.3, 2.1, 5.2),
			want: 100,
		},
		{
			name: "acid pH only",
			r:    reading(6.0, 18.5, 8.3, 2.1, 5.2),
			want: 80,
		},
		{
			name: "alkaline pH only",
			r:    reading(9.0, 18.5, 8.3, 2.1, 5.2),
			want: 80,
		},
		{
			name: "hot water only",
			r:    reading(7.2, 30.0, 8.3, 2.1, 5.2),
			want: 85,
		},
		{
			name: "cold water only",
			r:    reading(7.2, 5.0, 8.3, 2.1, 5.2),
			want: 85,
		},
		{
			name: "low oxygen only",
			r:    reading(7.2, 18.5, 4.0, 2.1, 5.2),
			want: 75,
		},
		{
			name: "high nitrates only",
			r:    reading(7.2, 18.5, 8.3, 4.0, 5.2),
			want: 80,
		},
		{
			name: "turbid only",
			r:    reading(7.2, 18.5, 8.3, 2.1, 12.0),
			want: 90,
		},
		{
			name: "penalties stack independently",
			r:    reading(9.0, 30.0, 4.0, 4.0, 12.0),
			want: 10, // 100 - 20 - 15 - 25 - 20 - 10
		},
		{
			name: "nil measurements trigger no penalty",
			r:    model.Reading{Nitrates: f(4.0)},
			want: 80,
		},
		{
			name: "all sensors dropped out",
			r:    model.Reading{},
			want: 100,
		},
		{
			name: "thresholds are exclusive at the boundary",
			r:    reading(6.5, 25.0, 6.0, 3.0, 10.0),
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HealthScore(rules, tt.r); got != tt.want {
				t.Errorf("HealthScore: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHealthScore_ClampsAtZero(t *testing.T) {
	rules := config.DefaultScoring()
	rules.PHPenalty = 60
	rules.TempPenalty = 60

	r := reading(9.0, 30.0, 8.3, 2.1, 5.2)
	if got := HealthScore(rules, r); got != 0 {
		t.Errorf("HealthScore: got %d, want 0 (clamped)", got)
	}
}

func TestHealthScore_Deterministic(t *testing.T) {
	rules := config.DefaultScoring()
	r := reading(9.0, 30.0, 4.0, 4.0, 12.0)

	first := HealthScore(rules, r)
	for i := 0; i < 10; i++ {
		if got := HealthScore(rules, r); got != first {
			t.Fatalf("HealthScore not deterministic: got %d then %d", first, got)
		}
	}
}

// --- Evaluate() alert candidate tests ---

func TestEvaluate_AlertRaisedWhenDrawPasses(t *testing.T) {
	eng := New(config.DefaultScoring())
	eng.randFloat = func() float64 { return 0.05 } // below 0.1, raises

	site := model.Site{ID: "site-1", Name: "Murray River Site A"}
	health, alert := eng.Evaluate(site, reading(7.2, 18.5, 8.3, 4.0, 5.2))

	if health != 80 {
		t.Errorf("health: got %d, want 80", health)
	}
	if alert == nil {
		t.Fatal("alert: expected a candidate, got nil")
	}
	if alert.SiteID != "site-1" {
		t.Errorf("SiteID: got %q, want site-1", alert.SiteID)
	}
	if alert.Priority != model.PriorityHigh || alert.AlertType != model.AlertAnomaly {
		t.Errorf("priority/type: got %s/%s, want high/anomaly", alert.Priority, alert.AlertType)
	}
	if alert.Confidence == nil || *alert.Confidence != AlertConfidence {
		t.Errorf("Confidence: got %v, want %d", alert.Confidence, AlertConfidence)
	}
	if alert.ETA != nil {
		t.Errorf("ETA: got %v, want nil", *alert.ETA)
	}
	if alert.Description != "Nitrate levels at Murray River Site A have exceeded safe thresholds." {
		t.Errorf("Description: got %q", alert.Description)
	}
}

func TestEvaluate_NoAlertWhenDrawFails(t *testing.T) {
	eng := New(config.DefaultScoring())
	eng.randFloat = func() float64 { return 0.95 } // above 0.1, suppresses

	_, alert := eng.Evaluate(model.Site{ID: "s"}, reading(7.2, 18.5, 8.3, 4.0, 5.2))
	if alert != nil {
		t.Fatalf("alert: expected nil, got %+v", alert)
	}
}

func TestEvaluate_NoAlertBelowNitrateGate(t *testing.T) {
	eng := New(config.DefaultScoring())
	eng.randFloat = func() float64 {
		t.Fatal("random draw taken even though the nitrate gate did not pass")
		return 0
	}

	// 3.4 exceeds the scoring threshold (3) but not the alert gate (3.5).
	_, alert := eng.Evaluate(model.Site{ID: "s"}, reading(7.2, 18.5, 8.3, 3.4, 5.2))
	if alert != nil {
		t.Fatalf("alert: expected nil, got %+v", alert)
	}
}

func TestEvaluate_NilNitratesNeverAlerts(t *testing.T) {
	eng := New(config.DefaultScoring())
	eng.randFloat = func() float64 { return 0.0 }

	_, alert := eng.Evaluate(model.Site{ID: "s"}, model.Reading{})
	if alert != nil {
		t.Fatalf("alert: expected nil for dropout reading, got %+v", alert)
	}
}

func TestSetRules_SwapsLive(t *testing.T) {
	eng := New(config.DefaultScoring())

	r := reading(7.2, 18.5, 8.3, 2.1, 5.2)
	if health, _ := eng.Evaluate(model.Site{}, r); health != 100 {
		t.Fatalf("health before swap: got %d, want 100", health)
	}

	strict := config.DefaultScoring()
	strict.NitrateMax = 2.0
	eng.SetRules(strict)

	if health, _ := eng.Evaluate(model.Site{}, r); health != 80 {
		t.Errorf("health after swap: got %d, want 80", health)
	}
}
