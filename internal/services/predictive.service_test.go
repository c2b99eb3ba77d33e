package services

import (
	"testing"

	"vehicledash/internal/models"
)

func nominal() models.Sample {
	return models.Sample{
		EngineSpeed:      2500,
		EngineTemp:       195,
		OilLevel:         80,
		BatteryVoltage:   12.6,
		FuelEfficiency:   30,
		EngineHealth:     95,
		MileageToService: 3000,
	}
}

func titles(alerts []models.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Title)
	}
	return out
}

func TestEvaluateRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(s *models.Sample)
		history []models.Sample
		want    []string
	}{
		{"nominal", func(s *models.Sample) {}, nil, []string{}},
		{"low_oil", func(s *models.Sample) { s.OilLevel = 65 }, nil, []string{"Oil Change Required"}},
		{"hot_engine", func(s *models.Sample) { s.EngineTemp = 221 }, nil, []string{"Engine Inspection Needed"}},
		{"fast_engine", func(s *models.Sample) { s.EngineSpeed = 3001 }, nil, []string{"Engine Inspection Needed"}},
		{"weak_battery", func(s *models.Sample) { s.BatteryVoltage = 11.5 }, nil, []string{"Battery Warning"}},
		{"boundaries_do_not_fire", func(s *models.Sample) {
			s.OilLevel = 70
			s.EngineTemp = 220
			s.EngineSpeed = 3000
			s.BatteryVoltage = 12.0
		}, nil, []string{}},
		{"all_in_rule_order", func(s *models.Sample) {
			s.OilLevel = 60
			s.EngineTemp = 230
			s.BatteryVoltage = 11.0
		}, nil, []string{"Oil Change Required", "Engine Inspection Needed", "Battery Warning"}},
		{"oil_degradation", func(s *models.Sample) { s.OilLevel = 84 },
			[]models.Sample{{OilLevel: 90}}, []string{"Oil Change Required"}},
		{"slow_degradation", func(s *models.Sample) { s.OilLevel = 84 },
			[]models.Sample{{OilLevel: 85}, {OilLevel: 85}, {OilLevel: 85}}, []string{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			engine := NewAlertEngine(DefaultPredictionThresholds())
			s := nominal()
			c.mutate(&s)

			got := titles(engine.Evaluate(s, c.history))
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("expected %v, got %v", c.want, got)
				}
			}
		})
	}
}

func TestEvaluateLowOilAlert(t *testing.T) {
	engine := NewAlertEngine(DefaultPredictionThresholds())
	s := nominal()
	s.OilLevel = 65

	alerts := engine.Evaluate(s, []models.Sample{})
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Title != "Oil Change Required" || a.Priority != models.PriorityHigh || a.DueDate != "3 days" {
		t.Fatalf("unexpected alert: %+v", a)
	}
}

func TestEvaluateBatteryAlert(t *testing.T) {
	engine := NewAlertEngine(DefaultPredictionThresholds())
	s := nominal()
	s.BatteryVoltage = 11.5

	alerts := engine.Evaluate(s, nil)
	if len(alerts) != 1 || alerts[0].Title != "Battery Warning" || alerts[0].Priority != models.PriorityLow {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}
}

func TestEvaluateIsPureApartFromIDs(t *testing.T) {
	engine := NewAlertEngine(DefaultPredictionThresholds())
	s := nominal()
	s.OilLevel = 50
	s.EngineSpeed = 4000
	history := []models.Sample{{OilLevel: 60}}

	first := engine.Evaluate(s, history)
	second := engine.Evaluate(s, history)
	if len(first) != len(second) {
		t.Fatalf("different alert counts: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = 0, 0
		if a != b {
			t.Fatalf("alert %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestEvaluateAssignsUniqueIDs(t *testing.T) {
	engine := NewAlertEngine(DefaultPredictionThresholds())
	s := nominal()
	s.OilLevel = 50
	s.EngineTemp = 240
	s.BatteryVoltage = 10

	seen := map[int64]bool{}
	var last int64
	for i := 0; i < 10; i++ {
		for _, a := range engine.Evaluate(s, nil) {
			if seen[a.ID] {
				t.Fatalf("duplicate alert id %d", a.ID)
			}
			if a.ID <= last {
				t.Fatalf("ids not monotonic: %d after %d", a.ID, last)
			}
			seen[a.ID] = true
			last = a.ID
		}
	}
}

func TestEvaluateEmptyIsNotNil(t *testing.T) {
	engine := NewAlertEngine(DefaultPredictionThresholds())
	if alerts := engine.Evaluate(nominal(), nil); alerts == nil || len(alerts) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", alerts)
	}
}

func TestOilDegradationRate(t *testing.T) {
	cur := models.Sample{OilLevel: 84}
	if r := OilDegradationRate(cur, nil); r != 0 {
		t.Fatalf("empty history: expected 0, got %v", r)
	}
	if r := OilDegradationRate(cur, []models.Sample{{OilLevel: 90}}); r != 6 {
		t.Fatalf("expected 6, got %v", r)
	}
	// only history[0] is compared, spread over the whole window
	if r := OilDegradationRate(cur, []models.Sample{{OilLevel: 88}, {OilLevel: 99}}); r != 2 {
		t.Fatalf("expected 2, got %v", r)
	}
}
