package services

import (
	"sync/atomic"

	"vehicledash/internal/models"
)

// PredictionThresholds are the fixed limits of the maintenance rules.
// They are kept apart from HealthThresholds so each can be tuned alone.
type PredictionThresholds struct {
	EngineTemp       float64
	OilLevel         float64
	BatteryVoltage   float64
	EngineSpeed      float64
	OilDegradePerRun float64
}

// DefaultPredictionThresholds returns the stock maintenance limits
func DefaultPredictionThresholds() PredictionThresholds {
	return PredictionThresholds{
		EngineTemp:       220,
		OilLevel:         70,
		BatteryVoltage:   12.0,
		EngineSpeed:      3000,
		OilDegradePerRun: 0.5,
	}
}

// AlertRule produces one alert when Trigger holds
type AlertRule struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     string
	Trigger     func(t PredictionThresholds, current models.Sample, history []models.Sample) bool
}

// DefaultAlertRules in evaluation order: oil, engine, battery
var DefaultAlertRules = []AlertRule{
	{
		Title:       "Oil Change Required",
		Description: "Oil quality degrading faster than normal",
		Priority:    models.PriorityHigh,
		DueDate:     "3 days",
		Trigger: func(t PredictionThresholds, c models.Sample, h []models.Sample) bool {
			return c.OilLevel < t.OilLevel || OilDegradationRate(c, h) > t.OilDegradePerRun
		},
	},
	{
		Title:       "Engine Inspection Needed",
		Description: "Unusual engine performance patterns detected",
		Priority:    models.PriorityMedium,
		DueDate:     "1 week",
		Trigger: func(t PredictionThresholds, c models.Sample, _ []models.Sample) bool {
			return c.EngineTemp > t.EngineTemp || c.EngineSpeed > t.EngineSpeed
		},
	},
	{
		Title:       "Battery Warning",
		Description: "Battery showing signs of deterioration",
		Priority:    models.PriorityLow,
		DueDate:     "2 weeks",
		Trigger: func(t PredictionThresholds, c models.Sample, _ []models.Sample) bool {
			return c.BatteryVoltage < t.BatteryVoltage
		},
	},
}

// OilDegradationRate compares current against history[0], the first element
// of the sequence passed in, spread over the window length. Empty history
// yields 0.
func OilDegradationRate(current models.Sample, history []models.Sample) float64 {
	if len(history) == 0 {
		return 0
	}
	return (history[0].OilLevel - current.OilLevel) / float64(len(history))
}

// AlertEngine evaluates the maintenance rules. Apart from id assignment it
// holds no state between calls.
type AlertEngine struct {
	thresholds PredictionThresholds
	rules      []AlertRule
	lastID     atomic.Int64
}

func NewAlertEngine(thresholds PredictionThresholds) *AlertEngine {
	return &AlertEngine{
		thresholds: thresholds,
		rules:      DefaultAlertRules,
	}
}

// Evaluate returns the alerts triggered by current and history, in rule
// order. It never returns nil.
func (e *AlertEngine) Evaluate(current models.Sample, history []models.Sample) []models.Alert {
	alerts := []models.Alert{}
	for _, rule := range e.rules {
		if !rule.Trigger(e.thresholds, current, history) {
			continue
		}
		alerts = append(alerts, models.Alert{
			ID:          e.lastID.Add(1),
			Title:       rule.Title,
			Description: rule.Description,
			Priority:    rule.Priority,
			DueDate:     rule.DueDate,
		})
	}
	return alerts
}
