package services

import "vehicledash/internal/models"

// HealthThresholds drive the coarse Normal/Warning/Critical status
type HealthThresholds struct {
	CriticalEngineTemp float64
	CriticalOilLevel   float64
	WarningEngineSpeed float64
	WarningBattery     float64
}

func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		CriticalEngineTemp: 220,
		CriticalOilLevel:   70,
		WarningEngineSpeed: 3000,
		WarningBattery:     12.0,
	}
}

// HealthClassifier derives status from the current sample only
type HealthClassifier struct {
	thresholds HealthThresholds
}

func NewHealthClassifier(thresholds HealthThresholds) *HealthClassifier {
	return &HealthClassifier{thresholds: thresholds}
}

// Classify applies Critical, then Warning, then Normal; first match wins.
func (c *HealthClassifier) Classify(s models.Sample) models.HealthStatus {
	t := c.thresholds
	if s.EngineTemp > t.CriticalEngineTemp || s.OilLevel < t.CriticalOilLevel {
		return models.HealthStatus{Status: models.StatusCritical, Tag: "red"}
	}
	if s.EngineSpeed > t.WarningEngineSpeed || s.BatteryVoltage < t.WarningBattery {
		return models.HealthStatus{Status: models.StatusWarning, Tag: "yellow"}
	}
	return models.HealthStatus{Status: models.StatusNormal, Tag: "green"}
}
