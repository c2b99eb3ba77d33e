package models

import (
	"fmt"
	"math"
	"time"
)

// Channel names one telemetry signal of the vehicle
type Channel string

const (
	ChannelEngineSpeed      Channel = "engine_speed"
	ChannelEngineTemp       Channel = "engine_temp"
	ChannelOilLevel         Channel = "oil_level"
	ChannelBatteryVoltage   Channel = "battery_voltage"
	ChannelFuelEfficiency   Channel = "fuel_efficiency"
	ChannelEngineHealth     Channel = "engine_health"
	ChannelMileageToService Channel = "mileage_to_service"
)

// Channels lists every channel in display order
var Channels = []Channel{
	ChannelEngineSpeed,
	ChannelEngineTemp,
	ChannelOilLevel,
	ChannelBatteryVoltage,
	ChannelFuelEfficiency,
	ChannelEngineHealth,
	ChannelMileageToService,
}

// Sample is one synthetic telemetry reading
type Sample struct {
	EngineSpeed      float64   `json:"engine_speed"`       // rpm
	EngineTemp       float64   `json:"engine_temp"`        // °F
	OilLevel         float64   `json:"oil_level"`          // %
	BatteryVoltage   float64   `json:"battery_voltage"`    // V
	FuelEfficiency   float64   `json:"fuel_efficiency"`    // mpg
	EngineHealth     float64   `json:"engine_health"`      // %
	MileageToService float64   `json:"mileage_to_service"` // mi
	Timestamp        time.Time `json:"timestamp"`
}

// Value returns the reading of a single channel
func (s Sample) Value(ch Channel) float64 {
	switch ch {
	case ChannelEngineSpeed:
		return s.EngineSpeed
	case ChannelEngineTemp:
		return s.EngineTemp
	case ChannelOilLevel:
		return s.OilLevel
	case ChannelBatteryVoltage:
		return s.BatteryVoltage
	case ChannelFuelEfficiency:
		return s.FuelEfficiency
	case ChannelEngineHealth:
		return s.EngineHealth
	case ChannelMileageToService:
		return s.MileageToService
	default:
		return math.NaN()
	}
}

// Finite reports whether every channel holds a finite number
func (s Sample) Finite() bool {
	for _, ch := range Channels {
		v := s.Value(ch)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ChannelLevel is the four-level gauge label of a channel
type ChannelLevel string

const (
	LevelOptimal ChannelLevel = "Optimal"
	LevelHigh    ChannelLevel = "High"
	LevelLow     ChannelLevel = "Low"
	LevelNormal  ChannelLevel = "Normal"
)

// ChannelRange is the static {min, max, optimal} band of a channel
type ChannelRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`
	Unit    string  `json:"unit"`
}

// Level classifies value relative to the range.
// Optimal wins when value is within 10% of the span from optimal.
func (r ChannelRange) Level(value float64) ChannelLevel {
	span := r.Max - r.Min
	if math.Abs(value-r.Optimal) <= 0.1*span {
		return LevelOptimal
	}
	position := (value - r.Min) / span
	switch {
	case position > 0.75:
		return LevelHigh
	case position < 0.25:
		return LevelLow
	default:
		return LevelNormal
	}
}

// Describe renders e.g. "optimal (2500 RPM)"
func (r ChannelRange) Describe(value float64, unit string) string {
	return fmt.Sprintf("%s (%s%s)", lower(r.Level(value)), formatValue(value), unit)
}

func lower(l ChannelLevel) string {
	switch l {
	case LevelOptimal:
		return "optimal"
	case LevelHigh:
		return "high"
	case LevelLow:
		return "low"
	default:
		return "normal"
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// ChannelRanges is the process-wide range table
type ChannelRanges map[Channel]ChannelRange

// DefaultChannelRanges returns a fresh copy of the built-in range table
func DefaultChannelRanges() ChannelRanges {
	return ChannelRanges{
		ChannelEngineSpeed:      {Min: 700, Max: 6500, Optimal: 2500, Unit: "RPM"},
		ChannelEngineTemp:       {Min: 170, Max: 230, Optimal: 195, Unit: "°F"},
		ChannelOilLevel:         {Min: 20, Max: 100, Optimal: 80, Unit: "%"},
		ChannelBatteryVoltage:   {Min: 11.8, Max: 14.4, Optimal: 12.6, Unit: "V"},
		ChannelFuelEfficiency:   {Min: 15, Max: 45, Optimal: 30, Unit: "MPG"},
		ChannelEngineHealth:     {Min: 0, Max: 100, Optimal: 95, Unit: "%"},
		ChannelMileageToService: {Min: 0, Max: 5000, Optimal: 3000, Unit: "mi"},
	}
}

// Clone copies the table so callers cannot mutate the shared one
func (c ChannelRanges) Clone() ChannelRanges {
	out := make(ChannelRanges, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
