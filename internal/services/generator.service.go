package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vehicledash/internal/models"
)

var (
	ErrNoRandomSource  = errors.New("generator: random source is required")
	ErrNonFiniteSample = errors.New("generator: produced a non-finite value")
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// swing is how far each channel moves away from its optimal at full oscillation
var swing = map[models.Channel]float64{
	models.ChannelEngineSpeed:      1000,
	models.ChannelEngineTemp:       25,
	models.ChannelOilLevel:         10,
	models.ChannelBatteryVoltage:   0.5,
	models.ChannelFuelEfficiency:   5,
	models.ChannelEngineHealth:     3,
	models.ChannelMileageToService: 500,
}

const maxAmplitudeJitter = 0.3

// Generator synthesizes telemetry from three weighted sinusoids of wall-clock
// time, scaled by a random amplitude factor in [1, 1.3).
type Generator struct {
	random RandomSource
	ranges models.ChannelRanges
}

// NewGenerator fails when no random source is supplied
func NewGenerator(random RandomSource, ranges models.ChannelRanges) (*Generator, error) {
	if random == nil {
		return nil, ErrNoRandomSource
	}
	if ranges == nil {
		ranges = models.DefaultChannelRanges()
	}
	return &Generator{random: random, ranges: ranges.Clone()}, nil
}

// Oscillation is the unscaled waveform in [-1, 1] at now
func Oscillation(now time.Time) float64 {
	t := float64(now.UnixMilli())
	return math.Sin(t/10000)*0.5 + math.Sin(t/5000)*0.3 + math.Sin(t/2000)*0.2
}

// Generate produces one sample. Values are not clamped to their range.
func (g *Generator) Generate(now time.Time) (models.Sample, error) {
	r := g.random.Float64() * maxAmplitudeJitter
	offset := Oscillation(now) * (1 + r)

	at := func(ch models.Channel) float64 {
		return g.ranges[ch].Optimal + offset*swing[ch]
	}

	s := models.Sample{
		EngineSpeed:      math.Floor(at(models.ChannelEngineSpeed)),
		EngineTemp:       math.Floor(at(models.ChannelEngineTemp)),
		OilLevel:         math.Floor(at(models.ChannelOilLevel)),
		BatteryVoltage:   roundTenth(at(models.ChannelBatteryVoltage)),
		FuelEfficiency:   roundTenth(at(models.ChannelFuelEfficiency)),
		EngineHealth:     roundTenth(at(models.ChannelEngineHealth)),
		MileageToService: math.Floor(at(models.ChannelMileageToService)),
		Timestamp:        now,
	}
	if !s.Finite() {
		return models.Sample{}, fmt.Errorf("%w (jitter=%v)", ErrNonFiniteSample, r)
	}
	return s, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
