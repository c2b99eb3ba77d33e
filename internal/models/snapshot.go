package models

import "time"

// Snapshot is the published, read-only state of a telemetry session after a tick
type Snapshot struct {
	Current     Sample       `json:"current"`
	History     []Sample     `json:"history"` // most recent first
	Alerts      []Alert      `json:"alerts"`
	Health      HealthStatus `json:"health"`
	Tick        uint64       `json:"tick"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ChannelReading pairs a channel value with its gauge level
type ChannelReading struct {
	Channel Channel      `json:"channel"`
	Value   float64      `json:"value"`
	Unit    string       `json:"unit"`
	Level   ChannelLevel `json:"level"`
}

// Readings returns per-channel gauge readings of the current sample
func (s Snapshot) Readings(ranges ChannelRanges) []ChannelReading {
	out := make([]ChannelReading, 0, len(Channels))
	for _, ch := range Channels {
		r := ranges[ch]
		v := s.Current.Value(ch)
		out = append(out, ChannelReading{Channel: ch, Value: v, Unit: r.Unit, Level: r.Level(v)})
	}
	return out
}
