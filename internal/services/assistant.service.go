package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vehicledash/internal/models"
)

var (
	ErrSpeechUnavailable = errors.New("assistant: speech recognition unavailable")
	ErrEmptyMessage      = errors.New("assistant: message is empty")
)

// InputSource yields the text of one user utterance
type InputSource interface {
	Kind() string
	Text(ctx context.Context) (string, error)
}

// TypedInput is text entered directly by the user
type TypedInput struct {
	Value string
}

func (t TypedInput) Kind() string { return "typed" }

func (t TypedInput) Text(context.Context) (string, error) {
	return t.Value, nil
}

// Transcriber turns recorded audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechInput is a recording to be transcribed; a nil Transcriber means the
// platform has no speech support.
type SpeechInput struct {
	Transcriber Transcriber
	Audio       []byte
}

func (s SpeechInput) Kind() string { return "speech" }

func (s SpeechInput) Text(ctx context.Context) (string, error) {
	if s.Transcriber == nil {
		return "", ErrSpeechUnavailable
	}
	return s.Transcriber.Transcribe(ctx, s.Audio)
}

// ResolveInput tries each source in order and returns the first non-empty
// text. Speech failures degrade to the next source.
func ResolveInput(ctx context.Context, sources ...InputSource) (string, string, error) {
	var lastErr error
	for _, src := range sources {
		if src == nil {
			continue
		}
		text, err := src.Text(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, src.Kind(), nil
		}
	}
	if lastErr != nil {
		return "", "", fmt.Errorf("%w: %v", ErrEmptyMessage, lastErr)
	}
	return "", "", ErrEmptyMessage
}

const assistantGreeting = "Hello! I'm your vehicle health assistant. How can I help you today?"

const assistantHelp = "I can help you with information about:\n" +
	"• Vehicle status\n" +
	"• Engine speed and temperature\n" +
	"• Battery health\n" +
	"• Fuel efficiency\n" +
	"• Oil level\n" +
	"• Maintenance schedule\n\n" +
	"What would you like to know?"

// Assistant answers questions about the current vehicle state
type Assistant struct {
	logger *zap.Logger
	ranges models.ChannelRanges
	now    func() time.Time
}

func NewAssistant(ranges models.ChannelRanges, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ranges == nil {
		ranges = models.DefaultChannelRanges()
	}
	return &Assistant{logger: logger.Named("assistant"), ranges: ranges, now: time.Now}
}

// Greeting is the opening bot message
func (a *Assistant) Greeting() models.ChatMessage {
	return a.message(assistantGreeting, "bot", "")
}

// Ask resolves the input, answers it and returns the user and bot messages
func (a *Assistant) Ask(ctx context.Context, current models.Sample, sources ...InputSource) (models.ChatMessage, models.ChatMessage, error) {
	text, kind, err := ResolveInput(ctx, sources...)
	if err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, err
	}
	a.logger.Debug("question", zap.String("source", kind), zap.String("text", text))
	return a.message(text, "user", kind), a.message(a.Respond(current, text), "bot", ""), nil
}

func (a *Assistant) message(text, sender, source string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Source:    source,
		Timestamp: a.now(),
	}
}

// Respond routes the question by keyword
func (a *Assistant) Respond(d models.Sample, question string) string {
	in := strings.ToLower(question)
	r := a.ranges

	switch {
	case strings.Contains(in, "status"):
		return fmt.Sprintf("Current vehicle status:\n• Engine speed is %s\n• Engine temperature is %s\n• Overall engine health is at %.1f%%",
			r[models.ChannelEngineSpeed].Describe(d.EngineSpeed, " RPM"),
			r[models.ChannelEngineTemp].Describe(d.EngineTemp, "°F"),
			d.EngineHealth)

	case strings.Contains(in, "engine"):
		return a.engine(d, in)

	case strings.Contains(in, "battery"):
		rng := r[models.ChannelBatteryVoltage]
		advice := "The charging system is working properly."
		if d.BatteryVoltage < rng.Optimal-0.5 {
			advice = "Consider checking the charging system."
		}
		return fmt.Sprintf("Battery voltage is %.1fV, which is %s. %s", d.BatteryVoltage, rng.Describe(d.BatteryVoltage, "V"), advice)

	case strings.Contains(in, "fuel"), strings.Contains(in, "gas"), strings.Contains(in, "mileage"):
		rng := r[models.ChannelFuelEfficiency]
		advice := "Your driving habits are helping to maximize fuel efficiency."
		if d.FuelEfficiency < rng.Optimal-5 {
			advice = "Tips to improve: Check tire pressure, avoid rapid acceleration, and remove excess weight."
		}
		return fmt.Sprintf("Current fuel efficiency is %.1f MPG, which is %s. %s", d.FuelEfficiency, rng.Describe(d.FuelEfficiency, " MPG"), advice)

	case strings.Contains(in, "oil"):
		rng := r[models.ChannelOilLevel]
		advice := "Oil level is sufficient for safe operation."
		if d.OilLevel < rng.Optimal-20 {
			advice = "Schedule an oil change soon to maintain engine health."
		}
		return fmt.Sprintf("Oil level is at %.0f%%, which is %s. %s", d.OilLevel, rng.Describe(d.OilLevel, "%"), advice)

	case strings.Contains(in, "service"), strings.Contains(in, "maintenance"):
		days := int(math.Ceil(d.MileageToService / 100))
		advice := "You have plenty of time before the next required service."
		if d.MileageToService < 1000 {
			advice = "Schedule your service appointment soon to maintain vehicle health."
		}
		return fmt.Sprintf("Next service is due in %s miles (approximately %d days). %s", humanize.Comma(int64(d.MileageToService)), days, advice)
	}

	return assistantHelp
}

func (a *Assistant) engine(d models.Sample, in string) string {
	r := a.ranges
	switch {
	case strings.Contains(in, "speed"):
		rng := r[models.ChannelEngineSpeed]
		advice := "The engine is running smoothly."
		if d.EngineSpeed > rng.Optimal+1000 {
			advice = "Consider shifting to a higher gear to reduce engine stress."
		}
		return fmt.Sprintf("Engine speed is currently %.0f RPM, which is %s. %s", d.EngineSpeed, rng.Describe(d.EngineSpeed, " RPM"), advice)

	case strings.Contains(in, "temp"):
		rng := r[models.ChannelEngineTemp]
		advice := "Temperature is within safe operating range."
		if d.EngineTemp > rng.Optimal+20 {
			advice = "Consider checking the coolant level and radiator condition."
		}
		return fmt.Sprintf("Engine temperature is %.0f°F, which is %s. %s", d.EngineTemp, rng.Describe(d.EngineTemp, "°F"), advice)
	}

	advice := "Regular maintenance is recommended to maintain peak performance."
	if d.EngineHealth > 90 {
		advice = "All systems are functioning optimally."
	}
	return fmt.Sprintf("Engine health is at %.1f%%. %s", d.EngineHealth, advice)
}
