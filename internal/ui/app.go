package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vehicledash/internal/models"
)

// Source is what the dashboard reads each refresh
type Source interface {
	Snapshot() models.Snapshot
	ChannelRanges() models.ChannelRanges
}

type tickMsg time.Time

type snapshotMsg models.Snapshot

const historyRows = 5

var channelLabels = map[models.Channel]string{
	models.ChannelEngineSpeed:      "Engine Speed",
	models.ChannelEngineTemp:       "Engine Temp",
	models.ChannelOilLevel:         "Oil Level",
	models.ChannelBatteryVoltage:   "Battery",
	models.ChannelFuelEfficiency:   "Fuel Efficiency",
	models.ChannelEngineHealth:     "Engine Health",
	models.ChannelMileageToService: "Next Service",
}

// Model is the bubbletea model of the terminal dashboard
type Model struct {
	source   Source
	ranges   models.ChannelRanges
	interval time.Duration
	snap     models.Snapshot
	paused   bool
	width    int
}

func NewModel(source Source, interval time.Duration) Model {
	return Model{
		source:   source,
		ranges:   source.ChannelRanges(),
		interval: interval,
		snap:     source.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func readSnapshot(src Source) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(src.Snapshot())
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.paused {
			return m, tick(m.interval)
		}
		return m, tea.Batch(tick(m.interval), readSnapshot(m.source))

	case snapshotMsg:
		m.snap = models.Snapshot(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	health := m.snap.Health
	b.WriteString(titleStyle.Render("Vehicle Health Dashboard"))
	b.WriteString("  ")
	b.WriteString(statusStyle(health.Status).Render(string(health.Status)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  tick %d  %s", m.snap.Tick, m.snap.GeneratedAt.Format("15:04:05"))))
	if m.paused {
		b.WriteString(warnStyle.Render("  [paused]"))
	}
	b.WriteString("\n")

	left := panelStyle.Render(m.renderGauges())
	right := panelStyle.Render(m.renderAlerts())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.renderHistory()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p pause • q quit"))
	return b.String()
}

func (m Model) renderGauges() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Real-Time Performance"))
	b.WriteString("\n")
	for _, r := range m.snap.Readings(m.ranges) {
		rng := m.ranges[r.Channel]
		fmt.Fprintf(&b, "%-16s %s %s %s\n",
			labelStyle.Render(channelLabels[r.Channel]),
			gauge(r.Value, rng, 20),
			valueStyle.Render(fmt.Sprintf("%8.1f %-3s", r.Value, r.Unit)),
			levelStyle(r.Level).Render(string(r.Level)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderAlerts() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Maintenance Alerts"))
	b.WriteString("\n")
	if len(m.snap.Alerts) == 0 {
		b.WriteString(labelStyle.Render("No maintenance alerts at this time"))
		return b.String()
	}
	for _, a := range m.snap.Alerts {
		fmt.Fprintf(&b, "%s %s\n  %s\n",
			priorityStyle(a.Priority).Render(strings.ToUpper(string(a.Priority))),
			valueStyle.Render(a.Title),
			labelStyle.Render(a.Description+" • due in "+a.DueDate))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vehicle History"))
	rows := m.snap.History
	if len(rows) > historyRows {
		rows = rows[:historyRows]
	}
	for _, s := range rows {
		fmt.Fprintf(&b, "\n%s  %5.0f RPM  %3.0f°F  %4.1fV  health %5.1f%%  %4.1f MPG",
			labelStyle.Render(s.Timestamp.Format("15:04:05")),
			s.EngineSpeed, s.EngineTemp, s.BatteryVoltage, s.EngineHealth, s.FuelEfficiency)
	}
	return b.String()
}

// gauge draws a bar of value within the range, clipped at both ends
func gauge(value float64, r models.ChannelRange, width int) string {
	frac := (value - r.Min) / (r.Max - r.Min)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	style := levelStyle(r.Level(value))
	return style.Render(strings.Repeat("█", filled)) + labelStyle.Render(strings.Repeat("░", width-filled))
}

// Run blocks until the user quits
func Run(source Source, interval time.Duration) error {
	p := tea.NewProgram(NewModel(source, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
