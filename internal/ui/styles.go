package ui

import (
	"github.com/charmbracelet/lipgloss"

	"vehicledash/internal/models"
)

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorBlue   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	labelStyle = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	infoStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	helpStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

func statusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusCritical:
		return critStyle
	case models.StatusWarning:
		return warnStyle
	default:
		return okStyle
	}
}

func levelStyle(l models.ChannelLevel) lipgloss.Style {
	switch l {
	case models.LevelOptimal:
		return okStyle
	case models.LevelHigh:
		return critStyle
	case models.LevelLow:
		return warnStyle
	default:
		return infoStyle
	}
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return critStyle
	case models.PriorityMedium:
		return warnStyle
	default:
		return infoStyle
	}
}
